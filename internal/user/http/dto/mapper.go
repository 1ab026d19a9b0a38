package dto

import (
	"github.com/allisson/apivault/internal/user/domain"
)

// ToRegisterUserInput converts a RegisterUserRequest to the use case input
func ToRegisterUserInput(req RegisterUserRequest) domain.RegisterUserInput {
	return domain.RegisterUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
}

// ToLoginInput converts a LoginRequest to the use case input
func ToLoginInput(req LoginRequest) domain.LoginInput {
	return domain.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}
}

// ToUserResponse converts a domain User to a UserResponse
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToAuthResponse converts an AuthResult to an AuthResponse
func ToAuthResponse(result *domain.AuthResult) AuthResponse {
	return AuthResponse{
		User:      ToUserResponse(result.User),
		Token:     result.Token,
		TokenType: "Bearer",
		ExpiresAt: result.ExpiresAt,
	}
}
