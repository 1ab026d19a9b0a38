package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	authService "github.com/allisson/apivault/internal/auth/service"
	"github.com/allisson/apivault/internal/database"
	apperrors "github.com/allisson/apivault/internal/errors"
	"github.com/allisson/apivault/internal/user/domain"
	appValidation "github.com/allisson/apivault/internal/validation"
)

const minPasswordLength = 6

// userUseCase implements UserUseCase.
type userUseCase struct {
	txManager       database.TxManager
	userRepo        UserRepository
	passwordService authService.PasswordService
	tokenService    authService.TokenService
}

func validateRegisterInput(input domain.RegisterUserInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.RuneLength(2, 50).Error("name must be between 2 and 50 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(0, 128).Error("password must be at most 128 characters"),
			appValidation.PasswordStrength{MinLength: minPasswordLength},
		),
	)
	return appValidation.WrapValidationError(err)
}

func validateLoginInput(input domain.LoginInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Email, validation.Required.Error("email is required")),
		validation.Field(&input.Password, validation.Required.Error("password is required")),
	)
	return appValidation.WrapValidationError(err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates the input, hashes the password and stores the account.
func (u *userUseCase) Register(
	ctx context.Context,
	input domain.RegisterUserInput,
) (*domain.AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)

	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	hash, err := u.passwordService.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      input.Name,
		Email:     input.Email,
		Password:  hash,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = u.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := u.userRepo.GetByEmail(ctx, user.Email); err == nil {
			return domain.ErrUserAlreadyExists
		} else if !apperrors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return u.userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return u.authResult(user)
}

// Login checks the credentials and issues a token for an active account.
func (u *userUseCase) Login(ctx context.Context, input domain.LoginInput) (*domain.AuthResult, error) {
	if err := validateLoginInput(input); err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if apperrors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !u.passwordService.Compare(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	return u.authResult(user)
}

// GetByID retrieves a user by ID.
func (u *userUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

func (u *userUseCase) authResult(user *domain.User) (*domain.AuthResult, error) {
	issued, err := u.tokenService.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResult{
		User:      user,
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
	}, nil
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	passwordService authService.PasswordService,
	tokenService authService.TokenService,
) UserUseCase {
	return &userUseCase{
		txManager:       txManager,
		userRepo:        userRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
	}
}
