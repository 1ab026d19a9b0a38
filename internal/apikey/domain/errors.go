package domain

import (
	"github.com/allisson/apivault/internal/errors"
)

// API key error definitions.
var (
	// ErrAPIKeyNotFound covers a missing id, a key owned by someone else and a soft-deleted key.
	ErrAPIKeyNotFound = errors.Wrap(errors.ErrNotFound, "api key not found")

	// ErrDuplicateName indicates the owner already has an active key with this name.
	ErrDuplicateName = errors.Wrap(errors.ErrConflict, "api key name already exists")
)
