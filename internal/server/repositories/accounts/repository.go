// Package accounts declares the credential-store contract consumed by the
// account lifecycle service.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// Repository defines persistence operations over account credential records.
// Implementations surface unique-key collisions as common.ErrDuplicateAccount
// and absent rows as common.ErrorNotFound.
type Repository interface {
	// Create inserts a new credential record and returns it with the
	// store-assigned timestamps filled in.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	FindByID(ctx context.Context, id string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)

	// Update applies a partial field update and returns the updated record.
	Update(ctx context.Context, id string, patch *models.AccountPatch) (*models.Account, error)

	// SetRefreshToken replaces the refresh-token slot. A nil token clears it.
	SetRefreshToken(ctx context.Context, id string, token *string) error

	Delete(ctx context.Context, id string) error

	// List returns accounts ordered by creation time, newest first.
	List(ctx context.Context, limit, offset int) ([]*models.Account, error)
	Count(ctx context.Context) (int64, error)
}
