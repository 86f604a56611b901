// Package profiles declares the profile-store contract. The profile record is
// co-created with its credential record inside the registration transaction.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// Repository defines persistence operations over profile records.
type Repository interface {
	// Create inserts the profile linked to an account. It is expected to run
	// inside the same transaction that creates the credential record.
	Create(ctx context.Context, profile *models.Profile) error

	FindByAccountID(ctx context.Context, accountID string) (*models.Profile, error)
}
