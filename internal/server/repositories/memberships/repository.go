package memberships

import (
	"context"

	"github.com/avolkov/credvault/internal/server/models"
)

// Repository answers organization membership lookups for the access guard.
type Repository interface {
	// Get returns the membership of userID in orgID, or common.ErrorNotFound
	// when the user is not a member.
	Get(ctx context.Context, userID, orgID string) (*models.Membership, error)
}
