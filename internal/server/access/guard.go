// Package access implements the vault's authorization gate. Every store
// operation asks the guard first; no cryptographic or storage work happens
// for callers that fail here.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/avolkov/credvault/internal/common"
	"github.com/avolkov/credvault/internal/server/models"
	"github.com/avolkov/credvault/internal/server/repositories/memberships"
)

// Capability is a named permission over credentials, evaluated per
// organization-scoped actor.
type Capability string

const (
	CapabilityView   Capability = "view"
	CapabilityCreate Capability = "create"
	CapabilityEdit   Capability = "edit"
	CapabilityDelete Capability = "delete"
)

// Authorizer verifies that an actor may perform an action in an
// organization. The vault's core logic depends only on this interface,
// never on how roles are stored.
type Authorizer interface {
	Authorize(ctx context.Context, userID, orgID string, cap Capability) error
}

// roleCapabilities maps each role to the credential capabilities it holds.
var roleCapabilities = map[models.Role]map[Capability]struct{}{
	models.RoleOwner: {
		CapabilityView: {}, CapabilityCreate: {}, CapabilityEdit: {}, CapabilityDelete: {},
	},
	models.RoleAdmin: {
		CapabilityView: {}, CapabilityCreate: {}, CapabilityEdit: {}, CapabilityDelete: {},
	},
	models.RoleMember: {
		CapabilityView: {}, CapabilityCreate: {}, CapabilityEdit: {},
	},
	models.RoleViewer: {
		CapabilityView: {},
	},
}

// Service is the membership-backed Authorizer.
type Service struct {
	repo memberships.Repository
}

func NewService(repo memberships.Repository) *Service {
	return &Service{repo: repo}
}

// Authorize checks organization membership first, then the capability.
// The membership check always precedes the capability check so that
// non-members are rejected before any role evaluation.
func (s *Service) Authorize(ctx context.Context, userID, orgID string, cap Capability) error {
	m, err := s.repo.Get(ctx, userID, orgID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUserNotInOrganization
		}
		return fmt.Errorf("membership lookup: %w", err)
	}

	caps, ok := roleCapabilities[m.Role]
	if !ok {
		return common.ErrPermissionDenied
	}
	if _, ok := caps[cap]; !ok {
		return common.ErrPermissionDenied
	}
	return nil
}
