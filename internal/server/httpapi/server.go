// Package httpapi exposes the vault operations over an HTTP JSON API.
// It is a thin caller of the vault service: actor authentication happens
// here, authorization and cryptography stay inside the vault.
package httpapi

import (
	"context"
	"net/http"

	"github.com/avolkov/credvault/internal/logging"
	"github.com/avolkov/credvault/internal/server/models"
)

// Vault is the caller-facing contract of the vault store. The HTTP layer
// depends only on this interface.
type Vault interface {
	List(ctx context.Context, orgID, actorID string) ([]*models.CredentialMetadata, error)
	Create(ctx context.Context, orgID, actorID, name, credType string, data map[string]any) (string, error)
	Get(ctx context.Context, orgID, actorID, id string) (*models.Credential, error)
	GetMany(ctx context.Context, orgID, actorID string, ids []string) ([]*models.Credential, error)
	Update(ctx context.Context, orgID, actorID, id string, newName *string, data map[string]any) error
	Delete(ctx context.Context, orgID, actorID, id string) error
}

// Server routes vault API requests.
type Server struct {
	vault     Vault
	jwtSecret []byte
	logger    logging.Logger
	mux       *http.ServeMux
}

func NewServer(vault Vault, jwtSecret []byte, logger logging.Logger) *Server {
	s := &Server{
		vault:     vault,
		jwtSecret: jwtSecret,
		logger:    logger,
		mux:       http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.Handle("GET /api/orgs/{orgID}/credentials", s.authRequired(s.handleList))
	s.mux.Handle("POST /api/orgs/{orgID}/credentials", s.authRequired(s.handleCreate))
	s.mux.Handle("POST /api/orgs/{orgID}/credentials/batch", s.authRequired(s.handleGetMany))
	s.mux.Handle("GET /api/orgs/{orgID}/credentials/{id}", s.authRequired(s.handleGet))
	s.mux.Handle("PATCH /api/orgs/{orgID}/credentials/{id}", s.authRequired(s.handleUpdate))
	s.mux.Handle("DELETE /api/orgs/{orgID}/credentials/{id}", s.authRequired(s.handleDelete))
	s.mux.HandleFunc("GET /api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "OK"})
	})
}

// Handler returns the root handler for the API.
func (s *Server) Handler() http.Handler {
	return s.mux
}
