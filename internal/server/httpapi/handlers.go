package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/avolkov/credvault/internal/server/models"
)

type metadataResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Type          string     `json:"credential_type"`
	CreatorUserID string     `json:"creator_user_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

type credentialResponse struct {
	metadataResponse
	Data map[string]any `json:"data"`
}

func toMetadataResponse(m *models.CredentialMetadata) metadataResponse {
	return metadataResponse{
		ID:            m.ID,
		Name:          m.Name,
		Type:          m.Type,
		CreatorUserID: m.CreatorUserID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toCredentialResponse(c *models.Credential) credentialResponse {
	return credentialResponse{
		metadataResponse: toMetadataResponse(&c.CredentialMetadata),
		Data:             c.Data,
	}
}

func (s *Server) actor(r *http.Request) (orgID, actorID string, ok bool) {
	actorID, ok = actorIDFromContext(r.Context())
	return r.PathValue("orgID"), actorID, ok
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	orgID, actorID, ok := s.actor(r)
	if !ok {
		http.Error(w, "no auth context", http.StatusUnauthorized)
		return
	}

	metas, err := s.vault.List(r.Context(), orgID, actorID)
	if err != nil {
		s.logger.Warn(r.Context(), "list credentials failed", "org_id", orgID, "err", err.Error())
		writeError(w, err)
		return
	}

	result := make([]metadataResponse, 0, len(metas))
	for _, m := range metas {
		result = append(result, toMetadataResponse(m))
	}
	writeJSON(w, result)
}

type createRequest struct {
	Name string         `json:"name"`
	Type string         `json:"credential_type"`
	Data map[string]any `json:"data"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	orgID, actorID, ok := s.actor(r)
	if !ok {
		http.Error(w, "no auth context", http.StatusUnauthorized)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Name == "" || req.Type == "" || req.Data == nil {
		badRequest(w, "name, credential_type and data are required")
		return
	}

	id, err := s.vault.Create(r.Context(), orgID, actorID, req.Name, req.Type, req.Data)
	if err != nil {
		s.logger.Warn(r.Context(), "create credential failed", "org_id", orgID, "err", err.Error())
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "credential created", "org_id", orgID, "id", id)
	writeJSONStatus(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	orgID, actorID, ok := s.actor(r)
	if !ok {
		http.Error(w, "no auth context", http.StatusUnauthorized)
		return
	}

	cred, err := s.vault.Get(r.Context(), orgID, actorID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, toCredentialResponse(cred))
}

type batchRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleGetMany(w http.ResponseWriter, r *http.Request) {
	orgID, actorID, ok := s.actor(r)
	if !ok {
		http.Error(w, "no auth context", http.StatusUnauthorized)
		return
	}

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		badRequest(w, "ids are required")
		return
	}

	creds, err := s.vault.GetMany(r.Context(), orgID, actorID, req.IDs)
	if err != nil {
		writeError(w, err)
		return
	}

	result := make([]credentialResponse, 0, len(creds))
	for _, c := range creds {
		result = append(result, toCredentialResponse(c))
	}
	writeJSON(w, result)
}

type updateRequest struct {
	// Name is an explicit patch value: absent means keep the stored name.
	Name *string        `json:"name"`
	Data map[string]any `json:"data"`
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	orgID, actorID, ok := s.actor(r)
	if !ok {
		http.Error(w, "no auth context", http.StatusUnauthorized)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Data == nil {
		badRequest(w, "data is required")
		return
	}
	if req.Name != nil && *req.Name == "" {
		badRequest(w, "name cannot be empty")
		return
	}

	id := r.PathValue("id")
	if err := s.vault.Update(r.Context(), orgID, actorID, id, req.Name, req.Data); err != nil {
		s.logger.Warn(r.Context(), "update credential failed", "org_id", orgID, "id", id, "err", err.Error())
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "credential updated", "org_id", orgID, "id", id)
	writeJSON(w, map[string]string{"status": "OK"})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	orgID, actorID, ok := s.actor(r)
	if !ok {
		http.Error(w, "no auth context", http.StatusUnauthorized)
		return
	}

	id := r.PathValue("id")
	if err := s.vault.Delete(r.Context(), orgID, actorID, id); err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "credential deleted", "org_id", orgID, "id", id)
	writeJSON(w, map[string]string{"status": "OK"})
}
