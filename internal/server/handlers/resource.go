package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/openclinic/fhirsync/internal/server/storage"
	"github.com/openclinic/fhirsync/pkg/api"
)

// ResourceHandler serves the versioned resource endpoints the sync client
// drains into. Optimistic concurrency rides on If-Match version
// preconditions; a failed precondition answers 409 with the server's current
// version and snapshot so the client can record a conflict.
type ResourceHandler struct {
	logger  *slog.Logger
	storage storage.ResourceStore
}

// NewResourceHandler creates a new resource handler.
func NewResourceHandler(logger *slog.Logger, storage storage.ResourceStore) *ResourceHandler {
	return &ResourceHandler{
		logger:  logger,
		storage: storage,
	}
}

// Register wires the handler's routes onto the mux.
func (h *ResourceHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/fhir/{type}", h.handleList)
	mux.HandleFunc("GET /api/v1/fhir/{type}/{id}", h.handleGet)
	mux.HandleFunc("PUT /api/v1/fhir/{type}/{id}", h.handlePut)
	mux.HandleFunc("PATCH /api/v1/fhir/{type}/{id}", h.handlePatch)
	mux.HandleFunc("DELETE /api/v1/fhir/{type}/{id}", h.handleDelete)
}

// handleGet serves GET /api/v1/fhir/{type}/{id}.
func (h *ResourceHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	resourceType, resourceID := r.PathValue("type"), r.PathValue("id")

	res, err := h.storage.GetResource(r.Context(), resourceType, resourceID)
	if err != nil {
		if errors.Is(err, storage.ErrResourceNotFound) {
			writeError(w, http.StatusNotFound, "resource not found")
			return
		}
		h.logger.Error("failed to load resource", "error", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	if res.Deleted {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}

	writeResource(w, h.logger, http.StatusOK, res)
}

// handleList serves GET /api/v1/fhir/{type}.
func (h *ResourceHandler) handleList(w http.ResponseWriter, r *http.Request) {
	resources, err := h.storage.ListResources(r.Context(), r.PathValue("type"))
	if err != nil {
		h.logger.Error("failed to list resources", "error", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}

	out := make([]api.ResourceResponse, 0, len(resources))
	for _, res := range resources {
		out = append(out, api.ResourceResponse{
			Resource: res.Body,
			Version:  strconv.FormatInt(res.Version, 10),
		})
	}

	writeJSON(w, h.logger, http.StatusOK, out)
}

// handlePut serves PUT /api/v1/fhir/{type}/{id}: create (no If-Match) or
// full update (If-Match required to be the current version).
func (h *ResourceHandler) handlePut(w http.ResponseWriter, r *http.Request) {
	resourceType, resourceID := r.PathValue("type"), r.PathValue("id")

	body, err := readResourceBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expected, err := parseIfMatch(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if expected == nil {
		// No precondition on PUT means create: the resource must not exist.
		expected = new(int64)
	}

	res, err := h.storage.UpsertResource(r.Context(), resourceType, resourceID, body, expected)
	if err != nil {
		h.writeStorageError(w, r, resourceType, resourceID, err)
		return
	}

	status := http.StatusOK
	if res.Version == 1 {
		status = http.StatusCreated
	}
	writeResource(w, h.logger, status, res)
}

// handlePatch serves PATCH /api/v1/fhir/{type}/{id}: a shallow JSON merge
// patch applied under the If-Match precondition.
func (h *ResourceHandler) handlePatch(w http.ResponseWriter, r *http.Request) {
	resourceType, resourceID := r.PathValue("type"), r.PathValue("id")

	patch, err := readResourceBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expected, err := parseIfMatch(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	current, err := h.storage.GetResource(r.Context(), resourceType, resourceID)
	if err != nil {
		h.writeStorageError(w, r, resourceType, resourceID, err)
		return
	}
	if current.Deleted {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}
	if expected != nil && current.Version != *expected {
		h.writeConflict(w, current)
		return
	}

	merged, err := mergePatch(current.Body, patch)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	version := current.Version
	res, err := h.storage.UpsertResource(r.Context(), resourceType, resourceID, merged, &version)
	if err != nil {
		h.writeStorageError(w, r, resourceType, resourceID, err)
		return
	}

	writeResource(w, h.logger, http.StatusOK, res)
}

// handleDelete serves DELETE /api/v1/fhir/{type}/{id}.
func (h *ResourceHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	resourceType, resourceID := r.PathValue("type"), r.PathValue("id")

	expected, err := parseIfMatch(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.storage.DeleteResource(r.Context(), resourceType, resourceID, expected); err != nil {
		h.writeStorageError(w, r, resourceType, resourceID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeStorageError maps store errors onto HTTP statuses. Version mismatches
// answer 409 with the current server state.
func (h *ResourceHandler) writeStorageError(w http.ResponseWriter, r *http.Request, resourceType, resourceID string, err error) {
	switch {
	case errors.Is(err, storage.ErrVersionMismatch):
		current, getErr := h.storage.GetResource(r.Context(), resourceType, resourceID)
		if getErr != nil && !errors.Is(getErr, storage.ErrResourceNotFound) {
			h.logger.Error("failed to load conflicting resource", "error", getErr)
			writeError(w, http.StatusInternalServerError, "storage failure")
			return
		}
		h.writeConflict(w, current)

	case errors.Is(err, storage.ErrResourceNotFound):
		writeError(w, http.StatusNotFound, "resource not found")

	default:
		h.logger.Error("storage failure",
			"resource", resourceType+"/"+resourceID,
			"error", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
	}
}

func (h *ResourceHandler) writeConflict(w http.ResponseWriter, current *storage.Resource) {
	resp := api.ConflictResponse{Message: "version precondition failed"}
	if current != nil {
		resp.CurrentVersion = strconv.FormatInt(current.Version, 10)
		if !current.Deleted {
			resp.Resource = current.Body
		}
	}
	writeJSON(w, h.logger, http.StatusConflict, resp)
}

func writeResource(w http.ResponseWriter, logger *slog.Logger, status int, res *storage.Resource) {
	writeJSON(w, logger, status, api.ResourceResponse{
		Resource: res.Body,
		Version:  strconv.FormatInt(res.Version, 10),
	})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: msg})
}

func readResourceBody(r *http.Request) (json.RawMessage, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("body is not valid JSON")
	}
	return body, nil
}

// parseIfMatch extracts the version precondition. Returns nil when the header
// is absent (unconditional write).
func parseIfMatch(r *http.Request) (*int64, error) {
	raw := r.Header.Get("If-Match")
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, fmt.Errorf("invalid If-Match version %q", raw)
	}

	return &v, nil
}

// mergePatch applies a shallow JSON merge: top-level keys in patch replace
// those in target, null removes them.
func mergePatch(target, patch json.RawMessage) (json.RawMessage, error) {
	var base map[string]json.RawMessage
	if err := json.Unmarshal(target, &base); err != nil {
		return nil, fmt.Errorf("resource body is not a JSON object: %w", err)
	}

	var delta map[string]json.RawMessage
	if err := json.Unmarshal(patch, &delta); err != nil {
		return nil, fmt.Errorf("patch body is not a JSON object: %w", err)
	}

	for k, v := range delta {
		if string(v) == "null" {
			delete(base, k)
			continue
		}
		base[k] = v
	}

	merged, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal merged resource: %w", err)
	}

	return merged, nil
}
