package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"jobprep/interview/internal/middleware"
	"jobprep/interview/internal/models"
	"jobprep/interview/internal/store"
	"jobprep/interview/internal/utils"
)

// ApplicationHandler tracks job applications as one JSON document in the
// KV store; the single-profile model keeps this deliberately simple.
type ApplicationHandler struct {
	kv     store.Store
	logger *zap.Logger
}

func NewApplicationHandler(kv store.Store, logger *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{kv: kv, logger: logger}
}

func (h *ApplicationHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	apps, err := h.load(r.Context())
	if err != nil {
		h.storeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, apps)
}

func (h *ApplicationHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ApplicationUpsertRequest](r)

	apps, err := h.load(r.Context())
	if err != nil {
		h.storeError(w, err)
		return
	}

	record := req.ApplicationRecord
	record.ID = uuid.New().String()
	// newest first
	apps = append([]models.ApplicationRecord{record}, apps...)

	if err := h.save(r.Context(), apps); err != nil {
		h.storeError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, record)
}

func (h *ApplicationHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ApplicationUpsertRequest](r)
	id := chi.URLParam(r, "applicationID")

	apps, err := h.load(r.Context())
	if err != nil {
		h.storeError(w, err)
		return
	}

	for i := range apps {
		if apps[i].ID == id {
			record := req.ApplicationRecord
			record.ID = id
			apps[i] = record
			if err := h.save(r.Context(), apps); err != nil {
				h.storeError(w, err)
				return
			}
			utils.JSON(w, http.StatusOK, record)
			return
		}
	}

	utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
		Code:    "application_not_found",
		Message: "No application with that ID",
	})
}

func (h *ApplicationHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "applicationID")

	apps, err := h.load(r.Context())
	if err != nil {
		h.storeError(w, err)
		return
	}

	for i := range apps {
		if apps[i].ID == id {
			apps = append(apps[:i], apps[i+1:]...)
			if err := h.save(r.Context(), apps); err != nil {
				h.storeError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}

	utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
		Code:    "application_not_found",
		Message: "No application with that ID",
	})
}

func (h *ApplicationHandler) load(ctx context.Context) ([]models.ApplicationRecord, error) {
	raw, err := h.kv.Get(ctx, store.KeyApplications)
	if errors.Is(err, store.ErrNotFound) {
		return []models.ApplicationRecord{}, nil
	}
	if err != nil {
		return nil, err
	}

	var apps []models.ApplicationRecord
	if err := json.Unmarshal([]byte(raw), &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (h *ApplicationHandler) save(ctx context.Context, apps []models.ApplicationRecord) error {
	encoded, err := json.Marshal(apps)
	if err != nil {
		return err
	}
	return h.kv.Set(ctx, store.KeyApplications, string(encoded))
}

func (h *ApplicationHandler) storeError(w http.ResponseWriter, err error) {
	h.logger.Error("Application store error", zap.Error(err))
	utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
		Code:    "store_error",
		Message: "Failed to access application storage",
	})
}
