package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/upb/record-gate/middleware"
	"github.com/upb/record-gate/models"
	"github.com/upb/record-gate/services"
	"github.com/upb/record-gate/utils"
	"go.uber.org/zap"
)

// RecordService is the business layer behind the record endpoints
type RecordService interface {
	Create(ctx context.Context, input services.CreateRecordInput, createdBy string) (*models.Record, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Record, error)
	List(ctx context.Context, limit, offset int) ([]*models.Record, error)
	Update(ctx context.Context, id uuid.UUID, input services.UpdateRecordInput) (*models.Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListRecordsResponse is a page of records
type ListRecordsResponse struct {
	Records []*models.Record `json:"records"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// RecordHandler serves the records resource. Permission checks happen in
// the router before any of these methods run.
type RecordHandler struct {
	service RecordService
	logger  *zap.Logger
}

// NewRecordHandler creates a new RecordHandler
func NewRecordHandler(service RecordService, logger *zap.Logger) *RecordHandler {
	return &RecordHandler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate handles POST /api/v1/records
func (h *RecordHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input services.CreateRecordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	createdBy := ""
	if claims := middleware.GetClaimsFromContext(r.Context()); claims != nil {
		createdBy = claims.Subject
	}

	record, err := h.service.Create(r.Context(), input, createdBy)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteCreated(w, record); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}

// HandleGet handles GET /api/v1/records/{id}
func (h *RecordHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	record, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	writeOK(w, record, h.logger)
}

// HandleList handles GET /api/v1/records?limit=&offset=
func (h *RecordHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", services.DefaultListLimit)
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	limit = services.ClampLimit(limit)
	records, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	writeOK(w, ListRecordsResponse{Records: records, Limit: limit, Offset: offset}, h.logger)
}

// HandleUpdate handles PUT /api/v1/records/{id}
func (h *RecordHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	var input services.UpdateRecordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	record, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	writeOK(w, record, h.logger)
}

// HandleDelete handles DELETE /api/v1/records/{id}
func (h *RecordHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteNoContent(w)
}

func (h *RecordHandler) recordID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		if err := utils.WriteBadRequest(w, "invalid record id", nil); err != nil {
			h.logger.Error("failed to write response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &utils.ValidationError{
			Message: "Validation failed",
			Fields:  map[string]string{key: key + " must be an integer"},
		}
	}
	return value, nil
}

func writeOK(w http.ResponseWriter, data interface{}, logger *zap.Logger) {
	if err := utils.WriteOK(w, data); err != nil {
		logger.Error("failed to write response", zap.Error(err))
	}
}
