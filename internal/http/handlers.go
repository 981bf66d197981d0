package http

import (
	"encoding/json"
	"net/http"
	"time"

	"Domain_Monitor/internal/logger"
	"Domain_Monitor/internal/models"
	"Domain_Monitor/internal/monitor"
	"Domain_Monitor/internal/store"
	"Domain_Monitor/internal/users"
)

// Handler contains the HTTP handlers for the operational API
type Handler struct {
	monitor monitor.Service
	store   store.Service
	users   users.Service
	logger  logger.Service
}

// NewHandler creates a new HTTP handler
func NewHandler(
	monitor monitor.Service,
	store store.Service,
	users users.Service,
	logger logger.Service,
) *Handler {
	return &Handler{
		monitor: monitor,
		store:   store,
		users:   users,
		logger:  logger,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// CheckResponse represents the result of a manually triggered cycle
type CheckResponse struct {
	Report    string    `json:"report"`
	Timestamp time.Time `json:"timestamp"`
}

// writeJSONResponse writes a JSON response with standard headers including X-Request-ID
func (h *Handler) writeJSONResponse(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) error {
	logEvent := logger.GetLogEvent(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", logEvent.ProcessID)
	w.WriteHeader(statusCode)

	return json.NewEncoder(w).Encode(data)
}

// writeErrorResponse writes a JSON error body
func (h *Handler) writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, errText, message string) {
	response := ErrorResponse{
		Error:     errText,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	_ = h.writeJSONResponse(w, r, statusCode, response)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.logger.LogInfo(r.Context(), logger.OpHealthCheck, "Health check requested", nil)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
	}
	_ = h.writeJSONResponse(w, r, http.StatusOK, response)
}

// Status handles GET /api/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := models.StatusInfo{
		TrackedDomains: h.store.Count(ctx),
		Subscribers:    h.users.Count(),
		Timestamp:      time.Now().UTC(),
	}
	_ = h.writeJSONResponse(w, r, http.StatusOK, status)
}

// TriggerCheck handles POST /api/check, running one cycle immediately
func (h *Handler) TriggerCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	h.logger.LogInfo(ctx, logger.OpCheckCycle, "Manual check triggered via HTTP", nil)

	report, err := h.monitor.CheckForChanges(ctx)
	if err != nil {
		h.writeErrorResponse(w, r, http.StatusInternalServerError, "check failed", err.Error())
		return
	}

	response := CheckResponse{
		Report:    report,
		Timestamp: time.Now().UTC(),
	}
	_ = h.writeJSONResponse(w, r, http.StatusOK, response)
}
