package assessment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type setStepRequest struct {
	Step Step `json:"step"`
}

type registerFileRequest struct {
	FileID string `json:"file_id"`
}

type progressResponse struct {
	Progress
	// True when the last flush to durable storage failed: the session still
	// works in memory but progress may not survive a restart.
	PersistenceDegraded bool `json:"persistence_degraded,omitempty"`
}

func (h *Handler) CreateAssessment(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.CreateAssessment(r.Context())
	if err != nil {
		http.Error(w, "Failed to create assessment", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"session_id": s.SessionID,
	})
}

func (h *Handler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	s, err := h.svc.GetAssessment(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(s)
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	progress, degraded, err := h.svc.GetProgress(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(progressResponse{
		Progress:            progress,
		PersistenceDegraded: degraded,
	})
}

// SetCurrentStep changes the presented step. Jumps are allowed: the wizard
// supports free navigation, so no adjacency check happens here or below.
func (h *Handler) SetCurrentStep(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req setStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.svc.SetCurrentStep(r.Context(), id, req.Step); err != nil {
		h.writeError(w, err)
		return
	}

	h.respondProgress(w, r, id)
}

func (h *Handler) MarkStepCompleted(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	step := Step(chi.URLParam(r, "step"))
	if err := h.svc.MarkStepCompleted(r.Context(), id, step); err != nil {
		h.writeError(w, err)
		return
	}

	h.respondProgress(w, r, id)
}

func (h *Handler) UpdateDemographics(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var in DemographicData
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateDemographics(r.Context(), id, in); err != nil {
		h.writeError(w, err)
		return
	}
	h.respondRecord(w, r, id)
}

func (h *Handler) UpdateVitalSigns(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var in VitalSigns
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateVitalSigns(r.Context(), id, in); err != nil {
		h.writeError(w, err)
		return
	}
	h.respondRecord(w, r, id)
}

func (h *Handler) UpdateMedicalHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var in MedicalHistory
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateMedicalHistory(r.Context(), id, in); err != nil {
		h.writeError(w, err)
		return
	}
	h.respondRecord(w, r, id)
}

func (h *Handler) UpdateSymptoms(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var in Symptoms
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateSymptoms(r.Context(), id, in); err != nil {
		h.writeError(w, err)
		return
	}
	h.respondRecord(w, r, id)
}

func (h *Handler) UpdateLabResults(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var in LabResults
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateLabResults(r.Context(), id, in); err != nil {
		h.writeError(w, err)
		return
	}
	h.respondRecord(w, r, id)
}

// HandleFileUpload accepts either a multipart document upload (handed to the
// upload collaborator) or a JSON body registering a file id for an upload
// that already completed elsewhere.
func (h *Handler) HandleFileUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		// Limit upload size (10MB)
		r.ParseMultipartForm(10 << 20)

		file, header, err := r.FormFile("document")
		if err != nil {
			http.Error(w, "Error retrieving document file", http.StatusBadRequest)
			return
		}
		defer file.Close()

		var buf bytes.Buffer
		if _, err := io.Copy(&buf, file); err != nil {
			http.Error(w, "Failed to read document file", http.StatusInternalServerError)
			return
		}

		fileID, err := h.svc.UploadFile(r.Context(), id, header.Filename, buf.Bytes())
		if err != nil {
			h.writeError(w, err)
			return
		}

		json.NewEncoder(w).Encode(map[string]string{
			"file_id": fileID,
		})
		return
	}

	var req registerFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FileID == "" {
		http.Error(w, "Missing file_id", http.StatusBadRequest)
		return
	}

	if err := h.svc.RegisterUploadedFile(r.Context(), id, req.FileID); err != nil {
		h.writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{
		"file_id": req.FileID,
	})
}

func (h *Handler) ResetAssessment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.svc.ResetAssessment(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	h.respondProgress(w, r, id)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	pdfData, err := h.svc.GenerateReport(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="assessment_%s.pdf"`, id))
	w.Write(pdfData)
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return uuid.UUID{}, false
	}
	return id, true
}

func (h *Handler) respondProgress(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	progress, degraded, err := h.svc.GetProgress(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(progressResponse{
		Progress:            progress,
		PersistenceDegraded: degraded,
	})
}

func (h *Handler) respondRecord(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	s, err := h.svc.GetAssessment(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(s)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, "Assessment not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidStep):
		http.Error(w, "Invalid assessment step", http.StatusBadRequest)
	default:
		http.Error(w, "Operation failed: "+err.Error(), http.StatusInternalServerError)
	}
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/assessments", h.CreateAssessment)
	r.Get("/assessments/{id}", h.GetAssessment)
	r.Get("/assessments/{id}/progress", h.GetProgress)
	r.Put("/assessments/{id}/step", h.SetCurrentStep)
	r.Post("/assessments/{id}/steps/{step}/complete", h.MarkStepCompleted)
	r.Patch("/assessments/{id}/demographics", h.UpdateDemographics)
	r.Patch("/assessments/{id}/vitals", h.UpdateVitalSigns)
	r.Patch("/assessments/{id}/history", h.UpdateMedicalHistory)
	r.Patch("/assessments/{id}/symptoms", h.UpdateSymptoms)
	r.Patch("/assessments/{id}/labs", h.UpdateLabResults)
	r.Post("/assessments/{id}/files", h.HandleFileUpload)
	r.Post("/assessments/{id}/reset", h.ResetAssessment)
	r.Get("/assessments/{id}/report", h.GetReport)
}
