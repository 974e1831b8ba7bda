package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/healthlog/internal/logging"
	"github.com/dmitrijs2005/healthlog/internal/server/services"
)

// RecordsHandler handles the profile and record endpoints behind the
// authorization gate.
type RecordsHandler struct {
	service *services.RecordsService
	logger  logging.Logger
}

func NewRecordsHandler(svc *services.RecordsService, logger logging.Logger) *RecordsHandler {
	return &RecordsHandler{service: svc, logger: logger}
}

// --- profiles ---

func (h *RecordsHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	accountID := AccountIDFromContext(r.Context())
	writeJSON(w, http.StatusOK, h.service.ListProfiles(r.Context(), accountID))
}

func (h *RecordsHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req services.CreateProfileInput
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.FullName == "" {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "fullName is required")
		return
	}

	accountID := AccountIDFromContext(r.Context())
	writeJSON(w, http.StatusCreated, h.service.CreateProfile(r.Context(), accountID, &req))
}

func (h *RecordsHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	accountID := AccountIDFromContext(r.Context())

	profile, err := h.service.GetProfile(r.Context(), accountID, chi.URLParam(r, "profileId"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *RecordsHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateProfileInput
	if !decodeJSON(w, r, &req) {
		return
	}

	accountID := AccountIDFromContext(r.Context())
	profile, err := h.service.UpdateProfile(r.Context(), accountID, chi.URLParam(r, "profileId"), &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *RecordsHandler) UpdateProfileSettings(w http.ResponseWriter, r *http.Request) {
	var req services.ProfileSettingsInput
	if !decodeJSON(w, r, &req) {
		return
	}

	accountID := AccountIDFromContext(r.Context())
	profile, err := h.service.UpdateProfileSettings(r.Context(), accountID, chi.URLParam(r, "profileId"), &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *RecordsHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	accountID := AccountIDFromContext(r.Context())

	profileID := chi.URLParam(r, "profileId")
	if err := h.service.DeleteProfile(r.Context(), accountID, profileID); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": profileID, "status": "deleted"})
}

// --- vitals ---

func (h *RecordsHandler) CreateVital(w http.ResponseWriter, r *http.Request) {
	var req services.CreateVitalInput
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Type == "" {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "type is required")
		return
	}
	if req.RecordedAt.IsZero() {
		req.RecordedAt = time.Now().UTC()
	}

	accountID := AccountIDFromContext(r.Context())
	vital, err := h.service.CreateVital(r.Context(), accountID, chi.URLParam(r, "profileId"), &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, vital)
}

func (h *RecordsHandler) ListVitals(w http.ResponseWriter, r *http.Request) {
	params := services.VitalsListParams{
		Type:  r.URL.Query().Get("type"),
		Page:  intQuery(r, "page"),
		Limit: intQuery(r, "limit"),
	}
	if from, ok := timeQuery(r, "from"); ok {
		params.From = from
	}
	if to, ok := timeQuery(r, "to"); ok {
		params.To = to
	}

	accountID := AccountIDFromContext(r.Context())
	page, err := h.service.ListVitals(r.Context(), accountID, chi.URLParam(r, "profileId"), &params)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *RecordsHandler) GetVital(w http.ResponseWriter, r *http.Request) {
	accountID := AccountIDFromContext(r.Context())

	vital, err := h.service.GetVital(r.Context(), accountID, chi.URLParam(r, "profileId"), chi.URLParam(r, "vitalId"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vital)
}

func (h *RecordsHandler) DeleteVital(w http.ResponseWriter, r *http.Request) {
	accountID := AccountIDFromContext(r.Context())

	vitalID := chi.URLParam(r, "vitalId")
	if err := h.service.DeleteVital(r.Context(), accountID, chi.URLParam(r, "profileId"), vitalID); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": vitalID, "status": "deleted"})
}

// --- medications ---

func (h *RecordsHandler) CreateMedication(w http.ResponseWriter, r *http.Request) {
	var req services.MedicationInput
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "name is required")
		return
	}

	accountID := AccountIDFromContext(r.Context())
	med, err := h.service.CreateMedication(r.Context(), accountID, chi.URLParam(r, "profileId"), &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, med)
}

func (h *RecordsHandler) ListMedications(w http.ResponseWriter, r *http.Request) {
	accountID := AccountIDFromContext(r.Context())

	meds, err := h.service.ListMedications(r.Context(), accountID, chi.URLParam(r, "profileId"), r.URL.Query().Get("status"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meds)
}

func (h *RecordsHandler) GetMedication(w http.ResponseWriter, r *http.Request) {
	accountID := AccountIDFromContext(r.Context())

	med, err := h.service.GetMedication(r.Context(), accountID, chi.URLParam(r, "profileId"), chi.URLParam(r, "medicationId"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, med)
}

func (h *RecordsHandler) UpdateMedication(w http.ResponseWriter, r *http.Request) {
	var req services.MedicationInput
	if !decodeJSON(w, r, &req) {
		return
	}

	accountID := AccountIDFromContext(r.Context())
	med, err := h.service.UpdateMedication(r.Context(), accountID, chi.URLParam(r, "profileId"), chi.URLParam(r, "medicationId"), &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, med)
}

func (h *RecordsHandler) DeleteMedication(w http.ResponseWriter, r *http.Request) {
	accountID := AccountIDFromContext(r.Context())

	medicationID := chi.URLParam(r, "medicationId")
	if err := h.service.DeleteMedication(r.Context(), accountID, chi.URLParam(r, "profileId"), medicationID); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": medicationID, "status": "deleted"})
}

// --- appointments ---

func (h *RecordsHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req services.AppointmentInput
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "title is required")
		return
	}

	accountID := AccountIDFromContext(r.Context())
	apt, err := h.service.CreateAppointment(r.Context(), accountID, chi.URLParam(r, "profileId"), &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, apt)
}

func (h *RecordsHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	accountID := AccountIDFromContext(r.Context())

	apts, err := h.service.ListAppointments(r.Context(), accountID, chi.URLParam(r, "profileId"), r.URL.Query().Get("status"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apts)
}

func (h *RecordsHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	accountID := AccountIDFromContext(r.Context())

	apt, err := h.service.GetAppointment(r.Context(), accountID, chi.URLParam(r, "profileId"), chi.URLParam(r, "appointmentId"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apt)
}

func (h *RecordsHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	var req services.AppointmentInput
	if !decodeJSON(w, r, &req) {
		return
	}

	accountID := AccountIDFromContext(r.Context())
	apt, err := h.service.UpdateAppointment(r.Context(), accountID, chi.URLParam(r, "profileId"), chi.URLParam(r, "appointmentId"), &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apt)
}

func (h *RecordsHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	accountID := AccountIDFromContext(r.Context())

	appointmentID := chi.URLParam(r, "appointmentId")
	if err := h.service.DeleteAppointment(r.Context(), accountID, chi.URLParam(r, "profileId"), appointmentID); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": appointmentID, "status": "deleted"})
}

// --- reports ---

func (h *RecordsHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req services.ReportInput
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "title is required")
		return
	}

	accountID := AccountIDFromContext(r.Context())
	report, err := h.service.CreateReport(r.Context(), accountID, chi.URLParam(r, "profileId"), &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

func (h *RecordsHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	accountID := AccountIDFromContext(r.Context())

	reports, err := h.service.ListReports(r.Context(), accountID, chi.URLParam(r, "profileId"), r.URL.Query().Get("type"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (h *RecordsHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	accountID := AccountIDFromContext(r.Context())

	report, err := h.service.GetReport(r.Context(), accountID, chi.URLParam(r, "profileId"), chi.URLParam(r, "reportId"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *RecordsHandler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	accountID := AccountIDFromContext(r.Context())

	reportID := chi.URLParam(r, "reportId")
	if err := h.service.DeleteReport(r.Context(), accountID, chi.URLParam(r, "profileId"), reportID); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": reportID, "status": "deleted"})
}
