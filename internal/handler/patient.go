package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/ai"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/model"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/queue"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/store"
)

// maxEHRBytes is the largest uploaded document the service accepts.
// Anything a clinic realistically exports fits well below this; bigger
// uploads are rejected rather than analyzed in part.
const maxEHRBytes = 2 << 20

// PatientHandler serves the patient record endpoints. Events may be nil.
type PatientHandler struct {
	Store    store.Store
	Analyzer ai.ClinicalTextAnalyzer
	Events   AuditPublisher
	Log      zerolog.Logger
}

func NewPatientHandler(st store.Store, an ai.ClinicalTextAnalyzer, ev AuditPublisher, log zerolog.Logger) *PatientHandler {
	return &PatientHandler{Store: st, Analyzer: an, Events: ev, Log: log}
}

// List handles GET /v1/patients.
func (h *PatientHandler) List(c echo.Context) error {
	ctx, cancel := withDBTimeout(c)
	defer cancel()
	patients, err := h.Store.ListPatients(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list patients"})
	}
	if patients == nil {
		patients = []model.PatientRecord{}
	}
	return c.JSON(http.StatusOK, patients)
}

// Create handles POST /v1/patients. The request is multipart: an EHR
// document file plus name and dob fields. The document text is run
// through the analyzer and the extracted history, medications and
// structured payload are persisted with the record.
func (h *PatientHandler) Create(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	dob := strings.TrimSpace(c.FormValue("dob"))

	f, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not read file"})
	}
	defer f.Close()
	document, err := io.ReadAll(io.LimitReader(f, maxEHRBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not read file"})
	}
	if len(document) > maxEHRBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "document too large"})
	}

	// The analyzer call is the slow part; it runs on the request context
	// and the live client enforces its own timeout.
	extraction, err := h.Analyzer.ExtractStructuredData(c.Request().Context(), string(document))
	if err != nil {
		h.Log.Error().Err(err).Msg("ehr extraction failed")
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "document analysis failed"})
	}

	ctx, cancel := withDBTimeout(c)
	defer cancel()
	p, err := h.Store.CreatePatient(ctx, model.NewPatient{
		Name:           name,
		DateOfBirth:    dob,
		MedicalHistory: extraction.MedicalHistory,
		Medications:    extraction.Medications,
		EHRData:        extraction.Data,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create patient"})
	}

	if h.Events != nil {
		_ = h.Events.PatientCreated(c.Request().Context(), queue.PatientCreatedEvent{
			PatientID:       p.ID,
			AccountID:       accountID,
			Name:            p.Name,
			MedicationCount: len(p.Medications),
			CreatedAt:       p.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusCreated, p)
}

// Get handles GET /v1/patients/:id.
func (h *PatientHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := withDBTimeout(c)
	defer cancel()
	p, err := h.Store.GetPatientByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "patient not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load patient"})
	}
	return c.JSON(http.StatusOK, p)
}

// History handles GET /v1/patients/:id/history: the recorded medical
// history plus every interaction check tied to the patient.
func (h *PatientHandler) History(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := withDBTimeout(c)
	defer cancel()
	p, err := h.Store.GetPatientByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "patient not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load patient"})
	}
	checks, err := h.Store.ListInteractionChecksForPatient(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load history"})
	}
	if checks == nil {
		checks = []model.InteractionCheck{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"patientId":         p.ID,
		"medicalHistory":    p.MedicalHistory,
		"interactionChecks": checks,
	})
}
