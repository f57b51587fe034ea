package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/ai"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/model"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/queue"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/store"
)

// InteractionHandler serves the drug-interaction and recommendation
// endpoints. Events may be nil.
type InteractionHandler struct {
	Store    store.Store
	Analyzer ai.ClinicalTextAnalyzer
	Events   AuditPublisher
	Log      zerolog.Logger
}

func NewInteractionHandler(st store.Store, an ai.ClinicalTextAnalyzer, ev AuditPublisher, log zerolog.Logger) *InteractionHandler {
	return &InteractionHandler{Store: st, Analyzer: an, Events: ev, Log: log}
}

type checkReq struct {
	Medications []string `json:"medications"`
	PatientID   uint64   `json:"patientId"`
}

type recommendReq struct {
	Condition   string   `json:"condition"`
	Medications []string `json:"medications"`
}

// Check handles POST /v1/interaction-checks. With fewer than two
// medications there is nothing to pair, so the analyzer is not invoked
// and the check is stored with an empty findings list. PatientID zero
// marks an exploratory check not tied to a stored patient.
func (h *InteractionHandler) Check(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req checkReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	meds := normalizeMedications(req.Medications)
	if len(meds) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "medications are required"})
	}

	if req.PatientID != 0 {
		ctx, cancel := withDBTimeout(c)
		_, err := h.Store.GetPatientByID(ctx, req.PatientID)
		cancel()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "patient not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load patient"})
		}
	}

	var findings []model.InteractionFinding
	if len(meds) >= 2 {
		findings, err = h.Analyzer.DetectInteractions(c.Request().Context(), meds)
		if err != nil {
			h.Log.Error().Err(err).Msg("interaction detection failed")
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "interaction analysis failed"})
		}
	}
	if findings == nil {
		findings = []model.InteractionFinding{}
	}

	// The analyzer may have run for most of the request; the save gets
	// its own store budget.
	ctx, cancel := withDBTimeout(c)
	defer cancel()
	check, err := h.Store.CreateInteractionCheck(ctx, model.NewInteractionCheck{
		PatientID:   req.PatientID,
		Medications: meds,
		Findings:    findings,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save check"})
	}

	if h.Events != nil {
		_ = h.Events.InteractionChecked(c.Request().Context(), queue.InteractionCheckedEvent{
			CheckID:      check.ID,
			PatientID:    check.PatientID,
			AccountID:    accountID,
			Medications:  check.Medications,
			FindingCount: len(check.Findings),
			CheckedAt:    check.CheckedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, check)
}

// Recommend handles POST /v1/recommendations. The result is returned to
// the caller and intentionally not persisted.
func (h *InteractionHandler) Recommend(c echo.Context) error {
	var req recommendReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	condition := strings.TrimSpace(req.Condition)
	if condition == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "condition is required"})
	}

	rec, err := h.Analyzer.RecommendTreatment(c.Request().Context(), condition, normalizeMedications(req.Medications))
	if err != nil {
		h.Log.Error().Err(err).Msg("treatment recommendation failed")
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "recommendation failed"})
	}
	return c.JSON(http.StatusOK, rec)
}

// normalizeMedications trims entries and drops empties while preserving
// the submitted order.
func normalizeMedications(in []string) []string {
	var out []string
	for _, m := range in {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}
