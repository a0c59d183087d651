package encounter

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/telecare/telecare/internal/domain/consent"
	"github.com/telecare/telecare/internal/domain/inference"
	"github.com/telecare/telecare/internal/platform/auth"
	"github.com/telecare/telecare/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Read endpoints – admin, physician, nurse
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	readGroup.GET("/encounters", h.ListEncounters)
	readGroup.GET("/encounters/:id", h.GetEncounter)
	readGroup.GET("/encounters/:id/note", h.GetNote)
	readGroup.GET("/encounters/:id/record", h.GetRecord)
	readGroup.GET("/encounters/:id/status-history", h.GetStatusHistory)
	readGroup.GET("/consent/jurisdictions", h.ListJurisdictions)
	readGroup.GET("/consent/requirements/:jurisdiction", h.GetConsentRequirements)
	readGroup.GET("/consent/language/:jurisdiction", h.GetConsentLanguage)

	// Scheduling endpoints – schedulers triage chief complaints here
	schedGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse", "scheduler"))
	schedGroup.GET("/appropriateness", h.CheckAppropriateness)

	// Write endpoints – admin, physician
	writeGroup := api.Group("", auth.RequireRole("admin", "physician"))
	writeGroup.POST("/encounters", h.StartEncounter)
	writeGroup.POST("/encounters/:id/consent", h.DocumentConsent)
	writeGroup.POST("/encounters/:id/begin", h.BeginVisit)
	writeGroup.POST("/encounters/:id/transcript", h.ProcessTranscript)
	writeGroup.POST("/encounters/:id/cancel", h.CancelEncounter)
	writeGroup.POST("/encounters/:id/failure", h.ReportTechnicalFailure)
}

func (h *Handler) StartEncounter(c echo.Context) error {
	var req StartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	enc, err := h.svc.StartEncounter(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, enc)
}

func (h *Handler) GetEncounter(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	enc, err := h.svc.GetEncounter(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "encounter not found")
	}
	return c.JSON(http.StatusOK, enc)
}

func (h *Handler) ListEncounters(c echo.Context) error {
	pg := pagination.FromContext(c)

	if patientRef := c.QueryParam("patient_ref"); patientRef != "" {
		encs, total, err := h.svc.ListEncountersByPatient(c.Request().Context(), patientRef, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(encs, total, pg.Limit, pg.Offset))
	}
	if state := c.QueryParam("state"); state != "" {
		encs, total, err := h.svc.ListEncountersByState(c.Request().Context(), VisitState(state), pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(encs, total, pg.Limit, pg.Offset))
	}

	encs, total, err := h.svc.ListEncounters(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(encs, total, pg.Limit, pg.Offset))
}

func (h *Handler) DocumentConsent(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Modality   string `json:"modality"`
		VerbalText string `json:"verbal_text,omitempty"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.DocumentConsent(c.Request().Context(), id, consent.ConsentModality(body.Modality), body.VerbalText)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) BeginVisit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	enc, err := h.svc.BeginVisit(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, enc)
}

func (h *Handler) ProcessTranscript(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Transcript        string              `json:"transcript"`
		Segments          []inference.Segment `json:"segments,omitempty"`
		ConnectionQuality string              `json:"connection_quality,omitempty"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	enc, err := h.svc.ProcessTranscript(c.Request().Context(), id, body.Transcript, body.Segments, body.ConnectionQuality)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, enc)
}

func (h *Handler) CancelEncounter(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Reason string `json:"reason,omitempty"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	enc, err := h.svc.CancelEncounter(c.Request().Context(), id, body.Reason)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, enc)
}

func (h *Handler) ReportTechnicalFailure(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Details string `json:"details,omitempty"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	enc, err := h.svc.ReportTechnicalFailure(c.Request().Context(), id, body.Details)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, enc)
}

func (h *Handler) GetNote(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	enc, err := h.svc.GetEncounter(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "encounter not found")
	}
	if enc.Note == nil {
		return echo.NewHTTPError(http.StatusNotFound, "note not generated")
	}
	return c.JSON(http.StatusOK, enc.Note)
}

func (h *Handler) GetRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	enc, err := h.svc.GetEncounter(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "encounter not found")
	}
	return c.JSON(http.StatusOK, enc.ToRecord())
}

func (h *Handler) GetStatusHistory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	history, err := h.svc.GetStatusHistory(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, history)
}

func (h *Handler) ListJurisdictions(c echo.Context) error {
	return c.JSON(http.StatusOK, consent.Jurisdictions())
}

func (h *Handler) GetConsentRequirements(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.ConsentRequirements(c.Param("jurisdiction")))
}

func (h *Handler) CheckAppropriateness(c echo.Context) error {
	complaint := c.QueryParam("complaint")
	if complaint == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "complaint query parameter is required")
	}
	return c.JSON(http.StatusOK, h.svc.CheckAppropriateness(complaint))
}

func (h *Handler) GetConsentLanguage(c echo.Context) error {
	jurisdiction := c.Param("jurisdiction")
	return c.JSON(http.StatusOK, map[string]string{
		"jurisdiction": jurisdiction,
		"language":     h.svc.ConsentLanguage(jurisdiction),
	})
}

// httpError maps domain sentinels to transport status codes.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConsentNotDocumented), errors.Is(err, ErrInvalidStateTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
