package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aramkh/academy-ticketing/internal/model"
	"github.com/aramkh/academy-ticketing/internal/repository"
	"github.com/aramkh/academy-ticketing/internal/service"
)

// GateHandler serves the door scanners. Both endpoints accept either a
// raw confirmation code or a full scanned QR payload; resolution is
// handled by the verification service. StaffAuth and RequireRole run
// before these handlers.
type GateHandler struct {
	Service *service.VerificationService
}

// NewGateHandler constructs a GateHandler. The service must be non-nil.
func NewGateHandler(svc *service.VerificationService) *GateHandler {
	if svc == nil {
		panic("nil service passed to NewGateHandler")
	}
	return &GateHandler{Service: svc}
}

// gateRequest is the JSON body of the gate endpoints. Ref carries
// whatever the scanner read: "TKT-..." or "TICKET-...".
type gateRequest struct {
	Ref string `json:"ref"`
}

// Verify handles POST /v1/gate/verify. It resolves the scanned
// reference and reports the ticket's current state without changing it,
// so staff can inspect a ticket before committing the entry.
func (h *GateHandler) Verify(c echo.Context) error {
	var body gateRequest
	if err := c.Bind(&body); err != nil || body.Ref == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ref is required"})
	}
	t, err := h.Service.Resolve(c.Request().Context(), body.Ref)
	switch {
	case errors.Is(err, repository.ErrTicketNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"ticket":     t,
		"admissible": t.Status == model.TicketApproved && !t.Used,
	})
}

// Redeem handles POST /v1/gate/redeem. First scan of an approved ticket
// admits the holder and stamps used_at; a repeated scan reports the
// earlier entry with 409, and a ticket still pending approval is
// rejected with 422.
func (h *GateHandler) Redeem(c echo.Context) error {
	var body gateRequest
	if err := c.Bind(&body); err != nil || body.Ref == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ref is required"})
	}
	t, err := h.Service.Redeem(c.Request().Context(), body.Ref)
	switch {
	case errors.Is(err, repository.ErrTicketNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	case errors.Is(err, repository.ErrAlreadyRedeemed):
		return c.JSON(http.StatusConflict, echo.Map{"error": "ticket already redeemed"})
	case errors.Is(err, repository.ErrNotEligible):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "ticket not approved for entry"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ticket": t, "admitted": true})
}
