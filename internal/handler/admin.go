package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aramkh/academy-ticketing/internal/model"
	"github.com/aramkh/academy-ticketing/internal/repository"
	"github.com/aramkh/academy-ticketing/internal/service"
	"github.com/aramkh/academy-ticketing/internal/utils"
)

// AdminHandler serves the office staff endpoints: payment evidence
// review, per-event ticket listings and the PIN-gated purge. StaffAuth
// with the ADMIN role runs before every method here.
type AdminHandler struct {
	Repo      *repository.TicketRepo
	Service   *service.VerificationService
	AdminHash string // bcrypt hash the X-Admin-Pin header is checked against
}

// NewAdminHandler constructs an AdminHandler. Repo and Service must be
// non-nil; adminHash may be empty only when purge is disabled.
func NewAdminHandler(repo *repository.TicketRepo, svc *service.VerificationService, adminHash string) *AdminHandler {
	if repo == nil || svc == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{Repo: repo, Service: svc, AdminHash: adminHash}
}

// Approve handles POST /v1/admin/tickets/:code/approve. Approval is
// one-shot: a ticket that already left PENDING reports 409.
func (h *AdminHandler) Approve(c echo.Context) error {
	code := c.Param("code")
	if !utils.IsConfirmationCode(code) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid confirmation code"})
	}
	t, err := h.Service.Approve(c.Request().Context(), code)
	switch {
	case errors.Is(err, repository.ErrTicketNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	case errors.Is(err, repository.ErrNotPending):
		return c.JSON(http.StatusConflict, echo.Map{"error": "ticket is not pending"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ticket": t})
}

// Reject handles POST /v1/admin/tickets/:code/reject. Rejection clears
// the submitted payment evidence and leaves the ticket PENDING so the
// buyer can resubmit.
func (h *AdminHandler) Reject(c echo.Context) error {
	code := c.Param("code")
	if !utils.IsConfirmationCode(code) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid confirmation code"})
	}
	t, err := h.Service.RejectEvidence(c.Request().Context(), code)
	switch {
	case errors.Is(err, repository.ErrTicketNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	case errors.Is(err, repository.ErrNotPending):
		return c.JSON(http.StatusConflict, echo.Map{"error": "ticket is not pending"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ticket": t})
}

// ListByEvent handles GET /v1/admin/events/:id/tickets. Tickets are
// returned oldest first.
func (h *AdminHandler) ListByEvent(c echo.Context) error {
	eventID := c.Param("id")
	if err := model.ValidateEventID(eventID); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	tickets, err := h.Repo.ListByEvent(c.Request().Context(), eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"event_id": eventID, "tickets": tickets})
}

// Purge handles DELETE /v1/admin/tickets/:code. The destructive path is
// additionally gated on the X-Admin-Pin header so a leaked staff token
// alone cannot delete tickets.
func (h *AdminHandler) Purge(c echo.Context) error {
	if h.AdminHash == "" || !utils.VerifyPIN(h.AdminHash, c.Request().Header.Get("X-Admin-Pin")) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid admin pin"})
	}
	code := c.Param("code")
	if !utils.IsConfirmationCode(code) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid confirmation code"})
	}
	err := h.Repo.Purge(c.Request().Context(), code)
	switch {
	case errors.Is(err, repository.ErrTicketNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}
