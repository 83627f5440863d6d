package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aramkh/academy-ticketing/internal/cache"
	"github.com/aramkh/academy-ticketing/internal/model"
	"github.com/aramkh/academy-ticketing/internal/repository"
	"github.com/aramkh/academy-ticketing/internal/utils"
)

// TicketHandler serves ticket retrieval for customers: the ticket
// record itself, the scannable QR symbol and the printable PDF. Record
// lookups go through the read-through cache so a previously fetched
// ticket stays retrievable while the backend is unreachable.
type TicketHandler struct {
	Repo   *repository.TicketRepo // direct lookups for QR and PDF rendering
	Mirror *cache.ReadThrough     // cache-first lookup for ticket records
}

// NewTicketHandler constructs a TicketHandler. Both dependencies must
// be non-nil.
func NewTicketHandler(repo *repository.TicketRepo, mirror *cache.ReadThrough) *TicketHandler {
	if repo == nil || mirror == nil {
		panic("nil dependency passed to NewTicketHandler")
	}
	return &TicketHandler{Repo: repo, Mirror: mirror}
}

// GetTicket handles GET /v1/tickets/:code. A cached snapshot is served
// even when the backend is down; a code never seen before while offline
// returns 503 with a distinct error so the client can tell "no such
// ticket" from "cannot check right now".
func (h *TicketHandler) GetTicket(c echo.Context) error {
	code := c.Param("code")
	if !utils.IsConfirmationCode(code) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid confirmation code"})
	}

	snap, err := h.Mirror.Lookup(c.Request().Context(), code)
	switch {
	case errors.Is(err, repository.ErrTicketNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	case errors.Is(err, cache.ErrOfflineAndUncached):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "ticket_unavailable_offline"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, snap)
}

// GetTicketQR handles GET /v1/tickets/:code/qr. It renders the ticket's
// QR payload as a PNG sized for on-screen scanning.
func (h *TicketHandler) GetTicketQR(c echo.Context) error {
	t, err := h.findTicket(c)
	if t == nil {
		return err
	}
	png, err := utils.QRPNG(t.QRPayload, 256)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "qr rendering failed"})
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// GetTicketPDF handles GET /v1/tickets/:code/pdf. It renders the
// printable ticket with the embedded QR symbol.
func (h *TicketHandler) GetTicketPDF(c echo.Context) error {
	t, err := h.findTicket(c)
	if t == nil {
		return err
	}
	pdf, err := utils.TicketPDF(t)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "pdf rendering failed"})
	}
	c.Response().Header().Set("Content-Disposition", `attachment; filename="ticket-`+t.ConfirmationCode+`.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// findTicket loads the full ticket for rendering endpoints. On failure
// it writes the error response itself and returns a nil ticket; callers
// return the accompanying error as-is.
func (h *TicketHandler) findTicket(c echo.Context) (*model.Ticket, error) {
	code := c.Param("code")
	if !utils.IsConfirmationCode(code) {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid confirmation code"})
	}
	t, err := h.Repo.FindByCode(c.Request().Context(), code)
	switch {
	case errors.Is(err, repository.ErrTicketNotFound):
		return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	case err != nil:
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return t, nil
}
