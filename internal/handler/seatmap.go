package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aramkh/academy-ticketing/internal/model"
	"github.com/aramkh/academy-ticketing/internal/repository"
	"github.com/aramkh/academy-ticketing/internal/seatmap"
)

// SeatMapHandler serves the per-event seat grid. The layout itself is
// deterministic; only the occupied flags come from persisted tickets,
// so the response is generated fresh and reconciled on every request.
type SeatMapHandler struct {
	Repo *repository.TicketRepo // source of persisted seat occupancy
}

// NewSeatMapHandler constructs a SeatMapHandler. The repository must be
// non-nil.
func NewSeatMapHandler(repo *repository.TicketRepo) *SeatMapHandler {
	if repo == nil {
		panic("nil repository passed to NewSeatMapHandler")
	}
	return &SeatMapHandler{Repo: repo}
}

// seatMapResponse is the JSON shape returned to browsing clients.
type seatMapResponse struct {
	EventID string       `json:"event_id"`
	Seats   []model.Seat `json:"seats"`
}

// GetSeatMap handles GET /v1/events/:id/seatmap. It generates the hall
// layout for the event and marks every seat referenced by a persisted
// ticket as occupied. Selection state is client-local and never appears
// here; all non-occupied seats report AVAILABLE.
func (h *SeatMapHandler) GetSeatMap(c echo.Context) error {
	eventID := c.Param("id")
	if err := model.ValidateEventID(eventID); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	occupied, err := h.Repo.OccupiedSeatIDs(c.Request().Context(), eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	m := seatmap.New(eventID)
	m.Reconcile(occupied)
	return c.JSON(http.StatusOK, seatMapResponse{EventID: eventID, Seats: m.Seats()})
}
