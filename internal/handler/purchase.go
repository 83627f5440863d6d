package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aramkh/academy-ticketing/internal/model"
	"github.com/aramkh/academy-ticketing/internal/payment"
	"github.com/aramkh/academy-ticketing/internal/repository"
	"github.com/aramkh/academy-ticketing/internal/seatmap"
	"github.com/aramkh/academy-ticketing/internal/service"
	"github.com/aramkh/academy-ticketing/internal/utils"
)

// PurchaseHandler runs the purchase endpoint. It resolves the caller's
// seat picks against the live seat map, then hands the priced selection
// to the issuance workflow.
type PurchaseHandler struct {
	Repo    *repository.TicketRepo   // occupancy for pre-flight reconciliation
	Service *service.IssuanceService // the actual issuance workflow
}

// NewPurchaseHandler constructs a PurchaseHandler. Both dependencies
// must be non-nil.
func NewPurchaseHandler(repo *repository.TicketRepo, svc *service.IssuanceService) *PurchaseHandler {
	if repo == nil || svc == nil {
		panic("nil dependency passed to NewPurchaseHandler")
	}
	return &PurchaseHandler{Repo: repo, Service: svc}
}

// purchaseRequest is the JSON body of POST /v1/events/:id/purchase.
// Event metadata travels with the request because the catalog lives in
// the front-of-house application; this service only validates the id.
type purchaseRequest struct {
	Event struct {
		Title    string    `json:"title"`
		StartsAt time.Time `json:"starts_at"`
		Venue    string    `json:"venue"`
	} `json:"event"`
	Customer model.Customer `json:"customer"`
	Seats    []string       `json:"seats"`
	Payment  struct {
		Method            model.PaymentMethod `json:"method"`
		TransferConfirmed bool                `json:"transfer_confirmed"`
		MobileReference   string              `json:"mobile_reference"`
		ReceiptImage      []byte              `json:"receipt_image"` // base64 in JSON
		ReceiptName       string              `json:"receipt_name"`
	} `json:"payment"`
}

// purchaseResponse wraps the issued ticket. QRDataURI lets the client
// show the scannable symbol immediately without a second request;
// NotifyWarning is set when the confirmation email could not be queued,
// the ticket itself is still valid.
type purchaseResponse struct {
	Ticket        *model.Ticket `json:"ticket"`
	QRDataURI     string        `json:"qr_data_uri,omitempty"`
	NotifyWarning string        `json:"notify_warning,omitempty"`
}

// Purchase handles POST /v1/events/:id/purchase. Seat picks are checked
// against current occupancy before the workflow starts so most
// conflicts surface immediately; the persistence layer still guards
// against the race where two buyers submit the same seat concurrently.
func (h *PurchaseHandler) Purchase(c echo.Context) error {
	eventID := c.Param("id")

	var body purchaseRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ev, err := model.NewEvent(eventID, body.Event.Title, body.Event.StartsAt, body.Event.Venue)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	if len(body.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats is required"})
	}

	// Resolve seat ids against the layout reconciled with persisted
	// occupancy. Unknown ids and oversized selections are client
	// errors; a pick that is already occupied is a conflict.
	occupied, err := h.Repo.OccupiedSeatIDs(c.Request().Context(), eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	m := seatmap.New(eventID)
	m.Reconcile(occupied)
	for _, id := range body.Seats {
		switch err := m.Toggle(id); {
		case errors.Is(err, seatmap.ErrSeatUnknown):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat", "seat": id})
		case errors.Is(err, seatmap.ErrSelectionLimit):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "too many seats"})
		case errors.Is(err, seatmap.ErrSeatOccupied):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat no longer available", "seat": id})
		}
	}

	res, err := h.Service.Issue(c.Request().Context(), service.IssueRequest{
		Event:    ev,
		Customer: body.Customer,
		Seats:    m.Selection(),
		Payment: payment.Request{
			Method:            body.Payment.Method,
			TransferConfirmed: body.Payment.TransferConfirmed,
			MobileReference:   body.Payment.MobileReference,
			ReceiptImage:      body.Payment.ReceiptImage,
			ReceiptName:       body.Payment.ReceiptName,
		},
	})
	if err != nil {
		var verr *service.ValidationError
		var perr *service.PaymentEvidenceError
		var serr *service.PersistenceError
		switch {
		case errors.As(err, &verr):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer data", "fields": verr.Fields})
		case errors.As(err, &perr):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": perr.Error()})
		case errors.Is(err, repository.ErrSeatConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat no longer available"})
		case errors.As(err, &serr):
			// Funds may already have moved; the client must not
			// silently retry a fresh charge.
			return c.JSON(http.StatusBadGateway, echo.Map{
				"error":   "ticket could not be saved; payment may have been processed",
				"details": serr.Error(),
			})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}

	resp := purchaseResponse{Ticket: res.Ticket}
	if uri, qerr := utils.QRDataURI(res.Ticket.QRPayload, 256); qerr == nil {
		resp.QRDataURI = uri
	}
	if res.NotifyErr != nil {
		resp.NotifyWarning = "confirmation email could not be queued"
	}
	return c.JSON(http.StatusCreated, resp)
}
