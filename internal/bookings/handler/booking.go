package handler

import (
	"encoding/json"
	"net/http"
	"time"

	berrors "github.com/barreyo/ysc-redesign-ex-sub001/internal/bookings/errors"
	"github.com/barreyo/ysc-redesign-ex-sub001/internal/bookings/service"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/config"
	apperrors "github.com/barreyo/ysc-redesign-ex-sub001/pkg/errors"
	httpx "github.com/barreyo/ysc-redesign-ex-sub001/pkg/http"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	cfg     *config.Config
	service *service.BookingService
}

func NewBookingHandler(cfg *config.Config, svc *service.BookingService) *BookingHandler {
	return &BookingHandler{cfg: cfg, service: svc}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.CreateBooking)
	router.GET("/api/v1/bookings/id/:id", h.GetBooking)
	router.POST("/api/v1/bookings/id/:id/cancel", h.CancelBooking)
	router.GET("/api/v1/bookings", h.ListMemberBookings)
	router.POST("/api/v1/properties/:property/validate-stay", h.ValidateStay)
}

// createBookingRequest is the wire shape; dates arrive as YYYY-MM-DD since
// stays have day granularity. The member is never part of the body, it comes
// from the gateway-injected identity header.
type createBookingRequest struct {
	PropertyID   string   `json:"property_id"`
	CheckinDate  string   `json:"checkin_date"`
	CheckoutDate string   `json:"checkout_date"`
	Mode         string   `json:"mode"`
	RoomIDs      []string `json:"room_ids,omitempty"`
	GuestsCount  int      `json:"guests_count"`
	Children     int      `json:"children_count"`
	GuestNames   []string `json:"guest_names,omitempty"`
	ContactPhone string   `json:"contact_phone,omitempty"`
	Nonce        string   `json:"nonce,omitempty"`
}

func (r createBookingRequest) toStayRequest(member string) (model.StayRequest, error) {
	checkin, err := time.Parse("2006-01-02", r.CheckinDate)
	if err != nil {
		return model.StayRequest{}, apperrors.InvalidInput("checkin_date must be formatted YYYY-MM-DD").
			WithReason(berrors.ReasonInvalidParameters)
	}
	checkout, err := time.Parse("2006-01-02", r.CheckoutDate)
	if err != nil {
		return model.StayRequest{}, apperrors.InvalidInput("checkout_date must be formatted YYYY-MM-DD").
			WithReason(berrors.ReasonInvalidParameters)
	}

	return model.StayRequest{
		MemberID:      member,
		PropertyID:    model.PropertyID(r.PropertyID),
		CheckinDate:   model.DateOnly(checkin),
		CheckoutDate:  model.DateOnly(checkout),
		Mode:          model.BookingMode(r.Mode),
		RoomIDs:       r.RoomIDs,
		GuestsCount:   r.GuestsCount,
		ChildrenCount: r.Children,
		GuestNames:    r.GuestNames,
		ContactPhone:  r.ContactPhone,
		Nonce:         r.Nonce,
	}, nil
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	member, err := memberID(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	var body createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeErr(w, r, apperrors.InvalidInput("invalid JSON body").
			WithReason(berrors.ReasonInvalidParameters))
		return
	}

	req, err := body.toStayRequest(member)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), req)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	if err := httpx.WriteCreated(w, booking); err != nil {
		h.cfg.Log.Error("Failed to write booking response", "error", err)
	}
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	member, err := memberID(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	booking, err := h.service.GetBooking(r.Context(), ps.ByName("id"), member)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	if err := httpx.WriteSuccess(w, booking); err != nil {
		h.cfg.Log.Error("Failed to write booking response", "error", err)
	}
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	member, err := memberID(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	booking, err := h.service.CancelBooking(r.Context(), ps.ByName("id"), member)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	if err := httpx.WriteSuccess(w, booking); err != nil {
		h.cfg.Log.Error("Failed to write booking response", "error", err)
	}
}

func (h *BookingHandler) ListMemberBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	member, err := memberID(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	q := r.URL.Query()

	limit, err := httpx.QueryInt(q, "limit", config.DefaultPaginationLimit)
	if err != nil {
		h.writeErr(w, r, apperrors.InvalidInput("limit must be an integer").
			WithReason(berrors.ReasonInvalidParameters))
		return
	}
	offset, err := httpx.QueryInt(q, "offset", 0)
	if err != nil {
		h.writeErr(w, r, apperrors.InvalidInput("offset must be an integer").
			WithReason(berrors.ReasonInvalidParameters))
		return
	}

	limit = config.NormalizePaginationLimit(limit)
	normalizedOffset := config.NormalizeOffset(int64(offset))

	bookings, total, err := h.service.ListMemberBookings(r.Context(), member, limit, normalizedOffset)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	if err := httpx.WritePaginated(w, bookings, total, limit, normalizedOffset); err != nil {
		h.cfg.Log.Error("Failed to write bookings response", "error", err)
	}
}

// ValidateStay exposes the advisory rule check so the booking form can show
// every violation before the member submits.
func (h *BookingHandler) ValidateStay(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	member, err := memberID(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	var body createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeErr(w, r, apperrors.InvalidInput("invalid JSON body").
			WithReason(berrors.ReasonInvalidParameters))
		return
	}
	body.PropertyID = ps.ByName("property")

	req, err := body.toStayRequest(member)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	violations, err := h.service.ValidateStay(r.Context(), req)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	if err := httpx.WriteSuccess(w, map[string]any{"violations": violations}); err != nil {
		h.cfg.Log.Error("Failed to write validation response", "error", err)
	}
}

// memberID reads the authenticated member from the gateway-injected header.
// It is the only source of member identity; nothing in a body or path can
// name a different member.
func memberID(r *http.Request) (string, error) {
	id := r.Header.Get("X-Member-ID")
	if id == "" {
		return "", apperrors.InvalidInput("member identity is missing").
			WithReason(berrors.ReasonInvalidParameters)
	}
	return id, nil
}

func (h *BookingHandler) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.AsAppError(err)

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.cfg.Log.Error("Booking request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
	} else {
		h.cfg.Log.Info("Booking request rejected",
			"reason", appErr.Reason(),
			"method", r.Method,
			"path", r.URL.Path,
		)
	}

	if werr := httpx.WriteError(w, appErr); werr != nil {
		h.cfg.Log.Error("Failed to write error response", "error", werr)
	}
}
