package pricing

import (
	"net/http"
	"time"

	berrors "github.com/barreyo/ysc-redesign-ex-sub001/internal/bookings/errors"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/config"
	apperrors "github.com/barreyo/ysc-redesign-ex-sub001/pkg/errors"
	httpx "github.com/barreyo/ysc-redesign-ex-sub001/pkg/http"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	cfg     *config.Config
	service *Service
}

func NewHandler(cfg *config.Config, service *Service) *Handler {
	return &Handler{cfg: cfg, service: service}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/properties/:property/quote", h.Quote)
	router.GET("/api/v1/properties/:property/pricing-rules", h.ListRules)
}

func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rules, err := h.service.ListRules(r.Context(), model.PropertyID(ps.ByName("property")))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	if err := httpx.WriteSuccess(w, rules); err != nil {
		h.cfg.Log.Error("Failed to write pricing rules response", "error", err)
	}
}

// Quote prices a prospective stay from query parameters. It is read-only and
// safe to call repeatedly while the member adjusts dates and rooms.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	req, appErr := parseQuoteRequest(r, ps)
	if appErr != nil {
		h.writeErr(w, r, appErr)
		return
	}

	quote, err := h.service.QuoteStay(r.Context(), *req)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	if err := httpx.WriteSuccess(w, quote); err != nil {
		h.cfg.Log.Error("Failed to write quote response", "error", err)
	}
}

func parseQuoteRequest(r *http.Request, ps httprouter.Params) (*model.StayRequest, *apperrors.AppError) {
	q := r.URL.Query()

	checkin, err := time.Parse("2006-01-02", q.Get("checkin"))
	if err != nil {
		return nil, invalidParam("checkin must be a date formatted YYYY-MM-DD")
	}
	checkout, err := time.Parse("2006-01-02", q.Get("checkout"))
	if err != nil {
		return nil, invalidParam("checkout must be a date formatted YYYY-MM-DD")
	}

	mode := model.BookingMode(q.Get("mode"))
	if mode == "" {
		mode = model.ModeRoom
	}
	if mode != model.ModeRoom && mode != model.ModeBuyout {
		return nil, invalidParam("mode must be room or buyout")
	}

	guests, err := httpx.QueryInt(q, "guests", 1)
	if err != nil || guests < 1 {
		return nil, invalidParam("guests must be a positive integer")
	}
	children, err := httpx.QueryInt(q, "children", 0)
	if err != nil || children < 0 {
		return nil, invalidParam("children must be a non-negative integer")
	}

	req := &model.StayRequest{
		PropertyID:    model.PropertyID(ps.ByName("property")),
		CheckinDate:   model.DateOnly(checkin),
		CheckoutDate:  model.DateOnly(checkout),
		Mode:          mode,
		RoomIDs:       httpx.QueryCSV(q, "rooms"),
		GuestsCount:   guests,
		ChildrenCount: children,
	}

	if mode == model.ModeRoom && len(req.RoomIDs) == 0 {
		return nil, invalidParam("rooms is required for room mode")
	}

	return req, nil
}

func invalidParam(message string) *apperrors.AppError {
	return apperrors.InvalidInput(message).WithReason(berrors.ReasonInvalidParameters)
}

func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.AsAppError(err)

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.cfg.Log.Error("Quote request failed", "error", err, "path", r.URL.Path)
	} else {
		h.cfg.Log.Info("Quote request rejected", "reason", appErr.Reason(), "path", r.URL.Path)
	}

	if werr := httpx.WriteError(w, appErr); werr != nil {
		h.cfg.Log.Error("Failed to write error response", "error", werr)
	}
}
