package availability

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
	router.GET("/api/v1/properties/:property/availability", h.GetAvailability)
}

func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	q := r.URL.Query()

	checkin, err := time.Parse("2006-01-02", q.Get("checkin"))
	if err != nil {
		h.writeErr(w, r, apperrors.InvalidInput("checkin must be a date formatted YYYY-MM-DD").
			WithReason(berrors.ReasonInvalidParameters))
		return
	}
	checkout, err := time.Parse("2006-01-02", q.Get("checkout"))
	if err != nil {
		h.writeErr(w, r, apperrors.InvalidInput("checkout must be a date formatted YYYY-MM-DD").
			WithReason(berrors.ReasonInvalidParameters))
		return
	}

	snapshot, err := h.service.ForRange(r.Context(), model.PropertyID(ps.ByName("property")), checkin, checkout)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	if err := httpx.WriteSuccess(w, snapshot); err != nil {
		h.cfg.Log.Error("Failed to write availability response", "error", err)
	}
}

func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.AsAppError(err)

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.cfg.Log.Error("Availability request failed", "error", err, "path", r.URL.Path)
	} else {
		h.cfg.Log.Info("Availability request rejected", "reason", appErr.Reason(), "path", r.URL.Path)
	}

	if werr := httpx.WriteError(w, appErr); werr != nil {
		h.cfg.Log.Error("Failed to write error response", "error", werr)
	}
}
