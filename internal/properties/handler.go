package properties

import (
	"net/http"
	"time"

	berrors "github.com/barreyo/ysc-redesign-ex-sub001/internal/bookings/errors"
	"github.com/barreyo/ysc-redesign-ex-sub001/internal/seasons"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/config"
	apperrors "github.com/barreyo/ysc-redesign-ex-sub001/pkg/errors"
	httpx "github.com/barreyo/ysc-redesign-ex-sub001/pkg/http"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Handler exposes the admin-managed property configuration read-only, so
// the booking form can render rooms, seasons and closures without touching
// the write path.
type Handler struct {
	cfg       *config.Config
	rooms     RoomRepository
	blackouts BlackoutRepository
	seasons   seasons.SeasonRepository
}

func NewHandler(cfg *config.Config, rooms RoomRepository, blackouts BlackoutRepository, seasonRepo seasons.SeasonRepository) *Handler {
	return &Handler{
		cfg:       cfg,
		rooms:     rooms,
		blackouts: blackouts,
		seasons:   seasonRepo,
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/properties/:property/rooms", h.ListRooms)
	router.GET("/api/v1/properties/:property/seasons", h.ListSeasons)
	router.GET("/api/v1/properties/:property/blackouts", h.ListBlackouts)
}

func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rooms, err := h.rooms.FindActiveByProperty(r.Context(), model.PropertyID(ps.ByName("property")))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	if err := httpx.WriteSuccess(w, rooms); err != nil {
		h.cfg.Log.Error("Failed to write rooms response", "error", err)
	}
}

func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	seasonList, err := h.seasons.FindByProperty(r.Context(), model.PropertyID(ps.ByName("property")))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	if err := httpx.WriteSuccess(w, seasonList); err != nil {
		h.cfg.Log.Error("Failed to write seasons response", "error", err)
	}
}

// ListBlackouts returns closures overlapping the requested window; without
// parameters it covers the coming year.
func (h *Handler) ListBlackouts(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	q := r.URL.Query()

	from := model.DateOnly(time.Now().UTC())
	to := from.AddDate(1, 0, 0)

	if raw := q.Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.writeErr(w, r, apperrors.InvalidInput("from must be a date formatted YYYY-MM-DD").
				WithReason(berrors.ReasonInvalidParameters))
			return
		}
		from = model.DateOnly(parsed)
	}
	if raw := q.Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.writeErr(w, r, apperrors.InvalidInput("to must be a date formatted YYYY-MM-DD").
				WithReason(berrors.ReasonInvalidParameters))
			return
		}
		to = model.DateOnly(parsed)
	}

	blackouts, err := h.blackouts.FindOverlapping(r.Context(), model.PropertyID(ps.ByName("property")), from, to)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	if err := httpx.WriteSuccess(w, blackouts); err != nil {
		h.cfg.Log.Error("Failed to write blackouts response", "error", err)
	}
}

func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.AsAppError(err)

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.cfg.Log.Error("Property config request failed", "error", err, "path", r.URL.Path)
	} else {
		h.cfg.Log.Info("Property config request rejected", "reason", appErr.Reason(), "path", r.URL.Path)
	}

	if werr := httpx.WriteError(w, appErr); werr != nil {
		h.cfg.Log.Error("Failed to write error response", "error", werr)
	}
}
