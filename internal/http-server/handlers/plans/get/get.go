package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"squad-service/api"
	"squad-service/pkg/response"
	"squad-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type PlanGetter interface {
	SessionPlan(ctx context.Context, date string) (*api.SessionPlanResponse, error)
}

type Response struct {
	response.Response
	Plan *api.SessionPlanResponse `json:"plan,omitempty"`
}

func New(log *slog.Logger, getter PlanGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.plans.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		date := r.URL.Query().Get("date")
		if date == "" {
			log.Error("date is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "date is required"))
			return
		}

		plan, err := getter.SessionPlan(r.Context(), date)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("no plan for date", slog.String("date", date))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "no plan for date"))
			return
		}

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid date")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "date must be YYYY-MM-DD"))
			return
		}

		if err != nil {
			log.Error("Failed to get session plan", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get session plan"))
			return
		}

		log.Info("Session plan retrieved", slog.String("date", date))
		render.JSON(w, r, Response{Plan: plan})
	}
}
