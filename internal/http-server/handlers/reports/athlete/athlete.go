package athlete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"squad-service/api"
	"squad-service/pkg/response"
	"squad-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type StatsReporter interface {
	AthleteReport(ctx context.Context, athleteID, periodID string) (*api.AthleteStatsResponse, error)
}

type Response struct {
	response.Response
	Stats *api.AthleteStatsResponse `json:"stats,omitempty"`
}

func New(log *slog.Logger, reporter StatsReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.athlete.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if id == "" {
			log.Error("id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "id is required"))
			return
		}

		periodID := r.URL.Query().Get("period")

		stats, err := reporter.AthleteReport(r.Context(), id, periodID)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("resource not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
			return
		}

		if err != nil {
			log.Error("Failed to build athlete report", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to build athlete report"))
			return
		}

		log.Info("Athlete report built", slog.String("athlete_id", id), slog.Int("total", stats.Total))
		render.JSON(w, r, Response{Stats: stats})
	}
}
