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
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type AthleteGetter interface {
	GetAthlete(ctx context.Context, id string) (*api.AthleteResponse, error)
	ListAthletes(ctx context.Context, search string, availableOnly bool) ([]api.AthleteResponse, error)
}

type Response struct {
	response.Response
	Athletes []api.AthleteResponse `json:"athletes,omitempty"`
	Athlete  *api.AthleteResponse  `json:"athlete,omitempty"`
}

func New(log *slog.Logger, getter AthleteGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.athletes.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		if id != "" {
			athlete, err := getter.GetAthlete(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("resource not found")
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get athlete", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get athlete"))
				return
			}

			log.Info("Athlete retrieved", slog.String("id", id))
			render.JSON(w, r, Response{Athlete: athlete})
			return
		}

		search := r.URL.Query().Get("q")
		availableOnly := r.URL.Query().Get("available_only") == "true"

		athletes, err := getter.ListAthletes(r.Context(), search, availableOnly)

		if err != nil {
			log.Error("Failed to list athletes", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list athletes"))
			return
		}

		log.Info("Athletes retrieved", slog.Int("count", len(athletes)))
		render.JSON(w, r, Response{Athletes: athletes})
	}
}
