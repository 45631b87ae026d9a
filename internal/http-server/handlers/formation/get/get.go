package get

import (
	"context"
	"log/slog"
	"net/http"
	"squad-service/api"
	"squad-service/pkg/response"
	"squad-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type DefaultTeamGetter interface {
	DefaultTeam(ctx context.Context) (*api.FormationResponse, error)
}

type Response struct {
	response.Response
	Formation *api.FormationResponse `json:"formation,omitempty"`
}

func New(log *slog.Logger, getter DefaultTeamGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.formation.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		formation, err := getter.DefaultTeam(r.Context())

		if err != nil {
			log.Error("Failed to get default team", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get default team"))
			return
		}

		log.Info("Default team retrieved")
		render.JSON(w, r, Response{Formation: formation})
	}
}
