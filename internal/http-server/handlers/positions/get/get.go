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

type PositionGetter interface {
	ListPositions(ctx context.Context) ([]api.PositionResponse, error)
}

type Response struct {
	response.Response
	Positions []api.PositionResponse `json:"positions,omitempty"`
}

func New(log *slog.Logger, getter PositionGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.positions.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		positions, err := getter.ListPositions(r.Context())

		if err != nil {
			log.Error("Failed to list positions", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list positions"))
			return
		}

		log.Info("Positions retrieved", slog.Int("count", len(positions)))
		render.JSON(w, r, Response{Positions: positions})
	}
}
