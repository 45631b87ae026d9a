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

type DrillTypeGetter interface {
	ListDrillTypes(ctx context.Context) ([]api.DrillTypeResponse, error)
}

type Response struct {
	response.Response
	DrillTypes []api.DrillTypeResponse `json:"drill_types,omitempty"`
}

func New(log *slog.Logger, getter DrillTypeGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.drill_types.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		drillTypes, err := getter.ListDrillTypes(r.Context())

		if err != nil {
			log.Error("Failed to list drill types", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list drill types"))
			return
		}

		log.Info("Drill types retrieved", slog.Int("count", len(drillTypes)))
		render.JSON(w, r, Response{DrillTypes: drillTypes})
	}
}
