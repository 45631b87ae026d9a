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

type PeriodGetter interface {
	ListPeriods(ctx context.Context) ([]api.PeriodResponse, error)
}

type Response struct {
	response.Response
	Periods []api.PeriodResponse `json:"periods,omitempty"`
}

func New(log *slog.Logger, getter PeriodGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.periods.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		periods, err := getter.ListPeriods(r.Context())

		if err != nil {
			log.Error("Failed to list periods", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list periods"))
			return
		}

		log.Info("Periods retrieved", slog.Int("count", len(periods)))
		render.JSON(w, r, Response{Periods: periods})
	}
}
