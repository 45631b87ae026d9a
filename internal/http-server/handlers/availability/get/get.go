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

type AvailabilityGetter interface {
	ListAvailability(ctx context.Context, athleteID, from, to string) ([]api.AvailabilityRecordResponse, error)
}

type Response struct {
	response.Response
	Records []api.AvailabilityRecordResponse `json:"records,omitempty"`
}

func New(log *slog.Logger, getter AvailabilityGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.availability.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		athleteID := r.URL.Query().Get("athlete_id")
		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")

		records, err := getter.ListAvailability(r.Context(), athleteID, from, to)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid date filter")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "dates must be YYYY-MM-DD"))
			return
		}

		if err != nil {
			log.Error("Failed to list availability records", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list availability records"))
			return
		}

		log.Info("Availability records retrieved", slog.Int("count", len(records)))
		render.JSON(w, r, Response{Records: records})
	}
}
