package save

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
	"github.com/go-playground/validator/v10"
)

type AvailabilitySaver interface {
	SaveAvailability(ctx context.Context, req api.AvailabilitySaveRequest) ([]api.AvailabilityRecordResponse, error)
}

type Request struct {
	api.AvailabilitySaveRequest
}

type Response struct {
	response.Response
	Records []api.AvailabilityRecordResponse `json:"records,omitempty"`
}

func New(log *slog.Logger, saver AvailabilitySaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.availability.save.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.String("date", req.Date), slog.Int("entries", len(req.Entries)))

		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		records, err := saver.SaveAvailability(r.Context(), req.AvailabilitySaveRequest)

		if errors.Is(err, response.ErrLocked) {
			log.Error("resource is locked")
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(string(response.LOCKED), "resource is locked"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("resource not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "unknown athlete in entries"))
			return
		}

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid availability payload")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid availability payload"))
			return
		}

		if err != nil {
			log.Error("Failed to save availability", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to save availability"))
			return
		}

		log.Info("Availability saved", slog.String("date", req.Date), slog.Int("count", len(records)))
		render.JSON(w, r, Response{Records: records})
	}
}
