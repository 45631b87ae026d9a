package update

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
	"github.com/go-playground/validator/v10"
)

type AthleteUpdater interface {
	UpdateAthlete(ctx context.Context, id string, req api.AthleteRequest) (*api.AthleteResponse, error)
}

type Request struct {
	api.AthleteRequest
}

type Response struct {
	response.Response
	Athlete *api.AthleteResponse `json:"athlete,omitempty"`
}

func New(log *slog.Logger, updater AthleteUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.athletes.update.New"

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

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		athlete, err := updater.UpdateAthlete(r.Context(), id, req.AthleteRequest)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("resource not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
			return
		}

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid athlete payload")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid athlete payload"))
			return
		}

		if err != nil {
			log.Error("Failed to update athlete", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to update athlete"))
			return
		}

		log.Info("Athlete updated", slog.String("id", id))
		render.JSON(w, r, Response{Athlete: athlete})
	}
}
