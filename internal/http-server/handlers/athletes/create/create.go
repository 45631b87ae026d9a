package create

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

type AthleteCreator interface {
	CreateAthlete(ctx context.Context, req api.AthleteRequest) (*api.AthleteResponse, error)
}

type Request struct {
	api.AthleteRequest
}

type Response struct {
	response.Response
	Athlete *api.AthleteResponse `json:"athlete,omitempty"`
}

func New(log *slog.Logger, creator AthleteCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.athletes.create.New"

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

		log.Info("Request body decoded", slog.Any("request", req))

		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		athlete, err := creator.CreateAthlete(r.Context(), req.AthleteRequest)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid athlete payload")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid athlete payload"))
			return
		}

		if err != nil {
			log.Error("Failed to create athlete", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create athlete"))
			return
		}

		log.Info("Athlete created", slog.String("id", athlete.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Athlete: athlete})
	}
}
