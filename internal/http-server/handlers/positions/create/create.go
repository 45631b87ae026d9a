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

type PositionCreator interface {
	CreatePosition(ctx context.Context, req api.PositionRequest) (*api.PositionResponse, error)
}

type Request struct {
	api.PositionRequest
}

type Response struct {
	response.Response
	Position *api.PositionResponse `json:"position,omitempty"`
}

func New(log *slog.Logger, creator PositionCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.positions.create.New"

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

		position, err := creator.CreatePosition(r.Context(), req.PositionRequest)

		if errors.Is(err, response.ErrAlreadyExists) {
			log.Error("position number already taken")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.CONFLICT), "position number already taken"))
			return
		}

		if err != nil {
			log.Error("Failed to create position", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create position"))
			return
		}

		log.Info("Position created", slog.String("id", position.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Position: position})
	}
}
