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

type DrillTypeCreator interface {
	CreateDrillType(ctx context.Context, req api.DrillTypeRequest) (*api.DrillTypeResponse, error)
}

type Request struct {
	api.DrillTypeRequest
}

type Response struct {
	response.Response
	DrillType *api.DrillTypeResponse `json:"drill_type,omitempty"`
}

func New(log *slog.Logger, creator DrillTypeCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.drill_types.create.New"

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

		drillType, err := creator.CreateDrillType(r.Context(), req.DrillTypeRequest)

		if errors.Is(err, response.ErrAlreadyExists) {
			log.Error("drill type already exists")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.CONFLICT), "drill type already exists"))
			return
		}

		if err != nil {
			log.Error("Failed to create drill type", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create drill type"))
			return
		}

		log.Info("Drill type created", slog.String("id", drillType.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{DrillType: drillType})
	}
}
