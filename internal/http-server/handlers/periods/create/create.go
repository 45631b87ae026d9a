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

type PeriodCreator interface {
	CreatePeriod(ctx context.Context, req api.PeriodRequest) (*api.PeriodResponse, error)
}

type Request struct {
	api.PeriodRequest
}

type Response struct {
	response.Response
	Period *api.PeriodResponse `json:"period,omitempty"`
}

func New(log *slog.Logger, creator PeriodCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.periods.create.New"

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

		period, err := creator.CreatePeriod(r.Context(), req.PeriodRequest)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid period bounds")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "to_date must not precede from_date"))
			return
		}

		if err != nil {
			log.Error("Failed to create period", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create period"))
			return
		}

		log.Info("Period created", slog.String("id", period.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Period: period})
	}
}
