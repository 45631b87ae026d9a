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

type PlanSaver interface {
	SaveSessionPlan(ctx context.Context, req api.SessionPlanRequest) (*api.SessionPlanResponse, error)
}

type Request struct {
	api.SessionPlanRequest
}

type Response struct {
	response.Response
	Plan *api.SessionPlanResponse `json:"plan,omitempty"`
}

func New(log *slog.Logger, saver PlanSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.plans.save.New"

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

		log.Info("Request body decoded", slog.String("date", req.Date), slog.Int("drills", len(req.Drills)))

		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		plan, err := saver.SaveSessionPlan(r.Context(), req.SessionPlanRequest)

		if errors.Is(err, response.ErrLocked) {
			log.Error("resource is locked")
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(string(response.LOCKED), "resource is locked"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("resource not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "unknown athlete in drill assignments"))
			return
		}

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid plan payload")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid plan payload"))
			return
		}

		if err != nil {
			log.Error("Failed to save session plan", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to save session plan"))
			return
		}

		log.Info("Session plan saved", slog.String("date", req.Date))
		render.JSON(w, r, Response{Plan: plan})
	}
}
