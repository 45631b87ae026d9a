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
)

type DefaultTeamSaver interface {
	SaveDefaultTeam(ctx context.Context, req api.FormationRequest) (*api.FormationResponse, error)
}

type Request struct {
	api.FormationRequest
}

type Response struct {
	response.Response
	Formation *api.FormationResponse `json:"formation,omitempty"`
}

func New(log *slog.Logger, saver DefaultTeamSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.formation.save.New"

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

		formation, err := saver.SaveDefaultTeam(r.Context(), req.FormationRequest)

		if errors.Is(err, response.ErrLocked) {
			log.Error("resource is locked")
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(string(response.LOCKED), "resource is locked"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("resource not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "unknown athlete in formation"))
			return
		}

		if err != nil {
			log.Error("Failed to save default team", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to save default team"))
			return
		}

		log.Info("Default team saved")
		render.JSON(w, r, Response{Formation: formation})
	}
}
