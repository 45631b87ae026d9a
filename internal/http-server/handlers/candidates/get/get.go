package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"squad-service/api"
	"squad-service/pkg/response"
	"squad-service/pkg/sl"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type CandidateResolver interface {
	Candidates(ctx context.Context, positionNumber int, search, drillType string) (*api.CandidatesResponse, error)
}

type Response struct {
	response.Response
	Candidates *api.CandidatesResponse `json:"candidates,omitempty"`
}

func New(log *slog.Logger, resolver CandidateResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.candidates.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		positionStr := r.URL.Query().Get("position")
		position, err := strconv.Atoi(positionStr)
		if positionStr == "" || err != nil {
			log.Error("position is missing or not a number")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "position is required"))
			return
		}

		search := r.URL.Query().Get("q")
		drillType := r.URL.Query().Get("drill_type")

		candidates, err := resolver.Candidates(r.Context(), position, search, drillType)

		if errors.Is(err, response.ErrUnknownPosition) {
			log.Error("position outside drill type subset", slog.Int("position", position))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "position not available for drill type"))
			return
		}

		if err != nil {
			log.Error("Failed to resolve candidates", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to resolve candidates"))
			return
		}

		log.Info("Candidates resolved",
			slog.Int("position", position),
			slog.Int("exact", len(candidates.Exact)),
			slog.Int("same_group", len(candidates.SameGroup)),
			slog.Int("other", len(candidates.Other)),
		)
		render.JSON(w, r, Response{Candidates: candidates})
	}
}
