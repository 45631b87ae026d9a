package cohort

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

type CohortReporter interface {
	CohortReport(ctx context.Context, req api.CohortReportRequest) (*api.CohortReportResponse, error)
}

type Request struct {
	api.CohortReportRequest
}

type Response struct {
	response.Response
	Report *api.CohortReportResponse `json:"report,omitempty"`
}

func New(log *slog.Logger, reporter CohortReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.cohort.New"

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

		log.Info("Request body decoded", slog.String("mode", req.Mode), slog.Int("athletes", len(req.AthleteIDs)))

		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		report, err := reporter.CohortReport(r.Context(), req.CohortReportRequest)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("resource not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
			return
		}

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid report bounds")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid report bounds"))
			return
		}

		if err != nil {
			log.Error("Failed to build cohort report", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to build cohort report"))
			return
		}

		log.Info("Cohort report built",
			slog.Int("cohort_size", report.CohortSize),
			slog.Int("points", len(report.Points)),
		)
		render.JSON(w, r, Response{Report: report})
	}
}
