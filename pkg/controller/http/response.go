package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/domain/interfaces"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
	"github.com/secmon-lab/grcboard/pkg/usecase"
	"github.com/secmon-lab/grcboard/pkg/utils/errutil"
	"github.com/secmon-lab/grcboard/pkg/utils/safe"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return goerr.Wrap(errBadRequest, "invalid JSON body", goerr.V("error", err.Error()))
	}
	return nil
}

var errBadRequest = errors.New("bad request")

// statusOf maps an error to the HTTP status answered to the client
func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, model.ErrMissingRequired),
		errors.Is(err, model.ErrInvalidEnum),
		errors.Is(err, model.ErrOutOfRange),
		errors.Is(err, model.ErrNoFile),
		errors.Is(err, types.ErrInvalidValue),
		errors.Is(err, usecase.ErrUnknownAnalysisType):
		return http.StatusBadRequest

	case errors.Is(err, usecase.ErrFrameworkNotFound),
		errors.Is(err, usecase.ErrIssueNotFound),
		errors.Is(err, usecase.ErrRiskNotFound),
		errors.Is(err, usecase.ErrControlNotFound):
		return http.StatusNotFound

	case errors.Is(err, usecase.ErrBusy),
		errors.Is(err, usecase.ErrInvalidTransition),
		errors.Is(err, usecase.ErrExceptionNotAllowed):
		return http.StatusConflict

	case errors.Is(err, usecase.ErrAnalyzerUnavailable),
		errors.Is(err, interfaces.ErrNotSupported):
		return http.StatusNotImplemented

	default:
		// The backend rejected or failed the call
		return http.StatusBadGateway
	}
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
}
