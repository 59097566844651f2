// Package handlers implements the HTTP endpoints.  Response bodies keep the
// field names and status words the web frontend already consumes: simulate
// errors carry status "error", everything else "failed".
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/turtacn/qsim/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/qsim/pkg/errors"
)

// Status words used in response bodies.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusFailed  = "failed"
)

// DefaultMaxBodySize caps request bodies when no limit is configured.
const DefaultMaxBodySize int64 = 1 << 20

// FailureResponse is the error body of every endpoint.
type FailureResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeFailure writes err using the given status word.  Client errors and
// calls without a fallback report the AppError message; server errors report
// fallback with the cause as details.
func writeFailure(w http.ResponseWriter, status string, err error, fallback string) {
	resp := FailureResponse{Status: status, Error: fallback}
	httpStatus := http.StatusInternalServerError

	var ae *errors.AppError
	if stderrors.As(err, &ae) {
		httpStatus = errors.HTTPStatusForCode(ae.Code)
		resp.Code = ae.Code.String()
		switch {
		case errors.IsClientError(ae.Code) || fallback == "":
			resp.Error = ae.Message
			resp.Details = ae.Detail
		case ae.Detail != "":
			resp.Details = ae.Detail
		default:
			resp.Details = ae.Message
		}
	} else {
		resp.Details = err.Error()
		if resp.Error == "" {
			resp.Error = err.Error()
			resp.Details = ""
		}
	}
	writeJSON(w, httpStatus, resp)
}

// logFailure logs errors that reach the boundary as server failures.  Caller
// mistakes are answered but not logged.
func logFailure(logger logging.Logger, msg string, err error) {
	code := errors.GetCode(err)
	if !errors.IsServerError(code) {
		return
	}
	logger.Error(msg,
		logging.String("code", code.String()),
		logging.String("module", errors.ModuleForCode(code)),
		logging.Err(err),
	)
}

// readBody reads at most limit bytes.  An oversized body is a client error.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.Newf(errors.ErrCodeBadRequest, "request body exceeds %d bytes", limit)
		}
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "failed to read request body")
	}
	return body, nil
}

//Personal.AI order the ending
