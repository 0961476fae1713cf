package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/nba-trixie/internal/domain/audit"
	"github.com/riskibarqy/nba-trixie/internal/domain/composer"
	"github.com/riskibarqy/nba-trixie/internal/usecase"
)

const (
	googleAPIVersion   = "2.0"
	errorDomain        = "nba-trixie"
	internalErrMessage = "internal server error"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

var internalMapping = mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL"}

// errorRules is checked in order; the first rule with a matching sentinel wins.
var errorRules = []struct {
	targets []error
	mapped  mappedError
}{
	{[]error{usecase.ErrInvalidInput}, mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}},
	{[]error{usecase.ErrNotFound}, mappedError{http.StatusNotFound, "notFound", "NOT_FOUND"}},
	{[]error{audit.ErrInvalidTransition}, mappedError{http.StatusConflict, "invalidTransition", "FAILED_PRECONDITION"}},
	{[]error{usecase.ErrNoRecommendations}, mappedError{http.StatusUnprocessableEntity, "noRecommendations", "FAILED_PRECONDITION"}},
	{[]error{usecase.ErrDependencyUnavailable}, mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}},
	{
		[]error{composer.ErrDuplicatePlayer, composer.ErrGameLimit, composer.ErrTeamLimit, composer.ErrRiskMix},
		mappedError{http.StatusBadRequest, "invalidTrixie", "INVALID_ARGUMENT"},
	},
}

func mapError(err error) mappedError {
	for _, rule := range errorRules {
		for _, target := range rule.targets {
			if errors.Is(err, target) {
				return rule.mapped
			}
		}
	}
	return internalMapping
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, googleResponseEnvelope{APIVersion: googleAPIVersion, Data: data})
}

// writeError maps err onto an envelope. Unmapped errors are reported as a
// generic internal error so upstream details stay out of responses.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(err)
	message := err.Error()
	if mapped.HTTPStatus >= http.StatusInternalServerError {
		markSpanFailed(ctx, err)
	}
	if mapped.HTTPStatus == http.StatusInternalServerError {
		message = internalErrMessage
	}
	writeErrorEnvelope(w, mapped, message)
}

func writeInternalError(_ context.Context, w http.ResponseWriter) {
	writeErrorEnvelope(w, internalMapping, internalErrMessage)
}

func writeErrorEnvelope(w http.ResponseWriter, mapped mappedError, message string) {
	writeJSON(w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors:  []googleErrorItem{{Domain: errorDomain, Reason: mapped.Reason, Message: message}},
		},
	})
}
