package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roach88/riddlechain/internal/app"
	"github.com/roach88/riddlechain/internal/engine"
	"github.com/roach88/riddlechain/internal/library"
	"github.com/roach88/riddlechain/internal/schema"
	"github.com/roach88/riddlechain/internal/sequence"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeNotFound        = "NOT_FOUND"
	CodeNoActiveRun     = "NO_ACTIVE_RUN"
	CodeSchema          = "SCHEMA_VIOLATION"
	CodeInvalidSequence = "INVALID_SEQUENCE"
	CodeInternal        = "INTERNAL"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: CodeBadRequest, Message: msg})
}

// writeError maps domain errors to status codes.
func writeError(c *gin.Context, err error) {
	var (
		status = http.StatusInternalServerError
		resp   = ErrorResponse{Code: CodeInternal, Message: "internal error"}

		schemaErr *schema.Error
		seqErr    *sequence.ValidationError
	)

	switch {
	case errors.Is(err, library.ErrNotFound):
		status, resp = http.StatusNotFound, ErrorResponse{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, app.ErrNoActiveRun):
		status, resp = http.StatusConflict, ErrorResponse{Code: CodeNoActiveRun, Message: err.Error()}
	case engine.ErrorCode(err) != "":
		status, resp = http.StatusConflict, ErrorResponse{Code: string(engine.ErrorCode(err)), Message: err.Error()}
	case errors.As(err, &schemaErr):
		status = http.StatusUnprocessableEntity
		resp = ErrorResponse{Code: CodeSchema, Message: err.Error(), Details: schemaErr.Violations}
	case errors.As(err, &seqErr):
		var problems []string
		for _, p := range sequence.Problems(err) {
			problems = append(problems, p.Error())
		}
		status = http.StatusUnprocessableEntity
		resp = ErrorResponse{Code: CodeInvalidSequence, Message: problems[0], Details: problems}
	default:
		_ = c.Error(err)
	}

	c.AbortWithStatusJSON(status, resp)
}
