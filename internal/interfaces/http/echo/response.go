package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/lead-import/internal/application/importing"
	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiResponse struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

// writeError maps domain and application sentinels onto HTTP statuses. Unknown
// errors are reported as 500 without leaking the cause.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "unsupported_format",
			Message: "file must be .csv, .xlsx or .xls",
		}})
	case errors.Is(err, domain.ErrDecode):
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "decode_failed",
			Message: "unable to decode file content",
		}})
	case errors.Is(err, domain.ErrEmptyFile):
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "empty_file",
			Message: "file contains no data rows",
		}})
	case errors.Is(err, domain.ErrNoValidColumns):
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "no_valid_columns",
			Message: "no usable columns remain after cleaning",
		}})
	case errors.Is(err, app.ErrNoFile):
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "no_file",
			Message: "a file upload is required",
		}})
	case errors.Is(err, app.ErrMappingMissingEmail), errors.Is(err, app.ErrMappingMissingName):
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "invalid_mapping",
			Message: err.Error(),
		}})
	case errors.Is(err, app.ErrBadDecisions), errors.Is(err, domain.ErrUnknownDecision):
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "invalid_decisions",
			Message: err.Error(),
		}})
	case errors.Is(err, domain.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, apiResponse{Error: &errorBody{
			Code:    "session_not_found",
			Message: "import session not found",
		}})
	case errors.Is(err, domain.ErrTemplateNotFound):
		return c.JSON(http.StatusNotFound, apiResponse{Error: &errorBody{
			Code:    "template_not_found",
			Message: "mapping template not found",
		}})
	case errors.Is(err, domain.ErrForbidden):
		return c.JSON(http.StatusForbidden, apiResponse{Error: &errorBody{
			Code:    "forbidden",
			Message: "access denied to import session",
		}})
	case errors.Is(err, domain.ErrWrongPhase), errors.Is(err, domain.ErrSessionFinished):
		return c.JSON(http.StatusConflict, apiResponse{Error: &errorBody{
			Code:    "wrong_phase",
			Message: err.Error(),
		}})
	default:
		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "internal server error",
		}})
	}
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
		Code:    "bad_request",
		Message: message,
	}})
}
