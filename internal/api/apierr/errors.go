package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/model"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeUsernameExists       = "USERNAME_EXISTS"
	CodePlayerNotFound       = "PLAYER_NOT_FOUND"
	CodeInvalidFarmID        = "INVALID_FARM_ID"
	CodeFarmNotFound         = "FARM_NOT_FOUND"
	CodeNotFarmOwner         = "NOT_FARM_OWNER"
	CodeObjectNotFound       = "OBJECT_NOT_FOUND"
	CodeItemNotFound         = "ITEM_NOT_FOUND"
	CodeInvalidQuantity      = "INVALID_QUANTITY"
	CodeInsufficientQuantity = "INSUFFICIENT_QUANTITY"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrInvalidFarmID):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidFarmID, "Invalid farm ID"}}
	case errors.Is(err, model.ErrInvalidFarmName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Farm name must not be empty"}}
	case errors.Is(err, model.ErrFarmNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeFarmNotFound, "Farm not found"}}
	case errors.Is(err, model.ErrNotFarmOwner):
		return &httpError{http.StatusForbidden, APIError{CodeNotFarmOwner, "Only the farm owner can perform this action"}}
	case errors.Is(err, model.ErrObjectNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeObjectNotFound, "Placed object not found"}}
	case errors.Is(err, model.ErrItemNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeItemNotFound, "Inventory item not found"}}
	case errors.Is(err, model.ErrInvalidQuantity):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidQuantity, "Quantity must be positive"}}
	case errors.Is(err, model.ErrInsufficientQuantity):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientQuantity, "Not enough of this item"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired token"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
