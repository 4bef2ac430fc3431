package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrProfileNotFound is returned when a profile is not found.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrContactNotFound is returned when a contact is not found.
	ErrContactNotFound = errors.New("contact not found")
	// ErrRequestNotFound is returned when a service request is not found.
	ErrRequestNotFound = errors.New("service request not found")
	// ErrAssetNotFound is returned when an asset is not found.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrItemNotFound is returned when an inventory item is not found.
	ErrItemNotFound = errors.New("inventory item not found")
	// ErrNotificationNotFound is returned when a notification is not found.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrForbidden is returned when the actor lacks permission for the operation.
	ErrForbidden = errors.New("operation not permitted for this role")
	// ErrInvalidTransition is returned for a status change the lifecycle does not admit.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrRequestConflict is returned when a concurrent actor won the same transition.
	ErrRequestConflict = errors.New("request was modified by another actor")
	// ErrTechnicianRequired is returned when an assignment names a non-technician.
	ErrTechnicianRequired = errors.New("assignee must hold the technician role")
	// ErrInvalidRole is returned for a role outside the known set.
	ErrInvalidRole = errors.New("invalid role")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PROFILE_NOT_FOUND")
	case errors.Is(err, ErrContactNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CONTACT_NOT_FOUND")
	case errors.Is(err, ErrRequestNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "REQUEST_NOT_FOUND")
	case errors.Is(err, ErrAssetNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ASSET_NOT_FOUND")
	case errors.Is(err, ErrItemNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ITEM_NOT_FOUND")
	case errors.Is(err, ErrNotificationNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOTIFICATION_NOT_FOUND")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrInvalidTransition):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error(), "INVALID_TRANSITION")
	case errors.Is(err, ErrRequestConflict):
		return NewHTTPError(http.StatusConflict, err.Error(), "REQUEST_CONFLICT")
	case errors.Is(err, ErrTechnicianRequired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "TECHNICIAN_REQUIRED")
	case errors.Is(err, ErrInvalidRole):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ROLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
