package http

import (
	"time"

	"github.com/go-playground/validator/v10"

	"golinks/internal/entity"
)

const statusError = "error"

// linkRequest is the body of a create call. The caller picks the short path;
// the service never generates one.
type linkRequest struct {
	ShortPath   string `json:"short_path" validate:"required"`
	Destination string `json:"destination" validate:"required,url"`
	Label       string `json:"label"`
}

// createLinkResponse confirms a successful claim.
type createLinkResponse struct {
	Success   bool   `json:"success"`
	ShortPath string `json:"short_path"`
	Message   string `json:"message"`
}

// availabilityResponse answers the public "is this name taken" probe.
type availabilityResponse struct {
	Exists bool `json:"exists"`
}

// linkStatsResponse carries the full record including usage statistics.
type linkStatsResponse struct {
	ShortPath   string    `json:"short_path"`
	Destination string    `json:"destination"`
	Label       string    `json:"label,omitempty"`
	OwnerID     string    `json:"owner_id"`
	Stats       linkStats `json:"stats"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type linkStats struct {
	AccessCount int64 `json:"access_count"`
}

func toLinkStatsResponse(redirect *entity.Redirect) linkStatsResponse {
	return linkStatsResponse{
		ShortPath:   redirect.ShortPath,
		Destination: redirect.Destination,
		Label:       redirect.Label,
		OwnerID:     redirect.OwnerID,
		Stats: linkStats{
			AccessCount: redirect.RedirectStats.AccessCount,
		},
		CreatedAt: redirect.CreatedAt,
		UpdatedAt: redirect.UpdatedAt,
	}
}

// validationError represents an individual validation error.
type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorResponse represents a structured error response.
type errorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  []validationError `json:"errors,omitempty"`
}

// Predefined error responses for common scenarios.
var (
	emptyRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "empty request body",
	}

	invalidRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "invalid request body",
	}

	shortPathNotFoundResponse = errorResponse{
		Status:  statusError,
		Message: "short path not found",
	}

	shortPathTakenResponse = errorResponse{
		Status:  statusError,
		Message: "short path already taken",
	}

	unauthenticatedResponse = errorResponse{
		Status:  statusError,
		Message: "authentication required",
	}

	tooManyRequestsResponse = errorResponse{
		Status:  statusError,
		Message: "too many requests",
	}

	serverErrorResponse = errorResponse{
		Status:  statusError,
		Message: "server error occurred",
	}
)

// messageForTag returns a user-friendly message based on the validation tag.
func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "url":
		return "invalid url"
	default:
		return "invalid value"
	}
}

func getValidationErrors(err error) []validationError {
	var validationErrs []validationError

	errs, ok := err.(validator.ValidationErrors)
	if ok {
		for _, e := range errs {
			validationErrs = append(validationErrs, validationError{
				Field:   e.Field(),
				Message: messageForTag(e.Tag()),
			})
		}
	}

	return validationErrs
}

func validationErrorResponse(err error) errorResponse {
	return errorResponse{
		Status:  statusError,
		Message: "validation error",
		Errors:  getValidationErrors(err),
	}
}
