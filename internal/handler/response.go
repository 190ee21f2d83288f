package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"stagepass/internal/model"
	"stagepass/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeError translates domain sentinels and apierror values into the JSON
// envelope. Anything unrecognized becomes a generic 500 without detail.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	case errors.Is(err, model.ErrUserNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "User not found"
	case errors.Is(err, model.ErrProfileNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Artist profile not found"
	case errors.Is(err, model.ErrEmailTaken):
		status = http.StatusConflict
		body.Code = "ALREADY_EXISTS"
		body.Message = "Email already in use"
	case errors.Is(err, model.ErrUsernameTaken):
		status = http.StatusConflict
		body.Code = "ALREADY_EXISTS"
		body.Message = "Username already in use"
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Invalid email or password"
	case errors.Is(err, model.ErrInvalidPassword):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Invalid password"
	case errors.Is(err, model.ErrAlreadyArtist):
		status = http.StatusConflict
		body.Code = "INVALID_STATE"
		body.Message = "User is already an artist"
	case errors.Is(err, model.ErrNotArtist):
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "User is not an artist"
	case errors.Is(err, model.ErrImageUpload):
		status = http.StatusBadGateway
		body.Code = "UPSTREAM_ERROR"
		body.Message = "Image upload failed"
	default:
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}
