package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"stagepass/internal/imagestore"
	"stagepass/internal/middleware"
	"stagepass/internal/model"
	"stagepass/internal/service"
	"stagepass/pkg/apierror"
)

type AccountHandler struct {
	service       *service.AccountService
	maxUploadSize int64
}

func NewAccountHandler(service *service.AccountService, maxUploadSize int64) *AccountHandler {
	return &AccountHandler{service: service, maxUploadSize: maxUploadSize}
}

// UpdateProfile accepts a multipart form with username, email and an
// optional image part.
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, apierror.New("VALIDATION_ERROR", "invalid multipart form", "", http.StatusBadRequest))
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	var image *imagestore.Upload
	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		image = &imagestore.Upload{
			Filename: header.Filename,
			Body:     file,
			Size:     header.Size,
		}
	case errors.Is(err, http.ErrMissingFile):
		// No image uploaded; keep the current one.
	default:
		writeError(w, apierror.New("VALIDATION_ERROR", "invalid image upload", "image", http.StatusBadRequest))
		return
	}

	result, err := h.service.UpdateProfile(r.Context(), claims.UserID, r.FormValue("username"), r.FormValue("email"), image)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

func (h *AccountHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	var payload model.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("VALIDATION_ERROR", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	user, err := h.service.UpdatePassword(r.Context(), claims.UserID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.UserResponse{User: user})
}

func (h *AccountHandler) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	var payload model.ChangeEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("VALIDATION_ERROR", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	user, err := h.service.ChangeEmail(r.Context(), claims.UserID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.UserResponse{User: user})
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	var payload model.DeleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("VALIDATION_ERROR", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if err := h.service.DeleteAccount(r.Context(), claims.UserID, payload.Password); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true})
}
