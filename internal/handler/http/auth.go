package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

func (h *Handler) storeStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.services.AuthService.StoreStatus(r.Context())
	if err != nil {
		writeError(w, r, err, "Handler.storeStatus")
		return
	}

	utils.WriteJSON(w, status, http.StatusOK)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var request models.RegisterRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, r, err, "Handler.register")
		return
	}

	registeredUser, err := h.services.AuthService.RegisterUser(ctx, request)
	if err != nil {
		writeError(w, r, err, "Handler.register")
		return
	}

	h.respondWithToken(w, r, registeredUser, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.LoginRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, r, err, "Handler.login")
		return
	}

	foundUser, err := h.services.AuthService.Login(ctx, request)
	if err != nil {
		writeError(w, r, err, "Handler.login")
		return
	}

	log.Debug().Str("id", foundUser.ID).Msg("user successfully logged in")

	h.respondWithToken(w, r, foundUser, http.StatusOK)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var request models.ResetPasswordRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, r, err, "Handler.resetPassword")
		return
	}

	if err := h.services.AuthService.ResetPassword(r.Context(), request); err != nil {
		writeError(w, r, err, "Handler.resetPassword")
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: msgPasswordWasReset}, http.StatusOK)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		writeError(w, r, err, "Handler.getProfile")
		return
	}

	profile, err := h.services.AuthService.GetProfile(r.Context(), actor.ID)
	if err != nil {
		writeError(w, r, err, "Handler.getProfile")
		return
	}

	utils.WriteJSON(w, models.ProfileResponse{User: profile.Public()}, http.StatusOK)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		writeError(w, r, err, "Handler.updateProfile")
		return
	}

	var request models.ProfileUpdateRequest
	if err = decodeJSON(r, &request); err != nil {
		writeError(w, r, err, "Handler.updateProfile")
		return
	}

	updatedUser, err := h.services.AuthService.UpdateProfile(r.Context(), actor, request)
	if err != nil {
		writeError(w, r, err, "Handler.updateProfile")
		return
	}

	utils.WriteJSON(w, models.ProfileResponse{User: updatedUser.Public()}, http.StatusOK)
}

// respondWithToken issues a token for user and sends it both in the body
// and in the Authorization header.
func (h *Handler) respondWithToken(w http.ResponseWriter, r *http.Request, user models.User, status int) {
	token, err := h.services.AuthService.CreateToken(r.Context(), user)
	if err != nil {
		writeError(w, r, err, "Handler.respondWithToken")
		return
	}

	w.Header().Set("Authorization", utils.BearerHeader(token.SignedString))
	utils.WriteJSON(w, models.AuthResponse{User: user.Public(), Token: token.SignedString}, status)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}
