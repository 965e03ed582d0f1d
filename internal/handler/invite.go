package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	internal_errors "github.com/charitymap/charitymap/internal/errors"
	"github.com/charitymap/charitymap/internal/utils"
)

type createInviteRequest struct {
	Email string `validate:"required" json:"email"`
}

type inviteResponse struct {
	Token     string `json:"token"`
	Email     string `json:"email"`
	InviteURL string `json:"invite_url"`
}

// CreateInvite mints (or returns the pending) invite for an email.
// Admin-gated by the router.
func (h *Handler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	var body createInviteRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	invite, created, err := h.auth.CreateInvite(body.Email)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	utils.WriteJSON(w, status, inviteResponse{
		Token:     invite.Token,
		Email:     invite.Email,
		InviteURL: "/register?token=" + invite.Token,
	})
}

func (h *Handler) VerifyInvite(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	email, err := h.auth.VerifyInvite(token)
	if err != nil {
		var e *internal_errors.ErrorWithStatusCode
		if errors.As(err, &e) && e.StatusCode == http.StatusBadRequest {
			utils.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
				"valid": false,
				"error": e.Message,
			})
			return
		}
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid": true,
		"email": email,
	})
}
