package handler

import (
	"net/http"

	"github.com/charitymap/charitymap/internal/domain"
	"github.com/charitymap/charitymap/internal/errors"
	mw "github.com/charitymap/charitymap/internal/middleware"
	"github.com/charitymap/charitymap/internal/utils"
)

type credentials struct {
	Email    string `validate:"required" json:"email"`
	Password string `validate:"required" json:"password"`
}

type registration struct {
	Email            string `validate:"required" json:"email"`
	Password         string `validate:"required" json:"password"`
	OrganizationName string `validate:"required" json:"organization_name"`
	InviteToken      string `validate:"required" json:"invite_token"`
}

type authResponse struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := utils.DecodeValidate(r.Body, &creds); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	token, user, err := h.auth.Login(domain.Credentials{Email: creds.Email, Password: creds.Password})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var reg registration
	if err := utils.DecodeValidate(r.Body, &reg); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	token, user, err := h.auth.Register(domain.Registration{
		Email:            reg.Email,
		Password:         reg.Password,
		OrganizationName: reg.OrganizationName,
		InviteToken:      reg.InviteToken,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	actor := mw.GetUserFromContext(r)
	if actor == nil {
		utils.WriteErrorAndStatusCode(w, errors.Unauthorized("Token is missing"))
		return
	}

	user, err := h.auth.CurrentUser(actor.Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, user)
}
