package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/planwise/engine/internal/api/middleware"
	"github.com/planwise/engine/internal/api/types"
	"github.com/planwise/engine/internal/services"
)

type AuthHandler struct {
	accounts     services.AccountService
	validate     *validator.Validate
	cookieSecure bool
	tokenTTL     time.Duration
}

func NewAuthHandler(accounts services.AccountService, v *validator.Validate, cookieSecure bool, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{accounts: accounts, validate: v, cookieSecure: cookieSecure, tokenTTL: tokenTTL}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req types.SignupRequest
	if !decode(w, r, h.validate, &req, http.StatusBadRequest) {
		return
	}

	u, err := h.accounts.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, types.SignupData{Email: u.Email, Type: u.Role, Role: u.Role})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if !decode(w, r, h.validate, &req, http.StatusBadRequest) {
		return
	}

	res, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    res.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.tokenTTL.Seconds()),
	})
	writeJSON(w, http.StatusOK, types.LoginResponse{
		Success:     true,
		Profile:     res.User.Profile,
		Role:        res.User.Role,
		Email:       res.User.Email,
		AccessToken: res.Token,
		ExpiresAt:   res.ExpiresAt,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.accounts.Profile(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, types.NewProfileData(u))
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req types.ProfileRequest
	if !decode(w, r, h.validate, &req, http.StatusBadRequest) {
		return
	}

	u, err := h.accounts.UpdateProfile(r.Context(), currentUser(r).ID, &services.ProfileInput{
		Email:    req.Email,
		Name:     req.Name,
		Gender:   req.Gender,
		Location: req.Location,
		Website:  req.Website,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, types.NewProfileData(u))
}
