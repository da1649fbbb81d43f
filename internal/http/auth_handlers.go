package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"taobao-orders/backend/internal/domain/signin"
	"taobao-orders/backend/internal/middleware"
)

type authHandlers struct {
	svc *signin.Service
}

type googleSignInReq struct {
	IDToken string `json:"idToken"`
}

// POST /v1/auth/google
func (h *authHandlers) signInWithGoogle(w http.ResponseWriter, r *http.Request) {
	var req googleSignInReq
	if err := ReadJSON(r, &req); err != nil {
		Fail(w, 400, "invalid json")
		return
	}
	res, err := h.svc.SignInWithGoogle(r.Context(), req.IDToken)
	if err != nil {
		status, msg := mapSignInError(err)
		if status == 500 {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("google sign-in failed")
		}
		Fail(w, status, msg)
		return
	}
	WriteJSON(w, 200, res)
}

// GET /v1/me
func (h *authHandlers) me(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Current(r.Context())
	if err != nil {
		status, msg := mapSignInError(err)
		Fail(w, status, msg)
		return
	}
	WriteJSON(w, 200, res)
}

// POST /v1/auth/sign-out
func (h *authHandlers) signOut(w http.ResponseWriter, r *http.Request) {
	au, ok := middleware.GetAuthUser(r.Context())
	if !ok {
		Fail(w, 401, "unauthorized")
		return
	}
	if err := h.svc.SignOut(r.Context(), au.UID); err != nil {
		status, msg := mapSignInError(err)
		Fail(w, status, msg)
		return
	}
	WriteJSON(w, 200, map[string]any{"ok": true})
}
