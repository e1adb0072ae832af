package handlers

import (
	"net/http"

	"voicewave-backend/internal/auth"
	"voicewave-backend/internal/jwt"
	"voicewave-backend/internal/models"
)

func setSessionCookie(w http.ResponseWriter, r *http.Request, session models.Session) bool {
	cookie, err := jwt.CreateToken(r.URL.Query().Get("rememberMe") == "true", session.User.ID, session.SessionID)
	if err != nil {
		sugar.Error(err)
		respondInternal(w)
		return false
	}
	http.SetCookie(w, &cookie)
	return true
}

func Signup(w http.ResponseWriter, r *http.Request) {
	var input auth.SignupInput
	if !decodeJSON(w, r, &input) {
		return
	}

	session, err := svc.Auth.Signup(input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if !setSessionCookie(w, r, session) {
		return
	}
	respondJSON(w, http.StatusCreated, session.User)
}

func Login(w http.ResponseWriter, r *http.Request) {
	var input auth.LoginInput
	if !decodeJSON(w, r, &input) {
		return
	}

	session, err := svc.Auth.Login(input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if !setSessionCookie(w, r, session) {
		return
	}
	respondJSON(w, http.StatusOK, session.User)
}

func Logout(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	if err := svc.Auth.Logout(user.ID); err != nil {
		respondServiceError(w, err)
		return
	}

	deleteJwtCookie := jwt.ClearCookie()
	http.SetCookie(w, &deleteJwtCookie)
	w.WriteHeader(http.StatusNoContent)
}

func Me(w http.ResponseWriter, r *http.Request) {
	user, err := svc.Auth.CurrentUser(userFrom(r).ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}
