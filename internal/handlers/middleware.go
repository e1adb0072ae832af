package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"voicewave-backend/internal/auth"
	"voicewave-backend/internal/jwt"
	"voicewave-backend/internal/models"
)

type UserKeyType struct{}

var errBadToken = errors.New("Couldn't verify JWT")

// authenticate resolves the JWT cookie to the user of the current session.
func authenticate(r *http.Request) (models.User, jwt.UserToken, error) {
	jwtCookie, err := r.Cookie(jwt.CookieName)
	if err != nil {
		return models.User{}, jwt.UserToken{}, err
	}

	userToken, err := jwt.VerifyToken(jwtCookie.Value)
	if err != nil {
		sugar.Debug(err)
		return models.User{}, jwt.UserToken{}, errBadToken
	}

	user, err := svc.Auth.Verify(userToken.UserID, userToken.SessionID)
	if err != nil {
		return models.User{}, jwt.UserToken{}, err
	}
	return user, userToken, nil
}

func UserVerifier(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, userToken, err := authenticate(r)
		if err != nil {
			switch {
			case errors.Is(err, http.ErrNoCookie):
				respondError(w, http.StatusUnauthorized, "No jwt cookie was provided")
			case errors.Is(err, errBadToken), errors.Is(err, auth.ErrNoSession):
				// the token outlived its session, e.g. after logout elsewhere
				sugar.Debug(err)
				deleteJwtCookie := jwt.ClearCookie()
				http.SetCookie(w, &deleteJwtCookie)
				respondError(w, http.StatusUnauthorized, err.Error())
			default:
				sugar.Error(err)
				respondInternal(w)
			}
			return
		}

		// renew JWT and cookie
		if userToken.IssuedAt != nil && time.Now().UTC().Sub(userToken.IssuedAt.Time) >= jwt.RenewAfter {
			updatedCookie, err := jwt.CreateToken(userToken.Remember, userToken.UserID, userToken.SessionID)
			if err != nil {
				sugar.Error(err)
				respondInternal(w)
				return
			}
			http.SetCookie(w, &updatedCookie)
		}

		ctx := context.WithValue(r.Context(), UserKeyType{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
