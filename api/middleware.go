package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/workbridge/invoicing-api/internal/utils"
)

// Logger logs every request with method, path and duration
func (app *application) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		app.infoLog.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// Authenticate verifies the Bearer token on protected routes
func (app *application) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.ErrorJSON(w, errors.New("missing authorization header"), http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.ErrorJSON(w, errors.New("authorization header must be a Bearer token"), http.StatusUnauthorized)
			return
		}

		if _, err := utils.VerifyJWT(parts[1], app.config.JWT); err != nil {
			app.errorLog.Println("ERROR_01_Authenticate:", err)
			utils.ErrorJSON(w, errors.New("invalid or expired token"), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
