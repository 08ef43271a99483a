package app

import (
	"accounts/internal/app/deps"
	"accounts/internal/app/services"
	"accounts/internal/config"
	"accounts/internal/http/handlers/auth"
	login "accounts/internal/http/handlers/auth/log_in"
	"accounts/internal/http/handlers/auth/register"
	resetpassword "accounts/internal/http/handlers/auth/reset_password"
	sendpasswordresettoken "accounts/internal/http/handlers/auth/send_password_reset_token"
	"accounts/internal/http/handlers/user/me"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const MAX_REQUEST_BODY_SIZE = 1 << 16

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	return &http.Server{
		Handler:           NewRouter(deps.Config, s),
		Addr:              fmt.Sprintf("0.0.0.0:%d", deps.Config.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func NewRouter(config *config.Config, s *services.Services) http.Handler {
	authRouter := chi.NewRouter()
	authRouter.Method(http.MethodPost, "/register", register.New(s.SignUp))
	authRouter.Method(http.MethodPost, "/login", login.New(s.LogIn))
	authRouter.Method(
		http.MethodPost,
		"/password_reset/token",
		sendpasswordresettoken.New(s.SendPasswordResetToken, config.IsTestMode),
	)
	authRouter.Method(http.MethodPut, "/password_reset", resetpassword.New(s.ResetPassword))

	profileRouter := chi.NewRouter()
	profileRouter.Use(auth.SetAuthTokenToContext)
	profileRouter.Method(http.MethodGet, "/me", me.New(s.GetUserBySessionToken))

	exposedHeaders := []string{}
	if config.IsTestMode {
		exposedHeaders = append(exposedHeaders, sendpasswordresettoken.TEST_TOKEN_HEADER)
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(limitRequestBody(MAX_REQUEST_BODY_SIZE))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/auth", authRouter)
	router.Mount("/profile", profileRouter)

	return router
}

func limitRequestBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(rw, r.Body, n)
			next.ServeHTTP(rw, r)
		})
	}
}
