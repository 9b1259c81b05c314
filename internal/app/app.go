package app

import (
	"accounts/internal/app/deps"
	"accounts/internal/app/services"
	"accounts/internal/http/handlers/auth"
	loginwithemail "accounts/internal/http/handlers/auth/log_in_with_email"
	logout "accounts/internal/http/handlers/auth/log_out"
	resetpassword "accounts/internal/http/handlers/auth/reset_password"
	sendpasswordresettoken "accounts/internal/http/handlers/auth/send_password_reset_token"
	signupwithemail "accounts/internal/http/handlers/auth/sign_up_with_email"
	verifyemail "accounts/internal/http/handlers/auth/verify_email"
	deleteuser "accounts/internal/http/handlers/user/delete_user"
	"accounts/internal/http/handlers/user/events"
	"accounts/internal/http/handlers/user/me"
	sendverificationemail "accounts/internal/http/handlers/user/send_verification_email"
	updateuser "accounts/internal/http/handlers/user/update_user"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(deps *deps.Deps, s *services.Services) http.Handler {
	isTestMode := deps.Config.IsTestMode

	authRouter := chi.NewRouter()
	authRouter.Use(auth.SetAuthTokenToContext)
	authRouter.Method(http.MethodPost, "/register", signupwithemail.New(s.SignUpWithEmail, isTestMode))
	authRouter.Method(http.MethodPost, "/login", loginwithemail.New(s.LogInWithEmail))
	authRouter.Method(http.MethodPost, "/logout", logout.New(s.LogOut))
	authRouter.Method(http.MethodGet, "/verify", verifyemail.New(s.VerifyEmail))
	authRouter.Method(
		http.MethodPost,
		"/forgot-password",
		sendpasswordresettoken.New(s.SendPasswordResetToken, isTestMode),
	)
	authRouter.Method(http.MethodPut, "/reset-password", resetpassword.New(s.ResetPassword))

	profileRouter := chi.NewRouter()
	profileRouter.Use(auth.SetAuthTokenToContext)
	profileRouter.Method(http.MethodGet, "/me", me.New(s.GetUserBySessionToken))
	profileRouter.Method(http.MethodPatch, "/me", updateuser.New(s.UpdateUser))
	profileRouter.Method(http.MethodDelete, "/me", deleteuser.New(s.DeleteUser))
	profileRouter.Method(
		http.MethodPost,
		"/send-verification-email",
		sendverificationemail.New(s.SendVerificationEmail, isTestMode),
	)
	profileRouter.Method(
		http.MethodGet,
		"/events/{sessionToken}",
		events.New(deps.Logger, deps.SseServer, s.GetUserBySessionToken),
	)

	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"x-test-token"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/auth", authRouter)
	router.Mount("/profile", profileRouter)
	return router
}

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	return &http.Server{
		Handler:           NewRouter(deps, s),
		Addr:              fmt.Sprintf("0.0.0.0:%d", deps.Config.Port),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
