// Package httpapi exposes the account lifecycle service over HTTP. It is a
// thin collaborator: JSON decoding, bearer-token identity and status mapping
// live here; all invariants live in the service layer.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
)

// AccountLifecycle is the service surface consumed by transport.
// *services.AccountService satisfies it.
type AccountLifecycle interface {
	Register(ctx context.Context, username, email, password string) (*models.AccountView, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, accountID string) error
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
	Update(ctx context.Context, id string, upd *services.AccountUpdate) (*models.AccountView, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.AccountView, error)
	List(ctx context.Context, page, limit int) (*services.AccountPage, error)
}

type Server struct {
	address  string
	logger   logging.Logger
	accounts AccountLifecycle
	issuer   *auth.Issuer
}

func NewServer(address string, logger logging.Logger, accounts AccountLifecycle, issuer *auth.Issuer) *Server {
	return &Server{
		address:  address,
		logger:   logger.With("module", "httpapi"),
		accounts: accounts,
		issuer:   issuer,
	}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Route("/auth", func(a chi.Router) {
			a.Post("/register", s.handleRegister)
			a.Post("/login", s.handleLogin)
			a.Post("/refresh", s.handleRefresh)
			a.Post("/reset-password", s.handleResetPassword)

			a.Group(func(authed chi.Router) {
				authed.Use(s.authenticate)
				authed.Post("/logout", s.handleLogout)
				authed.Get("/me", s.handleMe)
			})
		})

		v1.Route("/accounts", func(a chi.Router) {
			a.Use(s.authenticate)
			a.Use(s.adminOnly)
			a.Get("/", s.handleListAccounts)
			a.Get("/{id}", s.handleGetAccount)
			a.Patch("/{id}", s.handleUpdateAccount)
			a.Delete("/{id}", s.handleDeleteAccount)
		})
	})

	return r
}

// Run starts the HTTP server and shuts it down gracefully when ctx is done.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.address,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
