package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/forkcast/forkcast/internal/config"
	"github.com/forkcast/forkcast/internal/logger"
	"github.com/forkcast/forkcast/internal/store"
)

const stateCookieName = "forkcast_oauth_state"

// ErrAdminDisabled is returned when no admin password is configured.
var ErrAdminDisabled = errors.New("admin access is not configured")

// Service encapsulates the OIDC login flow, bearer-token verification, and
// the admin password gate.
type Service struct {
	cfg       *config.Config
	log       *logger.Logger
	store     *store.Store
	sessions  *SessionManager
	verifier  *oidc.IDTokenVerifier
	oauth     *oauth2.Config
	adminHash []byte
	secure    bool
}

func NewService(ctx context.Context, cfg *config.Config, st *store.Store, sessions *SessionManager, log *logger.Logger) (*Service, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OAuth.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("discover oidc provider: %w", err)
	}

	svc := &Service{
		cfg:      cfg,
		log:      log,
		store:    st,
		sessions: sessions,
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.OAuth.ClientID}),
		oauth: &oauth2.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  strings.TrimRight(cfg.BaseURL, "/") + cfg.OAuth.RedirectPath,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		secure: strings.HasPrefix(cfg.BaseURL, "https://"),
	}

	if cfg.AdminPassword != "" {
		// Accept a pre-computed bcrypt hash in the environment; hash plain
		// values at startup so comparison is uniform either way.
		if strings.HasPrefix(cfg.AdminPassword, "$2a$") || strings.HasPrefix(cfg.AdminPassword, "$2b$") {
			svc.adminHash = []byte(cfg.AdminPassword)
		} else {
			hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("hash admin password: %w", err)
			}
			svc.adminHash = hash
		}
	}

	return svc, nil
}

// BeginOAuth starts the authorization code flow.
func (s *Service) BeginOAuth(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		http.Error(w, "failed to start login", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, s.oauth.AuthCodeURL(state), http.StatusFound)
}

// HandleOAuthCallback completes the code flow, upserts the user record, and
// starts a browser session.
func (s *Service) HandleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		http.Error(w, "state mismatch", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0)})

	token, err := s.oauth.Exchange(ctx, r.URL.Query().Get("code"))
	if err != nil {
		s.log.Warn("oauth code exchange failed", "error", err)
		http.Error(w, "code exchange failed", http.StatusBadGateway)
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		http.Error(w, "missing id_token", http.StatusBadGateway)
		return
	}

	idToken, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		s.log.Warn("id token verification failed", "error", err)
		http.Error(w, "invalid id token", http.StatusUnauthorized)
		return
	}

	if _, err := s.store.Users.Upsert(ctx, idToken.Subject); err != nil {
		s.log.Error("user upsert failed", "error", err, "subject", idToken.Subject)
		http.Error(w, "failed to record user", http.StatusInternalServerError)
		return
	}

	if err := s.sessions.Issue(w, idToken.Subject); err != nil {
		http.Error(w, "failed to start session", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout clears the session cookie.
func (s *Service) Logout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// RequireUser authenticates the request via a bearer token or session cookie
// and attaches the subject to the context. Unauthenticated requests get a
// 401 JSON envelope.
func (s *Service) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.authenticate(r)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func (s *Service) authenticate(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		raw := strings.TrimPrefix(header, "Bearer ")
		idToken, err := s.verifier.Verify(r.Context(), raw)
		if err != nil {
			s.log.Debug("bearer token rejected", "error", err)
			return "", false
		}
		return idToken.Subject, true
	}

	return s.sessions.CurrentUserID(r)
}

// VerifyAdminPassword checks the supplied password against the configured
// admin credential.
func (s *Service) VerifyAdminPassword(password string) error {
	if len(s.adminHash) == 0 {
		return ErrAdminDisabled
	}
	if password == "" {
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return bcrypt.CompareHashAndPassword(s.adminHash, []byte(password))
}

func randomState() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
