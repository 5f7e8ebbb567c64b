package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	sharedauth "github.com/Nirnoy12/covercraft-ai-tools/internal/shared/auth"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/server/middleware"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/server/respond"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/telemetry"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/users"
)

// TokenSigner issues session tokens the auth middleware accepts.
type TokenSigner interface {
	Sign(id sharedauth.Identity) (string, error)
}

// ProfileRecorder stores the profile of a freshly signed-in user.
type ProfileRecorder interface {
	UpsertFromAuth(ctx context.Context, user users.User) error
}

// GoogleService handles Google OAuth flows.
type GoogleService struct {
	oauthConfig  *oauth2.Config
	uiRedirect   string
	stateTTL     time.Duration
	sessionTTL   time.Duration
	states       StateStore
	signer       TokenSigner
	profiles     ProfileRecorder
	secureCookie bool
	userInfoURL  string
}

// GoogleOptions configures NewGoogleService.
type GoogleOptions struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	UIRedirect   string
	States       StateStore
	Signer       TokenSigner
	Profiles     ProfileRecorder
	SecureCookie bool
}

// NewGoogleService builds a GoogleService.
func NewGoogleService(opts GoogleOptions) *GoogleService {
	states := opts.States
	if states == nil {
		states = NewMemoryStateStore()
	}
	return &GoogleService{
		oauthConfig: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		uiRedirect:   opts.UIRedirect,
		stateTTL:     5 * time.Minute,
		sessionTTL:   24 * time.Hour,
		states:       states,
		signer:       opts.Signer,
		profiles:     opts.Profiles,
		secureCookie: opts.SecureCookie,
		userInfoURL:  "https://www.googleapis.com/oauth2/v2/userinfo",
	}
}

// Configured reports whether the Google sign-in entry can be offered.
func (s *GoogleService) Configured() bool {
	return s != nil && s.signer != nil &&
		s.oauthConfig.ClientID != "" && s.oauthConfig.ClientSecret != "" && s.oauthConfig.RedirectURL != ""
}

// RegisterRoutes attaches Google auth routes.
func (s *GoogleService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", s.start)
	rg.GET("/auth/google/callback", s.callback)
}

func (s *GoogleService) start(c *gin.Context) {
	if !s.Configured() {
		respond.Error(c, http.StatusServiceUnavailable, "auth_not_configured", "Google sign-in is not configured", "", nil)
		return
	}

	state := uuid.NewString()
	if err := s.states.Put(c.Request.Context(), state, s.stateTTL); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start sign-in", "", err)
		return
	}

	c.Redirect(http.StatusFound, s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline))
}

func (s *GoogleService) callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", "", nil)
		return
	}

	ctx := c.Request.Context()
	ok, err := s.states.Consume(ctx, state)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to verify state", "", err)
		return
	}
	if !ok {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", "", nil)
		return
	}

	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "failed to exchange code", "", err)
		return
	}

	info, err := s.fetchUserInfo(ctx, s.oauthConfig.Client(ctx, token))
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "auth_failed", "failed to fetch user profile", "", err)
		return
	}
	if info.Sub == "" {
		respond.Error(c, http.StatusBadGateway, "auth_failed", "invalid user profile", "", nil)
		return
	}

	id := sharedauth.Identity{
		Subject: "google:" + info.Sub,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}
	if s.profiles != nil {
		if err := s.profiles.UpsertFromAuth(ctx, users.User{ID: id.Subject, Email: id.Email, Name: id.Name, Picture: id.Picture}); err != nil {
			telemetry.Warn("auth.profile_upsert_failed", map[string]any{"user_id": id.Subject, "error": err.Error()})
		}
	}

	session, err := s.signer.Sign(id)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", "", err)
		return
	}
	s.SetSession(c, session)

	redirectURL, err := redirectWithToken(s.uiRedirect, session)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to redirect", "", err)
		return
	}
	c.Redirect(http.StatusFound, redirectURL)
}

// SetSession stores the session token in an HTTP-only cookie.
func (s *GoogleService) SetSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(s.sessionTTL.Seconds()), "/", "", s.secureCookie, true)
}

type googleUserInfo struct {
	Sub     string `json:"sub"`
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (s *GoogleService) fetchUserInfo(ctx context.Context, client *http.Client) (googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return googleUserInfo{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, err
	}

	// The v2 endpoint returns "id" rather than "sub".
	if info.Sub == "" {
		info.Sub = info.ID
	}
	return info, nil
}

// redirectWithToken appends the token only for absolute redirects, where the
// session cookie would not reach the UI origin.
func redirectWithToken(rawURL, token string) (string, error) {
	if rawURL == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if !u.IsAbs() {
		return u.String(), nil
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
