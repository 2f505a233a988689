package lichessauth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/kapu/chess-history-go/internal/httpfast"
	"github.com/kapu/chess-history-go/internal/obslog"
)

// State of the auth session. Failures inside Initialize always land on
// StateLoggedOut; callers surface StateFailed from the returned error in
// their own presentation layer.
type State string

const (
	StateLoggedOut State = "logged_out"
	StatePending   State = "pending"
	StateLoggedIn  State = "logged_in"
	StateFailed    State = "failed"
)

type Config struct {
	ClientID    string
	AuthURL     string
	TokenURL    string
	RedirectURL string
	AccountURL  string
	Scopes      []string
}

// Info is the caller-visible outcome of restoring a session.
type Info struct {
	LoggedIn bool
	Username string
}

// Session manages the Lichess PKCE authorization-code flow: login URL
// generation, code exchange after the redirect, token persistence, refresh
// and logout. One logical session per store; the mutex serializes access
// since the stored verifier is not multi-writer safe.
type Session struct {
	mu         sync.Mutex
	oauth      *oauth2.Config
	store      Store
	client     *httpfast.Client
	accountURL string

	state       State
	accessToken string
	username    string
}

func NewSession(cfg Config, store Store, client *httpfast.Client) *Session {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"challenge:read", "challenge:write"}
	}
	return &Session{
		oauth: &oauth2.Config{
			ClientID:    cfg.ClientID,
			RedirectURL: cfg.RedirectURL,
			Scopes:      scopes,
			Endpoint:    oauth2.Endpoint{AuthURL: cfg.AuthURL, TokenURL: cfg.TokenURL},
		},
		store:      store,
		client:     client,
		accountURL: cfg.AccountURL,
		state:      StateLoggedOut,
	}
}

// Login begins the authorization flow: it persists a fresh state nonce and
// PKCE verifier, then returns the URL the user must visit. Completion is
// observed on the next Initialize carrying the redirect query.
func (s *Session) Login(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	verifier := oauth2.GenerateVerifier()
	state := uuid.NewString()
	if err := s.store.SaveLogin(ctx, state, verifier); err != nil {
		return "", fmt.Errorf("persist login state: %w", err)
	}
	s.state = StatePending
	return s.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)), nil
}

// Initialize restores the session. When redirectQuery carries an
// authorization code the pending exchange is completed; otherwise a stored
// token is revived if still valid. Every failure degrades to logged-out —
// authentication is an upgrade, never a requirement for fetching.
func (s *Session) Initialize(ctx context.Context, redirectQuery url.Values) (Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StatePending

	if code := redirectQuery.Get("code"); code != "" {
		tok, err := s.exchangeLocked(ctx, code, redirectQuery.Get("state"))
		if err != nil {
			obslog.L().Warn("lichess oauth: code exchange failed", zap.Error(err))
			s.logoutLocked(ctx)
			return Info{}, err
		}
		return s.completeLocked(ctx, tok)
	}

	tok, err := s.store.LoadToken(ctx)
	if err != nil {
		obslog.L().Warn("lichess oauth: stored token load failed", zap.Error(err))
		s.state = StateLoggedOut
		return Info{}, err
	}
	if tok == nil || !tok.Valid() {
		s.state = StateLoggedOut
		return Info{}, nil
	}
	return s.completeLocked(ctx, tok)
}

func (s *Session) exchangeLocked(ctx context.Context, code, gotState string) (*oauth2.Token, error) {
	state, verifier, err := s.store.LoadLogin(ctx)
	if err != nil {
		return nil, fmt.Errorf("load login state: %w", err)
	}
	if verifier == "" {
		return nil, errors.New("no pending authorization")
	}
	if gotState == "" || gotState != state {
		return nil, errors.New("authorization state mismatch")
	}
	return s.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
}

func (s *Session) completeLocked(ctx context.Context, tok *oauth2.Token) (Info, error) {
	username, err := s.fetchUsername(ctx, tok.AccessToken)
	if err != nil {
		obslog.L().Warn("lichess oauth: account lookup failed", zap.Error(err))
		s.state = StateLoggedOut
		return Info{}, err
	}
	if err := s.store.SaveToken(ctx, tok); err != nil {
		obslog.L().Warn("lichess oauth: token persist failed", zap.Error(err))
	}
	s.accessToken = tok.AccessToken
	s.username = username
	s.state = StateLoggedIn
	return Info{LoggedIn: true, Username: username}, nil
}

type accountPayload struct {
	Username string `json:"username"`
	ID       string `json:"id"`
}

func (s *Session) fetchUsername(ctx context.Context, accessToken string) (string, error) {
	var acct accountPayload
	headers := map[string]string{"Authorization": "Bearer " + accessToken}
	if err := s.client.GetJSON(ctx, s.accountURL, headers, &acct); err != nil {
		return "", err
	}
	if acct.Username != "" {
		return acct.Username, nil
	}
	if acct.ID != "" {
		return acct.ID, nil
	}
	return "", errors.New("account response missing username")
}

// Refresh re-requests a token through the oauth client. A failed refresh
// forces a logout before returning the error.
func (s *Session) Refresh(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.store.LoadToken(ctx)
	if err == nil && tok == nil {
		err = errors.New("no stored token")
	}
	var fresh *oauth2.Token
	if err == nil {
		fresh, err = s.oauth.TokenSource(ctx, tok).Token()
	}
	if err != nil {
		s.logoutLocked(ctx)
		return "", err
	}
	if err := s.store.SaveToken(ctx, fresh); err != nil {
		obslog.L().Warn("lichess oauth: token persist failed", zap.Error(err))
	}
	s.accessToken = fresh.AccessToken
	s.state = StateLoggedIn
	return fresh.AccessToken, nil
}

// Logout clears the in-memory token and removes the durable state nonce,
// verifier and token entries. Idempotent.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logoutLocked(ctx)
}

func (s *Session) logoutLocked(ctx context.Context) {
	s.accessToken = ""
	s.username = ""
	s.state = StateLoggedOut
	if err := s.store.Clear(ctx); err != nil {
		obslog.L().Warn("lichess oauth: clearing stored session failed", zap.Error(err))
	}
}

func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) LoggedIn() bool { return s.State() == StateLoggedIn }
