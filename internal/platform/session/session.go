package session

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/medsyn/console/internal/config"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// Session tracks the signed-in state on top of a Store. Keys are namespaced
// per environment so a dev and a prod session can coexist in one store.
// Watchers observe every authenticated/unauthenticated transition.
type Session struct {
	store Store
	keys  config.StorageKeys

	mu       sync.Mutex
	watchers []chan bool
}

func New(store Store, keys config.StorageKeys) *Session {
	return &Session{store: store, keys: keys}
}

// SetAuth stores the token pair and the profile of the signed-in user, then
// notifies watchers. Nothing is written if the profile cannot be encoded.
func (s *Session) SetAuth(token, refreshToken string, profile any) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	if err := s.store.Set(s.keys.Token, token); err != nil {
		return err
	}
	if err := s.store.Set(s.keys.RefreshToken, refreshToken); err != nil {
		return err
	}
	if err := s.store.Set(s.keys.UserProfile, string(raw)); err != nil {
		return err
	}
	s.notify(true)
	return nil
}

// Clear removes all stored credentials and notifies watchers. Used on logout
// and on a 401 from any endpoint.
func (s *Session) Clear() error {
	if err := s.store.Delete(s.keys.Token); err != nil {
		return err
	}
	if err := s.store.Delete(s.keys.RefreshToken); err != nil {
		return err
	}
	if err := s.store.Delete(s.keys.UserProfile); err != nil {
		return err
	}
	s.notify(false)
	return nil
}

// Token returns the stored access token, empty when signed out. Satisfies
// the gateway's TokenSource.
func (s *Session) Token() string {
	token, _ := s.store.Get(s.keys.Token)
	return token
}

// RefreshToken returns the stored refresh token, empty when signed out.
func (s *Session) RefreshToken() string {
	token, _ := s.store.Get(s.keys.RefreshToken)
	return token
}

// IsAuthenticated reports whether a token is stored and not past its expiry.
// The signature is not verified here; the backend rejects forged tokens, the
// console only needs to know whether presenting the token is worthwhile.
func (s *Session) IsAuthenticated() bool {
	token := s.Token()
	if token == "" {
		return false
	}
	expiry, err := tokenExpiry(token)
	if err != nil {
		// Opaque tokens have no readable expiry; let the backend decide.
		return true
	}
	return time.Now().Before(expiry)
}

// CurrentUser decodes the stored profile into out.
func (s *Session) CurrentUser(out any) error {
	raw, ok := s.store.Get(s.keys.UserProfile)
	if !ok || raw == "" {
		return ErrNotAuthenticated
	}
	return json.Unmarshal([]byte(raw), out)
}

// Watch returns a channel primed with the current authenticated state that
// receives every subsequent transition. The channel is buffered; a slow
// reader drops intermediate transitions rather than blocking a login.
func (s *Session) Watch() <-chan bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan bool, 1)
	ch <- s.IsAuthenticated()
	s.watchers = append(s.watchers, ch)
	return ch
}

func (s *Session) notify(authenticated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.watchers {
		select {
		case ch <- authenticated:
		default:
			// Replace the stale pending value so the watcher always sees
			// the latest state.
			select {
			case <-ch:
			default:
			}
			ch <- authenticated
		}
	}
}

func tokenExpiry(token string) (time.Time, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, err
	}
	expiry, err := parsed.Claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, errors.New("token has no expiry claim")
	}
	return expiry.Time, nil
}
