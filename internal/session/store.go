package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sandyadmin/internal/model"
)

// Storage keys for persisted session state.
const (
	keyToken = "token"
	keyUser  = "user"
)

// KV is the device-local persisted storage the store writes to. The store is
// its single writer.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// API is the slice of the remote client the store needs.
type API interface {
	SetToken(token string)
	GetCurrentUser(ctx context.Context) (*model.Profile, error)
}

// Store owns the token/profile pair: it is the only component that writes
// session state, persisted or in-memory. OnAuthenticated, if set, runs after
// a successful sign-in or a successful restore (never on sign-out), which is
// where the push permission flow hangs off.
type Store struct {
	kv  KV
	api API

	// OnAuthenticated is invoked with the new session after authentication
	// is established. Failures inside it must not affect the session.
	OnAuthenticated func(ctx context.Context, s model.Session)

	mu      sync.RWMutex
	current model.Session
}

func NewStore(kv KV, api API) *Store {
	return &Store{kv: kv, api: api}
}

// Current returns the session as last established.
func (s *Store) Current() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Restore re-establishes the session from persisted state at boot.
//
// Any failure (missing token, expired token, rejected token, network error)
// degrades to signed-out: persisted state is cleared and an unauthenticated
// session is returned. Restore never returns an error to its caller.
func (s *Store) Restore(ctx context.Context) model.Session {
	raw, err := s.kv.Get(ctx, keyToken)
	if errors.Is(err, model.ErrKeyNotFound) {
		return s.setUnauthenticated()
	}
	if err != nil || len(raw) == 0 {
		// A token that exists but cannot be read (unseal failure after a
		// key change, corrupt row) would otherwise survive every launch.
		log.Printf("[Session] Restore: stored token unreadable, clearing: %v", err)
		s.clearPersisted(ctx)
		return s.setUnauthenticated()
	}
	token := string(raw)

	// Cheap local pre-check: if the token carries an exp claim already in
	// the past, skip the doomed network call. Opaque or claimless tokens
	// fall through to the backend.
	if expired(token) {
		log.Printf("[Session] Restore: stored token expired, clearing")
		s.clearPersisted(ctx)
		return s.setUnauthenticated()
	}

	s.api.SetToken(token)
	profile, err := s.api.GetCurrentUser(ctx)
	if err != nil {
		log.Printf("[Session] Restore: current-user lookup failed, clearing: %v", err)
		s.clearPersisted(ctx)
		return s.setUnauthenticated()
	}

	s.persistProfile(ctx, profile)

	next := model.Session{Token: token, User: profile}
	s.set(next)
	log.Printf("[Session] Restore OK: user=%s role=%s", profile.Email, profile.Role)

	if s.OnAuthenticated != nil {
		s.OnAuthenticated(ctx, next)
	}
	return next
}

// SignIn persists the token, then fetches and persists the profile.
//
// The token is persisted before the profile fetch because the fetch itself
// authenticates with it. If the profile fetch fails the token stays
// persisted and an AuthError is returned; the next Restore refills the
// profile lazily (or clears everything if the token turns out to be bad).
func (s *Store) SignIn(ctx context.Context, token string) (model.Session, error) {
	if err := s.kv.Set(ctx, keyToken, []byte(token)); err != nil {
		return s.Current(), &model.AuthError{Op: "login", Err: err}
	}
	s.api.SetToken(token)

	profile, err := s.api.GetCurrentUser(ctx)
	if err != nil {
		partial := model.Session{Token: token}
		s.set(partial)
		return partial, &model.AuthError{Op: "profile", Err: err}
	}

	s.persistProfile(ctx, profile)

	next := model.Session{Token: token, User: profile}
	s.set(next)
	log.Printf("[Session] SignIn OK: user=%s", profile.Email)

	if s.OnAuthenticated != nil {
		s.OnAuthenticated(ctx, next)
	}
	return next, nil
}

// SignOut clears persisted token and profile unconditionally. Storage errors
// are logged, never surfaced; the returned session is always signed out.
func (s *Store) SignOut(ctx context.Context) model.Session {
	log.Printf("[Session] SignOut")
	s.clearPersisted(ctx)
	return s.setUnauthenticated()
}

func (s *Store) set(next model.Session) {
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
}

func (s *Store) setUnauthenticated() model.Session {
	s.api.SetToken("")
	next := model.Session{}
	s.set(next)
	return next
}

func (s *Store) clearPersisted(ctx context.Context) {
	if err := s.kv.Delete(ctx, keyToken); err != nil {
		log.Printf("[Session] clear token: %v", err)
	}
	if err := s.kv.Delete(ctx, keyUser); err != nil {
		log.Printf("[Session] clear user: %v", err)
	}
}

func (s *Store) persistProfile(ctx context.Context, profile *model.Profile) {
	data, err := json.Marshal(profile)
	if err != nil {
		log.Printf("[Session] marshal profile: %v", err)
		return
	}
	if err := s.kv.Set(ctx, keyUser, data); err != nil {
		log.Printf("[Session] persist profile: %v", err)
	}
}

// expired reports whether token is a JWT with an exp claim in the past. The
// claims are read without signature verification; only the backend can truly
// validate the token, this just avoids an obviously wasted round trip.
func expired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
