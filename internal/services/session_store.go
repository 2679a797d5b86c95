package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/RxPortal-2025/member-portal/internal/events"
	"github.com/RxPortal-2025/member-portal/internal/models"
	"github.com/RxPortal-2025/member-portal/internal/repositories"
)

type sessionSubscriber struct {
	id int
	fn func(SessionSnapshot)
}

type sessionStore struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger

	mu          sync.Mutex
	state       SessionState
	account     *models.Account
	accessToken string

	subscribers []sessionSubscriber
	nextSubID   int
}

// NewSessionStore creates a session store in the uninitialized state.
func NewSessionStore(repo repositories.Repository, eventPublisher events.EventPublisher, logger *slog.Logger) SessionStore {
	return &sessionStore{
		repo:           repo,
		eventPublisher: eventPublisher,
		logger:         logger,
		state:          SessionUninitialized,
	}
}

// ===== SESSION OPERATIONS =====

func (s *sessionStore) SignIn(ctx context.Context, email, password string) error {
	s.transition(func() {
		s.state = SessionLoading
		s.account = nil
		s.accessToken = ""
	})

	identity, err := s.repo.Identity().SignIn(ctx, email, password)
	if err != nil {
		s.transition(func() {
			s.state = SessionUnauthenticated
		})
		s.logger.WarnContext(ctx, "sign-in rejected by identity provider", "email", email)
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	account, err := s.repo.Account().GetByEmail(ctx, identity.Email)
	if err != nil {
		// The identity authenticated but carries no subscriber account.
		// Revoke the provider session so nothing half-authenticated
		// survives, then report the lookup failure.
		if revokeErr := s.repo.Identity().SignOut(ctx, identity.AccessToken); revokeErr != nil {
			s.logger.ErrorContext(ctx, "failed to revoke orphaned session", "error", revokeErr)
		}
		s.transition(func() {
			s.state = SessionUnauthenticated
		})

		if repositories.IsNotFoundError(err) {
			s.logger.WarnContext(ctx, "authenticated identity has no account", "email", identity.Email)
			return fmt.Errorf("%w: no account for %s", ErrAccountLookupFailed, identity.Email)
		}
		return fmt.Errorf("%w: %v", ErrAccountLookupFailed, err)
	}

	s.transition(func() {
		s.state = SessionAuthenticated
		s.account = account
		s.accessToken = identity.AccessToken
	})

	s.publish(ctx, events.EventSessionSignedIn, map[string]interface{}{
		"account_id": account.ID,
		"email":      account.Email,
	})
	s.logger.InfoContext(ctx, "session established", "account_id", account.ID)

	return nil
}

func (s *sessionStore) SignOut(ctx context.Context) error {
	s.mu.Lock()
	account := s.account
	token := s.accessToken
	s.mu.Unlock()

	// Local teardown happens first; the caller is signed out regardless of
	// what the provider says
	s.transition(func() {
		s.state = SessionUnauthenticated
		s.account = nil
		s.accessToken = ""
	})

	if token != "" {
		if err := s.repo.Identity().SignOut(ctx, token); err != nil {
			s.logger.WarnContext(ctx, "remote sign-out failed", "error", err)
		}
	}

	if account != nil {
		s.publish(ctx, events.EventSessionSignedOut, map[string]interface{}{
			"account_id": account.ID,
		})
		s.logger.InfoContext(ctx, "session ended", "account_id", account.ID)
	}

	return nil
}

func (s *sessionStore) CurrentAccount() *models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

func (s *sessionStore) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *sessionStore) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// ===== SUBSCRIPTIONS =====

func (s *sessionStore) Subscribe(fn func(SessionSnapshot)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers = append(s.subscribers, sessionSubscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// transition applies a state mutation and notifies subscribers before
// returning. The mutation runs under the lock; callbacks run after release
// on the same goroutine, so every subscriber observes the change before the
// triggering operation completes.
func (s *sessionStore) transition(mutate func()) {
	s.mu.Lock()
	mutate()
	snapshot := SessionSnapshot{State: s.state, Account: s.account}
	subs := make([]sessionSubscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(snapshot)
	}
}

func (s *sessionStore) publish(ctx context.Context, eventType string, data interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.WarnContext(ctx, "event publish failed", "event_type", eventType, "error", err)
	}
}
