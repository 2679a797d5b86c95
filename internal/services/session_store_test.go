package services

import (
	"context"
	"errors"
	"testing"

	"github.com/RxPortal-2025/member-portal/internal/events"
	"github.com/RxPortal-2025/member-portal/internal/models"
	"github.com/RxPortal-2025/member-portal/internal/repositories"
)

func TestSessionStore_SignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("successful sign-in resolves the account", func(t *testing.T) {
		repo := newMockRepository()
		repo.identity.signInFn = func(ctx context.Context, email, password string) (*repositories.Identity, error) {
			return &repositories.Identity{ID: "acc-1", Email: email, AccessToken: "tok-abc"}, nil
		}
		repo.account.getByEmailFn = func(ctx context.Context, email string) (*models.Account, error) {
			return &models.Account{ID: "acc-1", Email: email}, nil
		}
		publisher := events.NewMockEventPublisher(testLogger())

		store := NewSessionStore(repo, publisher, testLogger())

		if err := store.SignIn(ctx, "owner@rx.example", "secret"); err != nil {
			t.Fatalf("SignIn() = %v, want nil", err)
		}

		if store.State() != SessionAuthenticated {
			t.Errorf("State() = %q, want %q", store.State(), SessionAuthenticated)
		}
		if account := store.CurrentAccount(); account == nil || account.ID != "acc-1" {
			t.Errorf("CurrentAccount() = %+v, want acc-1", account)
		}
		if store.AccessToken() != "tok-abc" {
			t.Errorf("AccessToken() = %q, want tok-abc", store.AccessToken())
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventSessionSignedIn {
			t.Errorf("published events = %v, want one %s", published, events.EventSessionSignedIn)
		}
	})

	t.Run("rejected credentials leave the session unauthenticated", func(t *testing.T) {
		repo := newMockRepository()
		repo.identity.signInFn = func(ctx context.Context, email, password string) (*repositories.Identity, error) {
			return nil, errors.New("bad password")
		}
		store := NewSessionStore(repo, events.NewMockEventPublisher(testLogger()), testLogger())

		err := store.SignIn(ctx, "owner@rx.example", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("SignIn() = %v, want ErrInvalidCredentials", err)
		}
		if store.State() != SessionUnauthenticated {
			t.Errorf("State() = %q, want %q", store.State(), SessionUnauthenticated)
		}
		if store.CurrentAccount() != nil {
			t.Error("CurrentAccount() should be nil after rejected sign-in")
		}
	})

	t.Run("missing account revokes the provider session", func(t *testing.T) {
		repo := newMockRepository()
		repo.identity.signInFn = func(ctx context.Context, email, password string) (*repositories.Identity, error) {
			return &repositories.Identity{ID: "ghost", Email: email, AccessToken: "tok-ghost"}, nil
		}
		// account.getByEmailFn left nil: lookup returns not-found

		store := NewSessionStore(repo, events.NewMockEventPublisher(testLogger()), testLogger())

		err := store.SignIn(ctx, "ghost@rx.example", "secret")
		if !errors.Is(err, ErrAccountLookupFailed) {
			t.Fatalf("SignIn() = %v, want ErrAccountLookupFailed", err)
		}
		if store.State() != SessionUnauthenticated {
			t.Errorf("State() = %q, want %q", store.State(), SessionUnauthenticated)
		}

		// Nothing half-authenticated may survive on the provider side
		if len(repo.identity.signOutCalls) != 1 || repo.identity.signOutCalls[0] != "tok-ghost" {
			t.Errorf("signOutCalls = %v, want [tok-ghost]", repo.identity.signOutCalls)
		}
	})
}

func TestSessionStore_SignOut(t *testing.T) {
	ctx := context.Background()

	repo := newMockRepository()
	repo.account.getByEmailFn = func(ctx context.Context, email string) (*models.Account, error) {
		return &models.Account{ID: "acc-1", Email: email}, nil
	}
	publisher := events.NewMockEventPublisher(testLogger())
	store := NewSessionStore(repo, publisher, testLogger())

	if err := store.SignIn(ctx, "owner@rx.example", "secret"); err != nil {
		t.Fatalf("SignIn() = %v", err)
	}
	publisher.ClearEvents()

	// Remote revocation failure must not surface
	repo.identity.signOutFn = func(ctx context.Context, accessToken string) error {
		return errors.New("provider unreachable")
	}

	if err := store.SignOut(ctx); err != nil {
		t.Fatalf("SignOut() = %v, want nil", err)
	}

	if store.State() != SessionUnauthenticated {
		t.Errorf("State() = %q, want %q", store.State(), SessionUnauthenticated)
	}
	if store.CurrentAccount() != nil {
		t.Error("CurrentAccount() should be nil after sign-out")
	}
	if store.AccessToken() != "" {
		t.Error("AccessToken() should be empty after sign-out")
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventSessionSignedOut {
		t.Errorf("published events = %v, want one %s", published, events.EventSessionSignedOut)
	}
}

func TestSessionStore_Subscribers(t *testing.T) {
	ctx := context.Background()

	repo := newMockRepository()
	repo.account.getByEmailFn = func(ctx context.Context, email string) (*models.Account, error) {
		return &models.Account{ID: "acc-1", Email: email}, nil
	}
	store := NewSessionStore(repo, events.NewMockEventPublisher(testLogger()), testLogger())

	var first, second []SessionState
	store.Subscribe(func(snap SessionSnapshot) { first = append(first, snap.State) })
	unsub := store.Subscribe(func(snap SessionSnapshot) { second = append(second, snap.State) })

	if err := store.SignIn(ctx, "owner@rx.example", "secret"); err != nil {
		t.Fatalf("SignIn() = %v", err)
	}

	// Subscribers see the loading transition then the authenticated one,
	// synchronously, before SignIn returns
	want := []SessionState{SessionLoading, SessionAuthenticated}
	if len(first) != len(want) || first[0] != want[0] || first[1] != want[1] {
		t.Errorf("first subscriber saw %v, want %v", first, want)
	}
	if len(second) != len(want) {
		t.Errorf("second subscriber saw %v, want %v", second, want)
	}

	unsub()
	if err := store.SignOut(ctx); err != nil {
		t.Fatalf("SignOut() = %v", err)
	}

	if len(second) != len(want) {
		t.Errorf("unsubscribed listener was still notified: %v", second)
	}
	if first[len(first)-1] != SessionUnauthenticated {
		t.Errorf("remaining subscriber missed sign-out, saw %v", first)
	}
}
