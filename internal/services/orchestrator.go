package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/RxPortal-2025/member-portal/internal/events"
	"github.com/RxPortal-2025/member-portal/internal/repositories"
	"github.com/RxPortal-2025/member-portal/internal/validator"
)

// Orchestrator composes the session store, profile directory and
// personalization store and wires their reactions: session changes drive
// directory loads, profile activation drives personalization loads. Every
// instance is independent; many can coexist.
type Orchestrator struct {
	Session         SessionStore
	Directory       ProfileDirectory
	Personalization PersonalizationStore

	logger *slog.Logger

	mu            sync.Mutex
	initialized   bool
	unsubscribe   []func()
	lastProfileID string
}

// NewOrchestrator builds an orchestrator over the given dependencies. Call
// Init before use and Dispose when done.
func NewOrchestrator(repo repositories.Repository, eventPublisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) *Orchestrator {
	session := NewSessionStore(repo, eventPublisher, logger)
	directory := NewProfileDirectory(repo, session, eventPublisher, logger, v)
	personalization := NewPersonalizationStore(repo, eventPublisher, logger, v)

	return &Orchestrator{
		Session:         session,
		Directory:       directory,
		Personalization: personalization,
		logger:          logger,
	}
}

// Init wires the subscriptions. Safe to call once per instance.
func (o *Orchestrator) Init(ctx context.Context) {
	o.mu.Lock()
	if o.initialized {
		o.mu.Unlock()
		return
	}
	o.initialized = true
	o.mu.Unlock()

	// The subscriptions outlive the call that wired them. Detach from the
	// caller's cancellation so a profile switch long after sign-in does not
	// run its loads under the sign-in request's dead context.
	ctx = context.WithoutCancel(ctx)

	unsubSession := o.Session.Subscribe(func(snap SessionSnapshot) {
		switch snap.State {
		case SessionAuthenticated:
			if err := o.Directory.FetchProfiles(ctx); err != nil {
				o.logger.Warn("profile fetch after sign-in failed", "error", err)
			}
		case SessionUnauthenticated:
			o.Directory.Reset()
			o.Personalization.Clear()
		}
	})

	unsubDirectory := o.Directory.Subscribe(func(snap DirectorySnapshot) {
		activeID := ""
		if snap.ActiveProfile != nil {
			activeID = snap.ActiveProfile.ID
		}

		o.mu.Lock()
		changed := activeID != o.lastProfileID
		o.lastProfileID = activeID
		o.mu.Unlock()

		if !changed {
			return
		}

		// New active profile: drop the old profile's collections before
		// anything can read them, then load fresh
		o.Personalization.Clear()
		if activeID != "" {
			o.Personalization.LoadForProfile(ctx, activeID)
		}
	})

	o.mu.Lock()
	o.unsubscribe = []func(){unsubSession, unsubDirectory}
	o.mu.Unlock()
}

// Dispose removes the subscriptions. The component stores remain readable
// but no longer react to each other.
func (o *Orchestrator) Dispose() {
	o.mu.Lock()
	unsubs := o.unsubscribe
	o.unsubscribe = nil
	o.initialized = false
	o.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}

// GateState computes the current gate signal from live component state.
func (o *Orchestrator) GateState() GateState {
	return ComputeGateState(GateInputs{
		Session:      o.Session.State(),
		Directory:    o.Directory.State(),
		ProfileCount: len(o.Directory.Profiles()),
		HasSelection: o.Directory.ActiveProfile() != nil,
	})
}

// View assembles the session read model handlers return.
func (o *Orchestrator) View() SessionView {
	return SessionView{
		Gate:          o.GateState(),
		Account:       o.Session.CurrentAccount(),
		Profiles:      o.Directory.Profiles(),
		ActiveProfile: o.Directory.ActiveProfile(),
	}
}
