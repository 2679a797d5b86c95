package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/RxPortal-2025/member-portal/internal/events"
	"github.com/RxPortal-2025/member-portal/internal/repositories"
	"github.com/RxPortal-2025/member-portal/internal/validator"
)

// Registry hands one orchestrator per signed-in account to the HTTP layer.
type Registry struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator

	mu            sync.RWMutex
	orchestrators map[string]*Orchestrator
}

func NewRegistry(repo repositories.Repository, eventPublisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) *Registry {
	return &Registry{
		repo:           repo,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      v,
		orchestrators:  make(map[string]*Orchestrator),
	}
}

// NewOrchestrator creates a fresh, initialized orchestrator not yet bound to
// an account. Used for sign-in, where the account is unknown until the
// session resolves.
func (r *Registry) NewOrchestrator(ctx context.Context) *Orchestrator {
	o := NewOrchestrator(r.repo, r.eventPublisher, r.logger, r.validator)
	o.Init(ctx)
	return o
}

// Bind registers the orchestrator under its resolved account id, disposing
// any previous instance for the same account.
func (r *Registry) Bind(accountID string, o *Orchestrator) {
	r.mu.Lock()
	prev := r.orchestrators[accountID]
	r.orchestrators[accountID] = o
	r.mu.Unlock()

	if prev != nil && prev != o {
		prev.Dispose()
	}
}

// Get returns the orchestrator for an account, or nil.
func (r *Registry) Get(accountID string) *Orchestrator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.orchestrators[accountID]
}

// Release disposes and removes the orchestrator for an account.
func (r *Registry) Release(accountID string) {
	r.mu.Lock()
	o := r.orchestrators[accountID]
	delete(r.orchestrators, accountID)
	r.mu.Unlock()

	if o != nil {
		o.Dispose()
	}
}

// Shutdown disposes every live orchestrator.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	orchestrators := r.orchestrators
	r.orchestrators = make(map[string]*Orchestrator)
	r.mu.Unlock()

	for _, o := range orchestrators {
		o.Dispose()
	}
}
