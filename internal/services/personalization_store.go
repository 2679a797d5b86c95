package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/RxPortal-2025/member-portal/internal/events"
	"github.com/RxPortal-2025/member-portal/internal/models"
	"github.com/RxPortal-2025/member-portal/internal/repositories"
	"github.com/RxPortal-2025/member-portal/internal/validator"
)

type personalizationStore struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator

	mu        sync.Mutex
	profileID string

	bookmarks      []*models.Bookmark
	bookmarkStatus CollectionStatus

	progress       []*models.TrainingProgress
	progressStatus CollectionStatus
}

// NewPersonalizationStore creates an empty store with both collections in
// the loading state.
func NewPersonalizationStore(repo repositories.Repository, eventPublisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) PersonalizationStore {
	return &personalizationStore{
		repo:           repo,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      v,
		bookmarkStatus: CollectionLoading,
		progressStatus: CollectionLoading,
	}
}

// ===== LOADING =====

func (p *personalizationStore) LoadForProfile(ctx context.Context, profileID string) {
	p.mu.Lock()
	p.profileID = profileID
	p.bookmarks = nil
	p.bookmarkStatus = CollectionLoading
	p.progress = nil
	p.progressStatus = CollectionLoading
	p.mu.Unlock()

	p.loadBookmarks(ctx, profileID)
	p.loadProgress(ctx, profileID)
}

func (p *personalizationStore) loadBookmarks(ctx context.Context, profileID string) {
	bookmarks, err := p.repo.Bookmark().ListByProfile(ctx, nil, profileID, repositories.BookmarkFilters{})

	p.mu.Lock()
	defer p.mu.Unlock()

	// The profile may have changed while the query ran; a late result for
	// a superseded profile must never land in the current collection
	if p.profileID != profileID {
		return
	}

	if err != nil {
		p.logger.Error("bookmark load failed", "profile_id", profileID, "error", err)
		p.bookmarkStatus = CollectionError
		return
	}
	p.bookmarks = bookmarks
	p.bookmarkStatus = CollectionLoaded
}

func (p *personalizationStore) loadProgress(ctx context.Context, profileID string) {
	progress, err := p.repo.TrainingProgress().ListByProfile(ctx, nil, profileID, repositories.ProgressFilters{})

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.profileID != profileID {
		return
	}

	if err != nil {
		p.logger.Error("training progress load failed", "profile_id", profileID, "error", err)
		p.progressStatus = CollectionError
		return
	}
	p.progress = progress
	p.progressStatus = CollectionLoaded
}

// ===== MUTATIONS =====

func (p *personalizationStore) ToggleBookmark(ctx context.Context, resourceID string) error {
	p.mu.Lock()
	profileID := p.profileID
	p.mu.Unlock()

	if profileID == "" {
		return ErrNoActiveProfile
	}

	var removed *models.Bookmark
	var removedIdx int
	added := &models.Bookmark{ProfileID: profileID, ResourceID: resourceID}

	mutation := OptimisticMutation{
		Apply: func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			for i, b := range p.bookmarks {
				if b.ResourceID == resourceID {
					removed, removedIdx = b, i
					p.bookmarks = append(p.bookmarks[:i], p.bookmarks[i+1:]...)
					return
				}
			}
			p.bookmarks = append(p.bookmarks, added)
		},
		Revert: func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if p.profileID != profileID {
				return
			}
			if removed != nil {
				// Reinsert at the original position
				p.bookmarks = append(p.bookmarks[:removedIdx], append([]*models.Bookmark{removed}, p.bookmarks[removedIdx:]...)...)
				return
			}
			for i, b := range p.bookmarks {
				if b == added {
					p.bookmarks = append(p.bookmarks[:i], p.bookmarks[i+1:]...)
					return
				}
			}
		},
		Remote: func(ctx context.Context) error {
			if removed != nil {
				return p.repo.Bookmark().DeleteByProfileAndResource(ctx, nil, profileID, resourceID)
			}
			return p.repo.Bookmark().Create(ctx, nil, added)
		},
	}

	if err := mutation.Run(ctx); err != nil {
		return fmt.Errorf("toggle bookmark: %w", err)
	}

	p.publish(ctx, events.EventBookmarkToggled, map[string]interface{}{
		"profile_id":  profileID,
		"resource_id": resourceID,
		"bookmarked":  removed == nil,
	})

	return nil
}

func (p *personalizationStore) UpsertTrainingProgress(ctx context.Context, req *TrainingProgressRequest) error {
	p.mu.Lock()
	profileID := p.profileID
	p.mu.Unlock()

	if profileID == "" {
		return ErrNoActiveProfile
	}

	if errs := p.validator.Validate(req); errs != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, errs)
	}

	record := &models.TrainingProgress{
		ProfileID:       profileID,
		ModuleID:        req.ModuleID,
		PositionSeconds: req.PositionSeconds,
		PercentComplete: req.PercentComplete,
		Completed:       req.Completed,
		Score:           req.Score,
	}

	// Optimistic local patch, no rollback: progress is best-effort and the
	// row store clamps it monotonic anyway
	p.mu.Lock()
	if p.profileID == profileID {
		patched := false
		for i, existing := range p.progress {
			if existing.ModuleID == req.ModuleID {
				merged := *existing
				merged.PositionSeconds = req.PositionSeconds
				if req.PercentComplete > merged.PercentComplete {
					merged.PercentComplete = req.PercentComplete
				}
				merged.Completed = merged.Completed || req.Completed
				merged.AttemptCount = existing.AttemptCount
				if req.Score != nil {
					merged.Score = req.Score
				}
				p.progress[i] = &merged
				patched = true
				break
			}
		}
		if !patched {
			p.progress = append(p.progress, record)
		}
	}
	p.mu.Unlock()

	if err := p.repo.TrainingProgress().Upsert(ctx, nil, record); err != nil {
		return fmt.Errorf("upsert training progress: %w", err)
	}

	p.publish(ctx, events.EventTrainingProgressUpdated, map[string]interface{}{
		"profile_id":       profileID,
		"module_id":        req.ModuleID,
		"percent_complete": req.PercentComplete,
		"completed":        req.Completed,
	})

	return nil
}

// ===== READ ACCESS =====

func (p *personalizationStore) Bookmarks() ([]*models.Bookmark, CollectionStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*models.Bookmark, len(p.bookmarks))
	copy(out, p.bookmarks)
	return out, p.bookmarkStatus
}

func (p *personalizationStore) TrainingProgress() ([]*models.TrainingProgress, CollectionStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*models.TrainingProgress, len(p.progress))
	copy(out, p.progress)
	return out, p.progressStatus
}

func (p *personalizationStore) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Clearing also bumps the fence: any in-flight load was issued for the
	// old profile id and will be discarded on arrival
	p.profileID = ""
	p.bookmarks = nil
	p.bookmarkStatus = CollectionLoading
	p.progress = nil
	p.progressStatus = CollectionLoading
}

func (p *personalizationStore) publish(ctx context.Context, eventType string, data interface{}) {
	if p.eventPublisher == nil {
		return
	}
	if err := p.eventPublisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		p.logger.Warn("event publish failed", "event_type", eventType, "error", err)
	}
}
