package services

import (
	"context"
	"errors"
	"testing"

	"github.com/RxPortal-2025/member-portal/internal/events"
	"github.com/RxPortal-2025/member-portal/internal/models"
	"github.com/RxPortal-2025/member-portal/internal/repositories"
	"github.com/RxPortal-2025/member-portal/internal/validator"
)

func newTestPersonalization(repo *mockRepository) (PersonalizationStore, *events.MockEventPublisher) {
	publisher := events.NewMockEventPublisher(testLogger())
	p := NewPersonalizationStore(repo, publisher, testLogger(), validator.New())
	return p, publisher
}

func TestPersonalizationStore_LoadForProfile(t *testing.T) {
	ctx := context.Background()

	repo := newMockRepository()
	repo.bookmark.listByProfileFn = func(ctx context.Context, profileID string, filters repositories.BookmarkFilters) ([]*models.Bookmark, error) {
		return []*models.Bookmark{{ProfileID: profileID, ResourceID: "r-1"}}, nil
	}
	repo.progress.listByProfileFn = func(ctx context.Context, profileID string, filters repositories.ProgressFilters) ([]*models.TrainingProgress, error) {
		return []*models.TrainingProgress{{ProfileID: profileID, ModuleID: "m-1", PercentComplete: 40}}, nil
	}

	p, _ := newTestPersonalization(repo)
	p.LoadForProfile(ctx, "p-1")

	bookmarks, status := p.Bookmarks()
	if status != CollectionLoaded || len(bookmarks) != 1 {
		t.Errorf("Bookmarks() = %v, %q, want one loaded bookmark", bookmarks, status)
	}
	progress, status := p.TrainingProgress()
	if status != CollectionLoaded || len(progress) != 1 {
		t.Errorf("TrainingProgress() = %v, %q, want one loaded record", progress, status)
	}
}

func TestPersonalizationStore_LoadError(t *testing.T) {
	ctx := context.Background()

	repo := newMockRepository()
	repo.bookmark.listByProfileFn = func(ctx context.Context, profileID string, filters repositories.BookmarkFilters) ([]*models.Bookmark, error) {
		return nil, errors.New("db down")
	}

	p, _ := newTestPersonalization(repo)
	p.LoadForProfile(ctx, "p-1")

	// Each collection fails independently
	if _, status := p.Bookmarks(); status != CollectionError {
		t.Errorf("bookmark status = %q, want %q", status, CollectionError)
	}
	if _, status := p.TrainingProgress(); status != CollectionLoaded {
		t.Errorf("progress status = %q, want %q", status, CollectionLoaded)
	}
}

// A load result arriving after the profile changed must be discarded.
func TestPersonalizationStore_StaleLoadDiscarded(t *testing.T) {
	ctx := context.Background()

	repo := newMockRepository()
	p, _ := newTestPersonalization(repo)

	repo.bookmark.listByProfileFn = func(ctx context.Context, profileID string, filters repositories.BookmarkFilters) ([]*models.Bookmark, error) {
		// The profile is cleared while this query is in flight
		p.Clear()
		return []*models.Bookmark{{ProfileID: profileID, ResourceID: "r-stale"}}, nil
	}

	p.LoadForProfile(ctx, "p-1")

	bookmarks, status := p.Bookmarks()
	if len(bookmarks) != 0 {
		t.Errorf("stale bookmarks landed in the collection: %v", bookmarks)
	}
	if status != CollectionLoading {
		t.Errorf("bookmark status = %q, want %q after discard", status, CollectionLoading)
	}
}

func TestPersonalizationStore_ToggleBookmark(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an active profile", func(t *testing.T) {
		p, _ := newTestPersonalization(newMockRepository())

		if err := p.ToggleBookmark(ctx, "r-1"); !errors.Is(err, ErrNoActiveProfile) {
			t.Fatalf("ToggleBookmark() = %v, want ErrNoActiveProfile", err)
		}
	})

	t.Run("double toggle returns to the original state", func(t *testing.T) {
		repo := newMockRepository()
		p, publisher := newTestPersonalization(repo)
		p.LoadForProfile(ctx, "p-1")

		if err := p.ToggleBookmark(ctx, "r-1"); err != nil {
			t.Fatalf("first ToggleBookmark() = %v", err)
		}
		if bookmarks, _ := p.Bookmarks(); len(bookmarks) != 1 || bookmarks[0].ResourceID != "r-1" {
			t.Errorf("Bookmarks() = %v, want [r-1]", bookmarks)
		}
		if len(repo.bookmark.createCalls) != 1 {
			t.Errorf("createCalls = %d, want 1", len(repo.bookmark.createCalls))
		}

		if err := p.ToggleBookmark(ctx, "r-1"); err != nil {
			t.Fatalf("second ToggleBookmark() = %v", err)
		}
		if bookmarks, _ := p.Bookmarks(); len(bookmarks) != 0 {
			t.Errorf("Bookmarks() = %v, want empty after double toggle", bookmarks)
		}
		if len(repo.bookmark.deleteCalls) != 1 {
			t.Errorf("deleteCalls = %d, want 1", len(repo.bookmark.deleteCalls))
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 2 {
			t.Fatalf("published %d events, want 2", len(published))
		}
		if published[0].Type != events.EventBookmarkToggled || published[1].Type != events.EventBookmarkToggled {
			t.Errorf("published events = %v, want two bookmark.toggled", published)
		}
	})

	t.Run("failed removal restores the bookmark in place", func(t *testing.T) {
		repo := newMockRepository()
		repo.bookmark.listByProfileFn = func(ctx context.Context, profileID string, filters repositories.BookmarkFilters) ([]*models.Bookmark, error) {
			return []*models.Bookmark{
				{ProfileID: profileID, ResourceID: "r-a"},
				{ProfileID: profileID, ResourceID: "r-b"},
				{ProfileID: profileID, ResourceID: "r-c"},
			}, nil
		}
		repo.bookmark.deleteFn = func(ctx context.Context, profileID, resourceID string) error {
			return errors.New("write failed")
		}

		p, publisher := newTestPersonalization(repo)
		p.LoadForProfile(ctx, "p-1")

		if err := p.ToggleBookmark(ctx, "r-b"); err == nil {
			t.Fatal("ToggleBookmark() = nil, want error")
		}

		bookmarks, _ := p.Bookmarks()
		want := []string{"r-a", "r-b", "r-c"}
		if len(bookmarks) != len(want) {
			t.Fatalf("Bookmarks() = %v, want %v", bookmarks, want)
		}
		for i, b := range bookmarks {
			if b.ResourceID != want[i] {
				t.Errorf("bookmark[%d] = %q, want %q", i, b.ResourceID, want[i])
			}
		}

		// No event for a mutation that did not stick
		if published := publisher.GetPublishedEvents(); len(published) != 0 {
			t.Errorf("published events = %v, want none", published)
		}
	})

	t.Run("failed addition removes the optimistic entry", func(t *testing.T) {
		repo := newMockRepository()
		repo.bookmark.createFn = func(ctx context.Context, bookmark *models.Bookmark) error {
			return errors.New("write failed")
		}

		p, _ := newTestPersonalization(repo)
		p.LoadForProfile(ctx, "p-1")

		if err := p.ToggleBookmark(ctx, "r-1"); err == nil {
			t.Fatal("ToggleBookmark() = nil, want error")
		}
		if bookmarks, _ := p.Bookmarks(); len(bookmarks) != 0 {
			t.Errorf("Bookmarks() = %v, want empty after revert", bookmarks)
		}
	})
}

func TestPersonalizationStore_UpsertTrainingProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an active profile", func(t *testing.T) {
		p, _ := newTestPersonalization(newMockRepository())

		err := p.UpsertTrainingProgress(ctx, &TrainingProgressRequest{ModuleID: "m-1"})
		if !errors.Is(err, ErrNoActiveProfile) {
			t.Fatalf("UpsertTrainingProgress() = %v, want ErrNoActiveProfile", err)
		}
	})

	t.Run("local merge never regresses percent or completion", func(t *testing.T) {
		repo := newMockRepository()
		repo.progress.listByProfileFn = func(ctx context.Context, profileID string, filters repositories.ProgressFilters) ([]*models.TrainingProgress, error) {
			return []*models.TrainingProgress{{
				ProfileID:       profileID,
				ModuleID:        "m-1",
				PositionSeconds: 900,
				PercentComplete: 80,
				Completed:       true,
				AttemptCount:    2,
			}}, nil
		}

		p, _ := newTestPersonalization(repo)
		p.LoadForProfile(ctx, "p-1")

		// A stale tab reports lower progress
		err := p.UpsertTrainingProgress(ctx, &TrainingProgressRequest{
			ModuleID:        "m-1",
			PositionSeconds: 120,
			PercentComplete: 50,
			Completed:       false,
		})
		if err != nil {
			t.Fatalf("UpsertTrainingProgress() = %v", err)
		}

		progress, _ := p.TrainingProgress()
		if len(progress) != 1 {
			t.Fatalf("TrainingProgress() = %v, want one record", progress)
		}
		got := progress[0]
		if got.PercentComplete != 80 {
			t.Errorf("PercentComplete = %v, want 80 (no regression)", got.PercentComplete)
		}
		if !got.Completed {
			t.Error("Completed flag regressed to false")
		}
		if got.PositionSeconds != 120 {
			t.Errorf("PositionSeconds = %d, want 120 (last write wins)", got.PositionSeconds)
		}
		if got.AttemptCount != 2 {
			t.Errorf("AttemptCount = %d, want 2 (server-owned)", got.AttemptCount)
		}

		// The raw request still goes to the row store; clamping there is
		// the database's job
		if len(repo.progress.upsertCalls) != 1 || repo.progress.upsertCalls[0].PercentComplete != 50 {
			t.Errorf("upsertCalls = %v, want the raw 50%% write", repo.progress.upsertCalls)
		}
	})

	t.Run("new modules are appended", func(t *testing.T) {
		repo := newMockRepository()
		p, _ := newTestPersonalization(repo)
		p.LoadForProfile(ctx, "p-1")

		err := p.UpsertTrainingProgress(ctx, &TrainingProgressRequest{
			ModuleID:        "m-new",
			PositionSeconds: 30,
			PercentComplete: 10,
		})
		if err != nil {
			t.Fatalf("UpsertTrainingProgress() = %v", err)
		}

		progress, _ := p.TrainingProgress()
		if len(progress) != 1 || progress[0].ModuleID != "m-new" {
			t.Errorf("TrainingProgress() = %v, want [m-new]", progress)
		}
	})

	t.Run("rejects an out-of-range percent", func(t *testing.T) {
		repo := newMockRepository()
		p, _ := newTestPersonalization(repo)
		p.LoadForProfile(ctx, "p-1")

		err := p.UpsertTrainingProgress(ctx, &TrainingProgressRequest{
			ModuleID:        "m-1",
			PercentComplete: 150,
		})
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("UpsertTrainingProgress() = %v, want ErrValidationFailed", err)
		}
	})
}

func TestPersonalizationStore_Clear(t *testing.T) {
	ctx := context.Background()

	repo := newMockRepository()
	repo.bookmark.listByProfileFn = func(ctx context.Context, profileID string, filters repositories.BookmarkFilters) ([]*models.Bookmark, error) {
		return []*models.Bookmark{{ProfileID: profileID, ResourceID: "r-1"}}, nil
	}

	p, _ := newTestPersonalization(repo)
	p.LoadForProfile(ctx, "p-1")
	p.Clear()

	if bookmarks, status := p.Bookmarks(); len(bookmarks) != 0 || status != CollectionLoading {
		t.Errorf("Bookmarks() = %v, %q, want empty and loading", bookmarks, status)
	}
	if progress, status := p.TrainingProgress(); len(progress) != 0 || status != CollectionLoading {
		t.Errorf("TrainingProgress() = %v, %q, want empty and loading", progress, status)
	}

	// Mutations are fenced off until the next profile loads
	if err := p.ToggleBookmark(ctx, "r-1"); !errors.Is(err, ErrNoActiveProfile) {
		t.Errorf("ToggleBookmark() after Clear = %v, want ErrNoActiveProfile", err)
	}
}
