package services

import (
	"context"
	"errors"
	"testing"

	"github.com/RxPortal-2025/member-portal/internal/models"
	"github.com/RxPortal-2025/member-portal/internal/repositories"
)

func TestReportService_TrainingProgressWorkbook(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown account", func(t *testing.T) {
		svc := NewReportService(newMockRepository(), testLogger())

		if _, err := svc.TrainingProgressWorkbook(ctx, "acc-missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("TrainingProgressWorkbook() = %v, want ErrNotFound", err)
		}
	})

	t.Run("renders rows and summary", func(t *testing.T) {
		score := 92.5
		repo := newMockRepository()
		repo.account.getByIDFn = func(ctx context.Context, id string) (*models.Account, error) {
			return &models.Account{ID: id, OrganizationName: "Sunrise Pharmacy"}, nil
		}
		repo.profile.listByAccountFn = func(ctx context.Context, accountID string, filters repositories.ProfileFilters) ([]*models.Profile, error) {
			if !filters.IncludeHidden {
				t.Error("report must include deactivated profiles")
			}
			return []*models.Profile{profileFixture("p-1", accountID, "Jane")}, nil
		}
		repo.progress.listByAccountFn = func(ctx context.Context, accountID string) ([]*models.TrainingProgress, error) {
			return []*models.TrainingProgress{{
				ProfileID:       "p-1",
				ModuleID:        "sterile-compounding",
				PercentComplete: 100,
				Completed:       true,
				Score:           &score,
			}}, nil
		}
		repo.progress.statsFn = func(ctx context.Context, accountID string) (*repositories.AccountTrainingStats, error) {
			return &repositories.AccountTrainingStats{
				ProfileCount:     1,
				ModulesStarted:   1,
				ModulesCompleted: 1,
				AveragePercent:   100,
			}, nil
		}

		svc := NewReportService(repo, testLogger())

		f, err := svc.TrainingProgressWorkbook(ctx, "acc-1")
		if err != nil {
			t.Fatalf("TrainingProgressWorkbook() = %v", err)
		}
		defer f.Close()

		const sheet = "Training Progress"

		if got, _ := f.GetCellValue(sheet, "A1"); got != "Profile" {
			t.Errorf("A1 = %q, want Profile", got)
		}
		if got, _ := f.GetCellValue(sheet, "C2"); got != "sterile-compounding" {
			t.Errorf("C2 = %q, want the module id", got)
		}
		if got, _ := f.GetCellValue(sheet, "A2"); got != "Jane Tester" {
			t.Errorf("A2 = %q, want the profile display name", got)
		}

		// Summary block sits two rows below the data
		if got, _ := f.GetCellValue(sheet, "B4"); got != "Sunrise Pharmacy" {
			t.Errorf("B4 = %q, want the organization name", got)
		}
	})
}
