package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/RxPortal-2025/member-portal/internal/models"
	"github.com/RxPortal-2025/member-portal/internal/repositories"
)

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

// NewReportService creates the report builder.
func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger,
	}
}

// TrainingProgressWorkbook renders one row per (profile, module) progress
// record plus a summary block, for pharmacy owners and compliance reviews.
func (s *reportService) TrainingProgressWorkbook(ctx context.Context, accountID string) (*excelize.File, error) {
	account, err := s.repo.Account().GetByID(ctx, accountID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load account for report: %w", err)
	}

	profiles, err := s.repo.Profile().ListByAccount(ctx, nil, accountID, repositories.ProfileFilters{IncludeHidden: true})
	if err != nil {
		return nil, fmt.Errorf("load profiles for report: %w", err)
	}
	profilesByID := make(map[string]*models.Profile, len(profiles))
	for _, p := range profiles {
		profilesByID[p.ID] = p
	}

	rows, err := s.repo.TrainingProgress().ListByAccount(ctx, nil, accountID)
	if err != nil {
		return nil, fmt.Errorf("load training progress for report: %w", err)
	}

	stats, err := s.repo.TrainingProgress().GetAccountStats(ctx, nil, accountID)
	if err != nil {
		return nil, fmt.Errorf("load training stats for report: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Training Progress"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	headers := []string{"Profile", "Role", "Module", "Percent Complete", "Completed", "Position (s)", "Attempts", "Score", "Last Updated"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "C", "C", 32)
	f.SetColWidth(sheet, "I", "I", 20)

	for i, row := range rows {
		rowNum := i + 2

		profileName := row.ProfileID
		role := ""
		if p, ok := profilesByID[row.ProfileID]; ok {
			profileName = p.DisplayName()
			role = string(p.Role)
		}

		values := []interface{}{
			profileName,
			role,
			row.ModuleID,
			row.PercentComplete,
			row.Completed,
			row.PositionSeconds,
			row.AttemptCount,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			f.SetCellValue(sheet, cell, v)
		}
		if row.Score != nil {
			cell, _ := excelize.CoordinatesToCellName(8, rowNum)
			f.SetCellValue(sheet, cell, *row.Score)
		}
		cell, _ := excelize.CoordinatesToCellName(9, rowNum)
		f.SetCellValue(sheet, cell, row.UpdatedAt.Format("2006-01-02 15:04"))
	}

	// Summary block below the data
	summaryRow := len(rows) + 3
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Account")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow), account.OrganizationName)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow+1), "Active profiles")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow+1), stats.ProfileCount)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow+2), "Modules started")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow+2), stats.ModulesStarted)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow+3), "Modules completed")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow+3), stats.ModulesCompleted)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow+4), "Average completion %")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow+4), stats.AveragePercent)

	s.logger.InfoContext(ctx, "training progress report built",
		"account_id", accountID, "rows", len(rows))

	return f, nil
}
