package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/RxPortal-2025/member-portal/internal/models"
	"github.com/RxPortal-2025/member-portal/internal/repositories"
	"github.com/RxPortal-2025/member-portal/internal/validator"
)

type accountService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAccountService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) AccountService {
	return &accountService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

func (s *accountService) UpdateContact(ctx context.Context, accountID string, req *AccountContactRequest) (*models.Account, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, errs)
	}

	account, err := s.repo.Account().UpdateContact(ctx, accountID, repositories.AccountContactUpdate{
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
	})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update account contact: %w", err)
	}

	s.logger.InfoContext(ctx, "account contact updated", "account_id", accountID)
	return account, nil
}
