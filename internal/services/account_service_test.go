package services

import (
	"context"
	"errors"
	"testing"

	"github.com/RxPortal-2025/member-portal/internal/models"
	"github.com/RxPortal-2025/member-portal/internal/repositories"
	"github.com/RxPortal-2025/member-portal/internal/validator"
)

func TestAccountService_UpdateContact(t *testing.T) {
	ctx := context.Background()

	t.Run("applies the patch", func(t *testing.T) {
		repo := newMockRepository()
		var gotUpdate repositories.AccountContactUpdate
		repo.account.updateContactFn = func(ctx context.Context, id string, update repositories.AccountContactUpdate) (*models.Account, error) {
			gotUpdate = update
			return &models.Account{ID: id, ContactName: update.ContactName}, nil
		}

		svc := NewAccountService(repo, testLogger(), validator.New())

		name := "Pat Nguyen"
		account, err := svc.UpdateContact(ctx, "acc-1", &AccountContactRequest{ContactName: &name})
		if err != nil {
			t.Fatalf("UpdateContact() = %v", err)
		}
		if account.ContactName == nil || *account.ContactName != name {
			t.Errorf("ContactName = %v, want %q", account.ContactName, name)
		}
		if gotUpdate.ContactName == nil || gotUpdate.ContactPhone != nil {
			t.Errorf("update = %+v, want only ContactName set", gotUpdate)
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		svc := NewAccountService(newMockRepository(), testLogger(), validator.New())

		name := "Pat Nguyen"
		if _, err := svc.UpdateContact(ctx, "acc-missing", &AccountContactRequest{ContactName: &name}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("UpdateContact() = %v, want ErrNotFound", err)
		}
	})

	t.Run("rejects an overlong field", func(t *testing.T) {
		svc := NewAccountService(newMockRepository(), testLogger(), validator.New())

		long := make([]byte, 250)
		for i := range long {
			long[i] = 'x'
		}
		name := string(long)
		if _, err := svc.UpdateContact(ctx, "acc-1", &AccountContactRequest{ContactName: &name}); !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("UpdateContact() = %v, want ErrValidationFailed", err)
		}
	})
}
