package services

import (
	"context"
	"errors"
	"testing"
)

func TestOptimisticMutation_ApplyBeforeRemote(t *testing.T) {
	var order []string

	m := OptimisticMutation{
		Apply: func() { order = append(order, "apply") },
		Remote: func(ctx context.Context) error {
			order = append(order, "remote")
			return nil
		},
		Revert: func() { order = append(order, "revert") },
	}

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	if len(order) != 2 || order[0] != "apply" || order[1] != "remote" {
		t.Errorf("execution order = %v, want [apply remote]", order)
	}
}

func TestOptimisticMutation_RevertOnFailure(t *testing.T) {
	remoteErr := errors.New("write failed")
	var order []string

	m := OptimisticMutation{
		Apply: func() { order = append(order, "apply") },
		Remote: func(ctx context.Context) error {
			order = append(order, "remote")
			return remoteErr
		},
		Revert: func() { order = append(order, "revert") },
	}

	err := m.Run(context.Background())
	if !errors.Is(err, remoteErr) {
		t.Fatalf("Run() = %v, want %v", err, remoteErr)
	}

	if len(order) != 3 || order[2] != "revert" {
		t.Errorf("execution order = %v, want revert last", order)
	}
}

func TestOptimisticMutation_NilHooks(t *testing.T) {
	m := OptimisticMutation{
		Remote: func(ctx context.Context) error { return errors.New("boom") },
	}

	// Neither nil Apply nor nil Revert may panic
	if err := m.Run(context.Background()); err == nil {
		t.Fatal("Run() = nil, want error")
	}
}
