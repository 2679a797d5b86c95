package services

import "context"

// OptimisticMutation applies a local change immediately, then confirms it
// remotely. When the remote write fails the local change is reverted and the
// error returned; there is no automatic retry.
type OptimisticMutation struct {
	Apply  func()
	Revert func()
	Remote func(ctx context.Context) error
}

// Run executes the mutation. Apply always runs before Remote; Revert runs
// only on Remote failure and only when set.
func (m OptimisticMutation) Run(ctx context.Context) error {
	if m.Apply != nil {
		m.Apply()
	}

	if err := m.Remote(ctx); err != nil {
		if m.Revert != nil {
			m.Revert()
		}
		return err
	}

	return nil
}
