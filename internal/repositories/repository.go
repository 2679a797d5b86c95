package repositories

import "context"

// Repository aggregates all entity repositories used by the portal core.
type Repository interface {
	// Account domain (read-mostly; provisioning happens out of band)
	Account() AccountRepository

	// Profile domain
	Profile() ProfileRepository

	// Personalization domain
	Bookmark() BookmarkRepository
	TrainingProgress() TrainingProgressRepository

	// Durable per-account active-profile pointer
	Selection() SelectionRepository

	// External identity service (Casdoor)
	Identity() IdentityProvider

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
