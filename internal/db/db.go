package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/balkashynov/lifetrack/internal/models"
)

// Backend is the durable record store behind a Store. Implementations must
// make ReplaceAll, PutAll and the cascade deletes atomic; single-record
// operations need not be. Deleting a missing id is not an error.
type Backend interface {
	CountDomains(ctx context.Context) (int64, error)
	// ReadAll returns domains and tasks ordered by Order then ID, and
	// completions ordered by Date then CompletedAt.
	ReadAll(ctx context.Context) (models.Snapshot, error)
	ReplaceAll(ctx context.Context, snap models.Snapshot) error
	PutAll(ctx context.Context, snap models.Snapshot) error

	PutDomain(ctx context.Context, d models.Domain) error
	DeleteDomain(ctx context.Context, id string) error
	PutTask(ctx context.Context, t models.Task) error
	DeleteTask(ctx context.Context, id string) error
	PutCompletion(ctx context.Context, c models.TaskCompletion) error
	DeleteCompletion(ctx context.Context, id string) error

	DeleteDomainCascade(ctx context.Context, id string) error
	DeleteTaskCascade(ctx context.Context, id string) error

	Close() error
}

const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// Options selects and locates the backend.
type Options struct {
	Driver string
	Path   string
	Logger *zap.Logger
}

// Open creates the database directory if needed, opens the configured backend
// and wraps it in a Store.
func Open(opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("database path is empty")
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	var (
		backend Backend
		err     error
	)
	switch opts.Driver {
	case DriverSQLite, "":
		backend, err = OpenSQLite(opts.Path)
	case DriverBolt:
		backend, err = OpenBolt(opts.Path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return NewStore(backend, opts.Logger), nil
}
