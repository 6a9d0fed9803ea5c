package db

import (
	"context"

	"go.uber.org/zap"

	"github.com/balkashynov/lifetrack/internal/models"
)

// Store is the explicit handle to durable storage. It layers seeding, the
// load-time repair pass and error classification over a Backend. Cascading
// deletes are available both as the record-only operations (caller cascades)
// and as single-transaction variants.
type Store struct {
	backend Backend
	log     *zap.Logger
}

// NewStore wraps a backend. A nil logger discards log output.
func NewStore(backend Backend, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{backend: backend, log: log}
}

// RepairReport lists the orphaned records removed by Repair.
type RepairReport struct {
	Tasks       []string
	Completions []string
}

// Empty reports whether nothing needed repairing.
func (r RepairReport) Empty() bool {
	return len(r.Tasks) == 0 && len(r.Completions) == 0
}

// EnsureSeeded writes the default dataset when there are no domains. It is
// safe to call on every start. If the transactional write fails the records
// are upserted one at a time, reusing the same ids so a partially applied
// first attempt is overwritten rather than duplicated.
func (s *Store) EnsureSeeded(ctx context.Context) error {
	count, err := s.backend.CountDomains(ctx)
	if err != nil {
		return models.WrapError(models.ErrCodeStorage, "failed to count domains", err)
	}
	if count > 0 {
		return nil
	}

	seed := models.DefaultData()
	err = s.backend.PutAll(ctx, seed)
	if err == nil {
		s.log.Debug("Seeded default data",
			zap.Int("domains", len(seed.Domains)),
			zap.Int("tasks", len(seed.Tasks)))
		return nil
	}

	s.log.Warn("Seeding failed, attempting record-by-record fallback", zap.Error(err))
	if err := s.seedOneByOne(ctx, seed); err != nil {
		s.log.Error("Fallback seeding failed", zap.Error(err))
		return models.WrapError(models.ErrCodeStorage, "failed to seed default data", err)
	}
	return nil
}

func (s *Store) seedOneByOne(ctx context.Context, seed models.Snapshot) error {
	for _, d := range seed.Domains {
		if err := s.backend.PutDomain(ctx, d); err != nil {
			return err
		}
	}
	for _, t := range seed.Tasks {
		if err := s.backend.PutTask(ctx, t); err != nil {
			return err
		}
	}
	for _, c := range seed.Completions {
		if err := s.backend.PutCompletion(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// Load returns the full snapshot: domains and tasks by order, completions by
// date. It seeds first and removes orphaned tasks and completions.
func (s *Store) Load(ctx context.Context) (models.Snapshot, error) {
	if err := s.EnsureSeeded(ctx); err != nil {
		s.log.Warn("Continuing without seed", zap.Error(err))
	}

	snap, err := s.backend.ReadAll(ctx)
	if err != nil {
		return models.Snapshot{}, models.WrapError(models.ErrCodeStorage, "failed to load data", err)
	}

	s.repair(ctx, snap)

	// orphans are hidden even when their delete failed
	tasks, completions := snap.Orphans()
	for _, id := range tasks {
		snap.WithoutTask(id)
	}
	for _, id := range completions {
		snap.WithoutCompletion(id)
	}
	return snap, nil
}

// Repair deletes tasks whose domain no longer exists and completions whose
// task no longer exists. Running it again is a no-op.
func (s *Store) Repair(ctx context.Context) (RepairReport, error) {
	snap, err := s.backend.ReadAll(ctx)
	if err != nil {
		return RepairReport{}, models.WrapError(models.ErrCodeStorage, "failed to load data", err)
	}
	return s.repair(ctx, snap), nil
}

// repair removes what it can; individual delete failures are logged and the
// record is left for the next pass.
func (s *Store) repair(ctx context.Context, snap models.Snapshot) RepairReport {
	tasks, completions := snap.Orphans()
	var report RepairReport
	for _, id := range completions {
		if err := s.backend.DeleteCompletion(ctx, id); err != nil {
			s.log.Warn("Failed to remove orphaned completion", zap.String("id", id), zap.Error(err))
			continue
		}
		report.Completions = append(report.Completions, id)
	}
	for _, id := range tasks {
		if err := s.backend.DeleteTask(ctx, id); err != nil {
			s.log.Warn("Failed to remove orphaned task", zap.String("id", id), zap.Error(err))
			continue
		}
		report.Tasks = append(report.Tasks, id)
	}
	if !report.Empty() {
		s.log.Info("Removed orphaned records",
			zap.Int("tasks", len(report.Tasks)),
			zap.Int("completions", len(report.Completions)))
	}
	return report
}

// Save atomically replaces all three collections with snap.
func (s *Store) Save(ctx context.Context, snap models.Snapshot) error {
	if err := s.backend.ReplaceAll(ctx, snap); err != nil {
		return models.WrapError(models.ErrCodeStorage, "failed to save data", err)
	}
	return nil
}

// AddDomain upserts a domain by id.
func (s *Store) AddDomain(ctx context.Context, d models.Domain) error {
	return s.wrap("failed to save domain", s.backend.PutDomain(ctx, d))
}

// UpdateDomain is AddDomain; both upsert.
func (s *Store) UpdateDomain(ctx context.Context, d models.Domain) error {
	return s.AddDomain(ctx, d)
}

// RemoveDomain deletes the domain record only. Its tasks and their
// completions are the caller's responsibility; see RemoveDomainCascade.
func (s *Store) RemoveDomain(ctx context.Context, id string) error {
	return s.wrap("failed to delete domain", s.backend.DeleteDomain(ctx, id))
}

// RemoveDomainCascade deletes the domain, its tasks and their completions in
// one transaction.
func (s *Store) RemoveDomainCascade(ctx context.Context, id string) error {
	return s.wrap("failed to delete domain", s.backend.DeleteDomainCascade(ctx, id))
}

// AddTask upserts a task by id.
func (s *Store) AddTask(ctx context.Context, t models.Task) error {
	return s.wrap("failed to save task", s.backend.PutTask(ctx, t))
}

// UpdateTask is AddTask; both upsert.
func (s *Store) UpdateTask(ctx context.Context, t models.Task) error {
	return s.AddTask(ctx, t)
}

// RemoveTask deletes the task record only.
func (s *Store) RemoveTask(ctx context.Context, id string) error {
	return s.wrap("failed to delete task", s.backend.DeleteTask(ctx, id))
}

// RemoveTaskCascade deletes the task and its completions in one transaction.
func (s *Store) RemoveTaskCascade(ctx context.Context, id string) error {
	return s.wrap("failed to delete task", s.backend.DeleteTaskCascade(ctx, id))
}

// AddCompletion upserts a completion by id.
func (s *Store) AddCompletion(ctx context.Context, c models.TaskCompletion) error {
	return s.wrap("failed to save completion", s.backend.PutCompletion(ctx, c))
}

// RemoveCompletion deletes a completion.
func (s *Store) RemoveCompletion(ctx context.Context, id string) error {
	return s.wrap("failed to delete completion", s.backend.DeleteCompletion(ctx, id))
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) wrap(message string, err error) error {
	if err == nil {
		return nil
	}
	return models.WrapError(models.ErrCodeStorage, message, err)
}
