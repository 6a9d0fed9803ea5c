package tracker

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/balkashynov/lifetrack/internal/db"
	"github.com/balkashynov/lifetrack/internal/models"
)

// ToggleCompletion marks taskID done on date, or undoes it if it already is.
// It reports whether the task is done afterwards. The completion snapshots
// the task's current points.
func (t *Tracker) ToggleCompletion(ctx context.Context, taskID, date string) (bool, error) {
	if _, err := models.ParseDateKey(date); err != nil {
		return false, models.WrapError(models.ErrCodeInvalid, "invalid date", err)
	}

	t.mu.Lock()
	view := t.viewLocked()
	task, ok := view.Task(taskID)
	if !ok {
		t.mu.Unlock()
		return false, models.ErrTaskNotFound
	}

	if existing, done := view.CompletionFor(taskID, date); done {
		ch := t.beginLocked("uncomplete", func(s *models.Snapshot) { s.WithoutCompletion(existing.ID) })
		t.mu.Unlock()
		return false, t.settle(ch, t.store.RemoveCompletion(ctx, existing.ID))
	}

	comp := models.TaskCompletion{
		ID:           t.newID(),
		TaskID:       task.ID,
		Date:         date,
		CompletedAt:  t.now().UTC(),
		PointsEarned: task.Points,
	}
	ch := t.beginLocked("complete", func(s *models.Snapshot) { s.PutCompletion(comp) })
	t.mu.Unlock()
	if err := t.settle(ch, t.store.AddCompletion(ctx, comp)); err != nil {
		return false, err
	}
	return true, nil
}

// NewTask returns a task with default values under domainID, ordered after
// every existing task. It is not saved until AddTask.
func (t *Tracker) NewTask(domainID string) models.Task {
	t.mu.Lock()
	count := len(t.viewLocked().Tasks)
	t.mu.Unlock()

	task := models.NewTask(domainID)
	task.ID = t.newID()
	task.Order = count
	return task
}

// AddTask saves a new task. Its domain must exist.
func (t *Tracker) AddTask(ctx context.Context, task models.Task) error {
	if task.ID == "" {
		task.ID = t.newID()
	}
	if err := models.ValidatePoints(task.Points); err != nil {
		return err
	}
	if _, ok := t.Snapshot().Domain(task.DomainID); !ok {
		return models.ErrDomainNotFound
	}
	return t.run(ctx, "add task",
		func(s *models.Snapshot) { s.PutTask(task) },
		func(ctx context.Context) error { return t.store.AddTask(ctx, task) })
}

// EditTask replaces a task record. Existing completions keep their points.
func (t *Tracker) EditTask(ctx context.Context, task models.Task) error {
	if err := models.ValidatePoints(task.Points); err != nil {
		return err
	}
	snap := t.Snapshot()
	if _, ok := snap.Task(task.ID); !ok {
		return models.ErrTaskNotFound
	}
	if _, ok := snap.Domain(task.DomainID); !ok {
		return models.ErrDomainNotFound
	}
	return t.run(ctx, "edit task",
		func(s *models.Snapshot) { s.PutTask(task) },
		func(ctx context.Context) error { return t.store.UpdateTask(ctx, task) })
}

// DeleteTask removes a task and its completions. Unknown ids are a no-op.
func (t *Tracker) DeleteTask(ctx context.Context, id string) error {
	return t.run(ctx, "delete task",
		func(s *models.Snapshot) { s.WithoutTask(id) },
		func(ctx context.Context) error { return t.store.RemoveTaskCascade(ctx, id) })
}

// AddDomain creates an active domain ordered after the existing ones.
func (t *Tracker) AddDomain(ctx context.Context, name string) (models.Domain, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "New domain"
	}
	d := models.Domain{
		ID:       t.newID(),
		Name:     name,
		Order:    len(t.Snapshot().Domains),
		IsActive: true,
	}
	err := t.run(ctx, "add domain",
		func(s *models.Snapshot) { s.PutDomain(d) },
		func(ctx context.Context) error { return t.store.AddDomain(ctx, d) })
	return d, err
}

// UpdateDomain replaces a domain record (rename, reorder, (de)activate).
func (t *Tracker) UpdateDomain(ctx context.Context, d models.Domain) error {
	if _, ok := t.Snapshot().Domain(d.ID); !ok {
		return models.ErrDomainNotFound
	}
	return t.run(ctx, "update domain",
		func(s *models.Snapshot) { s.PutDomain(d) },
		func(ctx context.Context) error { return t.store.UpdateDomain(ctx, d) })
}

// DeleteDomain removes a domain with its tasks and their completions.
func (t *Tracker) DeleteDomain(ctx context.Context, id string) error {
	return t.run(ctx, "delete domain",
		func(s *models.Snapshot) { s.WithoutDomain(id) },
		func(ctx context.Context) error { return t.store.RemoveDomainCascade(ctx, id) })
}

// Import validates an interchange document and replaces everything with it.
// Any failure leaves the session untouched and carries ErrInvalidData; a
// storage failure also wraps the underlying error.
func (t *Tracker) Import(ctx context.Context, data []byte) error {
	snap, err := db.DecodeSnapshot(data)
	if err != nil {
		return err
	}
	err = t.run(ctx, "import",
		func(s *models.Snapshot) { *s = snap.Clone() },
		func(ctx context.Context) error { return t.store.Save(ctx, snap) })
	if err != nil {
		return models.WrapError(models.ErrInvalidData.Code, models.ErrInvalidData.Message, err)
	}
	return t.Load(ctx)
}

// Export returns the durable state as an interchange document.
func (t *Tracker) Export(ctx context.Context) ([]byte, error) {
	return t.store.ExportJSON(ctx)
}

// Reset overwrites everything with the default dataset.
func (t *Tracker) Reset(ctx context.Context) error {
	if err := t.store.ResetToDefaults(ctx); err != nil {
		t.log.Warn("Reset failed", zap.Error(err))
		return err
	}
	return t.Load(ctx)
}

// ResolveTask finds a task by full id or unique id prefix.
func (t *Tracker) ResolveTask(ref string) (models.Task, error) {
	snap := t.Snapshot()
	var matches []models.Task
	for _, task := range snap.Tasks {
		if task.ID == ref {
			return task, nil
		}
		if ref != "" && strings.HasPrefix(task.ID, ref) {
			matches = append(matches, task)
		}
	}
	switch len(matches) {
	case 0:
		return models.Task{}, models.WrapError(models.ErrCodeNotFound, "task not found", fmt.Errorf("no task matches %q", ref))
	case 1:
		return matches[0], nil
	}
	return models.Task{}, models.NewError(models.ErrCodeInvalid, fmt.Sprintf("task id %q is ambiguous (%d matches)", ref, len(matches)))
}

// ResolveDomain finds a domain by id, unique id prefix or case-insensitive
// name.
func (t *Tracker) ResolveDomain(ref string) (models.Domain, error) {
	snap := t.Snapshot()
	var matches []models.Domain
	for _, d := range snap.Domains {
		if d.ID == ref {
			return d, nil
		}
	}
	for _, d := range snap.Domains {
		if strings.EqualFold(d.Name, ref) {
			return d, nil
		}
		if ref != "" && strings.HasPrefix(d.ID, ref) {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 0:
		return models.Domain{}, models.WrapError(models.ErrCodeNotFound, "domain not found", fmt.Errorf("no domain matches %q", ref))
	case 1:
		return matches[0], nil
	}
	return models.Domain{}, models.NewError(models.ErrCodeInvalid, fmt.Sprintf("domain %q is ambiguous (%d matches)", ref, len(matches)))
}
