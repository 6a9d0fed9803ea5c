package db

import (
	"context"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/lifetrack/internal/models"
)

type sqliteBackend struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) a SQLite database file and migrates
// the schema.
func OpenSQLite(path string) (Backend, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Quiet by default
	})
	if err != nil {
		return nil, err
	}

	// one writer at a time; SQLite serializes anyway and this avoids
	// SQLITE_BUSY between pooled connections
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	b := &sqliteBackend{db: db}
	if err := b.migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return b, nil
}

func (b *sqliteBackend) migrate() error {
	return b.db.AutoMigrate(
		&models.Domain{},
		&models.Task{},
		&models.TaskCompletion{},
	)
}

func (b *sqliteBackend) CountDomains(ctx context.Context) (int64, error) {
	var count int64
	err := b.db.WithContext(ctx).Model(&models.Domain{}).Count(&count).Error
	return count, err
}

func (b *sqliteBackend) ReadAll(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot
	db := b.db.WithContext(ctx)

	if err := db.Order("position ASC").Order("id ASC").Find(&snap.Domains).Error; err != nil {
		return models.Snapshot{}, err
	}
	if err := db.Order("position ASC").Order("id ASC").Find(&snap.Tasks).Error; err != nil {
		return models.Snapshot{}, err
	}
	if err := db.Order("date ASC").Order("completed_at ASC").Find(&snap.Completions).Error; err != nil {
		return models.Snapshot{}, err
	}

	for i := range snap.Completions {
		snap.Completions[i].CompletedAt = snap.Completions[i].CompletedAt.UTC()
	}
	snap.Normalize()
	return snap, nil
}

func (b *sqliteBackend) ReplaceAll(ctx context.Context, snap models.Snapshot) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.Domain{}, &models.Task{}, &models.TaskCompletion{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		return upsertAll(tx, snap)
	})
}

func (b *sqliteBackend) PutAll(ctx context.Context, snap models.Snapshot) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return upsertAll(tx, snap)
	})
}

// upsertAll inserts every record, overwriting rows with the same id.
// gorm rejects empty slices so each collection is guarded. Each Create needs
// its own statement; a chained *gorm.DB keeps the first model's schema.
func upsertAll(tx *gorm.DB, snap models.Snapshot) error {
	upsert := func() *gorm.DB {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Session(&gorm.Session{})
	}
	if len(snap.Domains) > 0 {
		if err := upsert().Create(&snap.Domains).Error; err != nil {
			return err
		}
	}
	if len(snap.Tasks) > 0 {
		if err := upsert().Create(&snap.Tasks).Error; err != nil {
			return err
		}
	}
	if len(snap.Completions) > 0 {
		if err := upsert().Create(&snap.Completions).Error; err != nil {
			return err
		}
	}
	return nil
}

func (b *sqliteBackend) put(ctx context.Context, value any) error {
	return b.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(value).Error
}

func (b *sqliteBackend) PutDomain(ctx context.Context, d models.Domain) error {
	return b.put(ctx, &d)
}

func (b *sqliteBackend) DeleteDomain(ctx context.Context, id string) error {
	return b.db.WithContext(ctx).Delete(&models.Domain{}, "id = ?", id).Error
}

func (b *sqliteBackend) PutTask(ctx context.Context, t models.Task) error {
	return b.put(ctx, &t)
}

func (b *sqliteBackend) DeleteTask(ctx context.Context, id string) error {
	return b.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", id).Error
}

func (b *sqliteBackend) PutCompletion(ctx context.Context, c models.TaskCompletion) error {
	return b.put(ctx, &c)
}

func (b *sqliteBackend) DeleteCompletion(ctx context.Context, id string) error {
	return b.db.WithContext(ctx).Delete(&models.TaskCompletion{}, "id = ?", id).Error
}

func (b *sqliteBackend) DeleteDomainCascade(ctx context.Context, id string) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasks := tx.Model(&models.Task{}).Select("id").Where("domain_id = ?", id)
		if err := tx.Where("task_id IN (?)", tasks).Delete(&models.TaskCompletion{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Task{}, "domain_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Domain{}, "id = ?", id).Error
	})
}

func (b *sqliteBackend) DeleteTaskCascade(ctx context.Context, id string) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.TaskCompletion{}, "task_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, "id = ?", id).Error
	})
}

func (b *sqliteBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
