package db

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/balkashynov/lifetrack/internal/models"
)

var (
	bucketDomains     = []byte("domains")
	bucketTasks       = []byte("tasks")
	bucketCompletions = []byte("completions")

	allBuckets = [][]byte{bucketDomains, bucketTasks, bucketCompletions}
)

// boltBackend keeps one bucket per collection, keyed by record id with JSON
// values.
type boltBackend struct {
	db *bolt.DB
}

// OpenBolt opens (creating if needed) a bbolt file and ensures the buckets
// exist.
func OpenBolt(path string) (Backend, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &boltBackend{db: db}, nil
}

func (b *boltBackend) CountDomains(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var count int64
	err := b.db.View(func(tx *bolt.Tx) error {
		count = int64(tx.Bucket(bucketDomains).Stats().KeyN)
		return nil
	})
	return count, err
}

func (b *boltBackend) ReadAll(ctx context.Context) (models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return models.Snapshot{}, err
	}

	var snap models.Snapshot
	err := b.db.View(func(tx *bolt.Tx) error {
		if err := readBucket(tx, bucketDomains, &snap.Domains); err != nil {
			return err
		}
		if err := readBucket(tx, bucketTasks, &snap.Tasks); err != nil {
			return err
		}
		return readBucket(tx, bucketCompletions, &snap.Completions)
	})
	if err != nil {
		return models.Snapshot{}, err
	}

	sort.SliceStable(snap.Domains, func(i, j int) bool {
		x, y := snap.Domains[i], snap.Domains[j]
		if x.Order != y.Order {
			return x.Order < y.Order
		}
		return x.ID < y.ID
	})
	sort.SliceStable(snap.Tasks, func(i, j int) bool {
		x, y := snap.Tasks[i], snap.Tasks[j]
		if x.Order != y.Order {
			return x.Order < y.Order
		}
		return x.ID < y.ID
	})
	sort.SliceStable(snap.Completions, func(i, j int) bool {
		x, y := snap.Completions[i], snap.Completions[j]
		if x.Date != y.Date {
			return x.Date < y.Date
		}
		return x.CompletedAt.Before(y.CompletedAt)
	})

	snap.Normalize()
	return snap, nil
}

// readBucket decodes every value of a bucket into the slice pointed to by out.
func readBucket[T any](tx *bolt.Tx, name []byte, out *[]T) error {
	return tx.Bucket(name).ForEach(func(_, v []byte) error {
		var rec T
		if err := json.Unmarshal(v, &rec); err != nil {
			return err
		}
		*out = append(*out, rec)
		return nil
	})
}

func (b *boltBackend) ReplaceAll(ctx context.Context, snap models.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		for _, name := range allBuckets {
			if err := tx.DeleteBucket(name); err != nil && err != bolt.ErrBucketNotFound {
				return err
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return putAll(tx, snap)
	})
}

func (b *boltBackend) PutAll(ctx context.Context, snap models.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return putAll(tx, snap)
	})
}

func putAll(tx *bolt.Tx, snap models.Snapshot) error {
	for _, d := range snap.Domains {
		if err := putRecord(tx, bucketDomains, d.ID, d); err != nil {
			return err
		}
	}
	for _, t := range snap.Tasks {
		if err := putRecord(tx, bucketTasks, t.ID, t); err != nil {
			return err
		}
	}
	for _, c := range snap.Completions {
		if err := putRecord(tx, bucketCompletions, c.ID, c); err != nil {
			return err
		}
	}
	return nil
}

func putRecord(tx *bolt.Tx, bucket []byte, id string, rec any) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return tx.Bucket(bucket).Put([]byte(id), payload)
}

func (b *boltBackend) put(ctx context.Context, bucket []byte, id string, rec any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return putRecord(tx, bucket, id, rec)
	})
}

func (b *boltBackend) delete(ctx context.Context, bucket []byte, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(id))
	})
}

func (b *boltBackend) PutDomain(ctx context.Context, d models.Domain) error {
	return b.put(ctx, bucketDomains, d.ID, d)
}

func (b *boltBackend) DeleteDomain(ctx context.Context, id string) error {
	return b.delete(ctx, bucketDomains, id)
}

func (b *boltBackend) PutTask(ctx context.Context, t models.Task) error {
	return b.put(ctx, bucketTasks, t.ID, t)
}

func (b *boltBackend) DeleteTask(ctx context.Context, id string) error {
	return b.delete(ctx, bucketTasks, id)
}

func (b *boltBackend) PutCompletion(ctx context.Context, c models.TaskCompletion) error {
	return b.put(ctx, bucketCompletions, c.ID, c)
}

func (b *boltBackend) DeleteCompletion(ctx context.Context, id string) error {
	return b.delete(ctx, bucketCompletions, id)
}

func (b *boltBackend) DeleteDomainCascade(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		taskIDs := make(map[string]bool)
		err := tx.Bucket(bucketTasks).ForEach(func(_, v []byte) error {
			var t models.Task
			if err := json.Unmarshal(v, &t); err != nil {
				return err
			}
			if t.DomainID == id {
				taskIDs[t.ID] = true
			}
			return nil
		})
		if err != nil {
			return err
		}
		if err := deleteCompletionsOf(tx, taskIDs); err != nil {
			return err
		}
		for taskID := range taskIDs {
			if err := tx.Bucket(bucketTasks).Delete([]byte(taskID)); err != nil {
				return err
			}
		}
		return tx.Bucket(bucketDomains).Delete([]byte(id))
	})
}

func (b *boltBackend) DeleteTaskCascade(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		if err := deleteCompletionsOf(tx, map[string]bool{id: true}); err != nil {
			return err
		}
		return tx.Bucket(bucketTasks).Delete([]byte(id))
	})
}

func deleteCompletionsOf(tx *bolt.Tx, taskIDs map[string]bool) error {
	if len(taskIDs) == 0 {
		return nil
	}
	bucket := tx.Bucket(bucketCompletions)
	var doomed [][]byte
	err := bucket.ForEach(func(k, v []byte) error {
		var comp models.TaskCompletion
		if err := json.Unmarshal(v, &comp); err != nil {
			return err
		}
		if taskIDs[comp.TaskID] {
			doomed = append(doomed, append([]byte(nil), k...))
		}
		return nil
	})
	if err != nil {
		return err
	}
	// the bucket must not be modified during ForEach
	for _, k := range doomed {
		if err := bucket.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func (b *boltBackend) Close() error {
	return b.db.Close()
}
