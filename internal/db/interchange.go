package db

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/balkashynov/lifetrack/internal/models"
)

var interchangeFields = []string{"domains", "tasks", "completions"}

// ExportJSON serializes the current snapshot as the interchange document.
func (s *Store) ExportJSON(ctx context.Context) ([]byte, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	snap.Normalize()
	return json.MarshalIndent(snap, "", "  ")
}

// DecodeSnapshot parses an interchange document. The three top-level fields
// must be present and be lists; individual records are not validated beyond
// what decoding requires.
func DecodeSnapshot(data []byte) (models.Snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return models.Snapshot{}, invalid(err)
	}
	for _, name := range interchangeFields {
		raw, ok := fields[name]
		if !ok {
			return models.Snapshot{}, invalid(fmt.Errorf("missing %q", name))
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '[' {
			return models.Snapshot{}, invalid(fmt.Errorf("%q is not a list", name))
		}
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.Snapshot{}, invalid(err)
	}
	snap.Normalize()
	return snap, nil
}

func invalid(err error) error {
	return models.WrapError(models.ErrInvalidData.Code, models.ErrInvalidData.Message, err)
}

// ImportJSON validates the document and replaces the whole store with it.
// Nothing is written when validation fails.
func (s *Store) ImportJSON(ctx context.Context, data []byte) error {
	snap, err := DecodeSnapshot(data)
	if err != nil {
		return err
	}
	return s.Save(ctx, snap)
}

// ResetToDefaults overwrites the store with the default dataset regardless of
// its current contents.
func (s *Store) ResetToDefaults(ctx context.Context) error {
	return s.Save(ctx, models.DefaultData())
}
