package storage

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Record is anything stored in a collection.
type Record interface {
	GetID() string
}

// Collection is a list of records serialized as one JSON array under one key.
// Every write reads the whole list, changes it and writes it back.
type Collection[T Record] struct {
	s   *Storage
	key string
}

func NewCollection[T Record](s *Storage, key string) Collection[T] {
	return Collection[T]{s: s, key: key}
}

func (c Collection[T]) Key() string {
	return c.key
}

// read returns an empty list for an absent key or malformed content.
// Backend errors are returned.
func (c Collection[T]) read() ([]T, error) {
	raw, ok, err := c.s.kv.Get(c.key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.key, err)
	}
	if !ok || raw == "" {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		c.s.sugar.Debugf("Malformed content under key [%s], treating as empty: %v", c.key, err)
		return []T{}, nil
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (c Collection[T]) write(records []T) error {
	if records == nil {
		records = []T{}
	}
	bytes, err := json.Marshal(records)
	if err != nil {
		return err
	}
	if err := c.s.kv.Set(c.key, string(bytes), 0); err != nil {
		return fmt.Errorf("write %s: %w", c.key, err)
	}
	return nil
}

func (c Collection[T]) All() ([]T, error) {
	return c.read()
}

func (c Collection[T]) Find(id string) (T, bool, error) {
	var zero T

	records, err := c.read()
	if err != nil {
		return zero, false, err
	}

	i := slices.IndexFunc(records, func(r T) bool { return r.GetID() == id })
	if i < 0 {
		return zero, false, nil
	}
	return records[i], true, nil
}

// Mutate runs fn on the current list and writes back what it returns.
// Nothing is written if fn fails.
func (c Collection[T]) Mutate(fn func([]T) ([]T, error)) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	records, err := c.read()
	if err != nil {
		return err
	}

	records, err = fn(records)
	if err != nil {
		return err
	}
	return c.write(records)
}

// Add puts rec in front, newest first.
func (c Collection[T]) Add(rec T) error {
	return c.Mutate(func(records []T) ([]T, error) {
		return append([]T{rec}, records...), nil
	})
}

// Append puts rec at the end, for lists kept oldest first.
func (c Collection[T]) Append(rec T) error {
	return c.Mutate(func(records []T) ([]T, error) {
		return append(records, rec), nil
	})
}

// DeleteByID removes the record with id and reports whether there was one.
func (c Collection[T]) DeleteByID(id string) (bool, error) {
	found := false
	err := c.Mutate(func(records []T) ([]T, error) {
		before := len(records)
		records = slices.DeleteFunc(records, func(r T) bool { return r.GetID() == id })
		found = len(records) != before
		return records, nil
	})
	return found, err
}

// Update replaces the record with rec's id and reports whether it matched.
func (c Collection[T]) Update(rec T) (bool, error) {
	found := false
	err := c.Mutate(func(records []T) ([]T, error) {
		for i := range records {
			if records[i].GetID() == rec.GetID() {
				records[i] = rec
				found = true
			}
		}
		return records, nil
	})
	return found, err
}

func (c Collection[T]) Replace(records []T) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	return c.write(records)
}
