package ecs

import (
	"bytes"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Registry is a keyed collection that records when each item was stored
// and captures its own structured log. The log goes to an in-memory
// buffer so library users can inspect registry activity without wiring a
// logger themselves.
type Registry[K comparable, T any] struct {
	name       string
	items      map[K]T
	timestamps map[K]time.Time
	logBuf     bytes.Buffer
	logger     *log.Logger
}

// RegistryStatus summarizes a registry's contents.
type RegistryStatus struct {
	Name      string
	Total     int
	OldestKey string // empty when the registry is empty
	NewestKey string
}

// NewRegistry creates an empty registry. The name prefixes every log line
// and identifies the registry in status reports.
func NewRegistry[K comparable, T any](name string) *Registry[K, T] {
	r := &Registry[K, T]{
		name:       name,
		items:      make(map[K]T),
		timestamps: make(map[K]time.Time),
	}
	r.logger = log.NewWithOptions(&r.logBuf, log.Options{
		ReportTimestamp: true,
		Prefix:          name,
	})
	return r
}

// Put stores an item under key, replacing any previous value and
// refreshing the key's timestamp.
func (r *Registry[K, T]) Put(key K, item T) {
	_, replaced := r.items[key]
	r.items[key] = item
	r.timestamps[key] = time.Now().UTC()
	if replaced {
		r.logger.Info("replaced item", "key", key)
	} else {
		r.logger.Info("registered item", "key", key)
	}
}

// Get returns the item stored under key.
func (r *Registry[K, T]) Get(key K) (T, bool) {
	item, ok := r.items[key]
	return item, ok
}

// Remove deletes the item under key and reports whether it existed.
func (r *Registry[K, T]) Remove(key K) bool {
	if _, ok := r.items[key]; !ok {
		return false
	}
	delete(r.items, key)
	delete(r.timestamps, key)
	r.logger.Info("removed item", "key", key)
	return true
}

// Clear removes every item.
func (r *Registry[K, T]) Clear() {
	n := len(r.items)
	r.items = make(map[K]T)
	r.timestamps = make(map[K]time.Time)
	r.logger.Info("cleared registry", "removed", n)
}

// Len returns the number of stored items.
func (r *Registry[K, T]) Len() int {
	return len(r.items)
}

// Keys returns the stored keys in unspecified order.
func (r *Registry[K, T]) Keys() []K {
	keys := make([]K, 0, len(r.items))
	for k := range r.items {
		keys = append(keys, k)
	}
	return keys
}

// Timestamp returns when the item under key was last stored.
func (r *Registry[K, T]) Timestamp(key K) (time.Time, bool) {
	t, ok := r.timestamps[key]
	return t, ok
}

// Status reports the registry's size and its oldest and newest keys.
func (r *Registry[K, T]) Status() RegistryStatus {
	status := RegistryStatus{Name: r.name, Total: len(r.items)}
	var oldest, newest time.Time
	for k, t := range r.timestamps {
		if oldest.IsZero() || t.Before(oldest) {
			oldest = t
			status.OldestKey = fmt.Sprint(k)
		}
		if newest.IsZero() || t.After(newest) {
			newest = t
			status.NewestKey = fmt.Sprint(k)
		}
	}
	return status
}

// Logs returns everything the registry has logged since the last
// ClearLogs call.
func (r *Registry[K, T]) Logs() string {
	return r.logBuf.String()
}

// ClearLogs discards the captured log.
func (r *Registry[K, T]) ClearLogs() {
	r.logBuf.Reset()
}

// SetLogLevel adjusts the verbosity of the captured log.
func (r *Registry[K, T]) SetLogLevel(level log.Level) {
	r.logger.SetLevel(level)
}
