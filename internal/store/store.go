// Package store persists planner sheets as one diskv record per calendar
// date, and owns the keying scheme and the legacy single-record migration.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/peterbourgon/diskv/v3"

	"zenith-planner/internal/plan"
)

const (
	// keyPrefix namespaces every planner record in the key-value store.
	keyPrefix = "zenith_planner_"

	// legacyKey is the pre-migration single-record key, from before sheets
	// were keyed by date.
	legacyKey = keyPrefix + "state"
)

// Store is a diskv-backed key-value store of serialized planner sheets,
// one record per date.
type Store struct {
	d        *diskv.Diskv
	basePath string
}

// Open creates the base directory if needed and returns a Store over it.
// Records are laid out flat: one file per key.
func Open(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		basePath: basePath,
	}, nil
}

// KeyForDate maps a calendar date to its storage key.
func KeyForDate(date string) string {
	return keyPrefix + date
}

// DateForKey is the inverse of KeyForDate. It returns "" for keys that do
// not name a per-date record (including the legacy key).
func DateForKey(key string) string {
	if key == legacyKey || len(key) <= len(keyPrefix) || key[:len(keyPrefix)] != keyPrefix {
		return ""
	}
	date := key[len(keyPrefix):]
	if !plan.ValidDate(date) {
		return ""
	}
	return date
}

// Has reports whether a record exists for the given date.
func (s *Store) Has(date string) bool {
	return s.d.Has(KeyForDate(date))
}

// Load returns the sheet for a date, preferring persisted data and never
// failing: a missing or malformed record degrades to a fresh default sheet.
// The returned state always carries the requested date and the weekday
// derived from it, regardless of what the record claimed.
func (s *Store) Load(date string) plan.State {
	key := KeyForDate(date)
	if !s.d.Has(key) {
		return plan.NewState(date)
	}

	raw, err := s.d.Read(key)
	if err != nil {
		log.Printf("Warning: failed to read record %s: %v", key, err)
		return plan.NewState(date)
	}

	var st plan.State
	if err := json.Unmarshal(raw, &st); err != nil {
		// A wrongly-typed field decodes to its zero value while the rest of
		// the record survives; Repair fills the gap. Only records that fail
		// to parse at all fall back to defaults.
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			log.Printf("Warning: malformed record %s, using defaults: %v", key, err)
			return plan.NewState(date)
		}
		log.Printf("Warning: record %s has a malformed %q field, repairing: %v", key, typeErr.Field, err)
	}

	st.Repair()
	// Stale or copied records may carry another day's identity.
	st.Date = date
	st.SelectedDay = plan.Weekday(date)
	return st
}

// Save writes the sheet under the key derived from its own date.
func (s *Store) Save(st plan.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal plan state: %w", err)
	}
	if err := s.d.Write(KeyForDate(st.Date), data); err != nil {
		return fmt.Errorf("failed to write record for %s: %w", st.Date, err)
	}
	return nil
}

// Delete removes the record for a date. Missing records are not an error.
func (s *Store) Delete(date string) error {
	key := KeyForDate(date)
	if !s.d.Has(key) {
		return nil
	}
	return s.d.Erase(key)
}

// BasePath returns the directory backing the store.
func (s *Store) BasePath() string {
	return s.basePath
}
