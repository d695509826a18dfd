// Package vault implements the credential vault: an ordered list of provider
// credentials persisted as one serialized slot in a SQLite key-value table.
//
// The whole sequence is rewritten on every mutation, so after Add or Delete
// returns, the persisted state and the in-memory state are identical. A
// missing or malformed slot loads as an empty vault; it is never an error
// surfaced to the caller.
//
// Secrets are stored in plain text. Input masking in the UI is cosmetic, not
// a security property.
package vault

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"bizdeck/internal/logging"

	_ "modernc.org/sqlite"
)

// Category classifies a credential by the kind of integration it unlocks.
type Category string

const (
	CategoryPayment   Category = "payment"
	CategorySocial    Category = "social"
	CategoryEcommerce Category = "ecommerce"
	CategoryOther     Category = "other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPayment, CategorySocial, CategoryEcommerce, CategoryOther:
		return true
	}
	return false
}

// Record is one stored credential.
type Record struct {
	Provider string   `json:"provider"`
	Secret   string   `json:"secret"`
	Category Category `json:"category"`
}

var (
	// ErrEmptyField rejects records with a blank provider or secret.
	ErrEmptyField = errors.New("provider and secret are required")
	// ErrUnknownCategory rejects categories outside the closed set.
	ErrUnknownCategory = errors.New("unknown credential category")
	// ErrOutOfRange rejects deletes at positions the vault does not hold.
	ErrOutOfRange = errors.New("position out of range")
)

// DefaultSlot is the slot key used when none is configured.
const DefaultSlot = "vault_credentials"

// Store owns the credential sequence and its persistence slot.
type Store struct {
	db      *sql.DB
	slot    string
	mu      sync.Mutex
	records []Record
}

// Open creates (or opens) the vault database at path and loads the slot.
// The slot key is injected by the caller rather than hard-coded so tests and
// future migrations can address separate slots in the same database.
func Open(path, slot string) (*Store, error) {
	if slot == "" {
		slot = DefaultSlot
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.Get(logging.CategoryVault).Debug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.Get(logging.CategoryVault).Debug("Failed to set sqlite journal_mode=WAL: %v", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv_slots (
		slot  TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s := &Store{db: db, slot: slot}
	s.records = s.load()
	logging.Vault("Vault opened at %s slot=%s records=%d", path, slot, len(s.records))
	return s, nil
}

// load reads the persisted sequence. A missing or malformed slot yields an
// empty sequence; the caller never sees that as an error.
func (s *Store) load() []Record {
	var raw string
	err := s.db.QueryRow("SELECT value FROM kv_slots WHERE slot = ?", s.slot).Scan(&raw)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logging.VaultError("Failed to read slot %s: %v", s.slot, err)
		}
		return []Record{}
	}

	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		logging.VaultError("Malformed slot %s, treating as empty: %v", s.slot, err)
		return []Record{}
	}
	if records == nil {
		records = []Record{}
	}
	return records
}

// persist rewrites the whole slot from the in-memory sequence.
// Callers must hold s.mu.
func (s *Store) persist() error {
	data, err := json.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("failed to serialize vault: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO kv_slots (slot, value) VALUES (?, ?)
		 ON CONFLICT(slot) DO UPDATE SET value = excluded.value`,
		s.slot, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to persist vault: %w", err)
	}
	return nil
}

// List returns a copy of the credential sequence in stored order.
func (s *Store) List() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of stored credentials.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Add validates and appends a record, then re-persists the whole sequence.
// Invalid input is rejected without touching disk or memory.
func (s *Store) Add(r Record) error {
	if r.Provider == "" || r.Secret == "" {
		return ErrEmptyField
	}
	if !r.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, r.Category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, r)
	if err := s.persist(); err != nil {
		// Roll back the in-memory append so memory and disk stay identical.
		s.records = s.records[:len(s.records)-1]
		return err
	}
	logging.Vault("Added credential provider=%s category=%s", r.Provider, r.Category)
	return nil
}

// Delete removes the record at position, preserving the order of the rest,
// then re-persists the whole sequence.
func (s *Store) Delete(position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if position < 0 || position >= len(s.records) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, position)
	}

	removed := s.records[position]
	backup := make([]Record, len(s.records))
	copy(backup, s.records)

	s.records = append(s.records[:position], s.records[position+1:]...)
	if err := s.persist(); err != nil {
		s.records = backup
		return err
	}
	logging.Vault("Deleted credential provider=%s position=%d", removed.Provider, position)
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
