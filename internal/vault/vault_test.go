package vault

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vault.db")
	s, err := Open(path, "test_slot")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestVaultStartsEmpty(t *testing.T) {
	s, _ := openTestStore(t)
	if s.Len() != 0 {
		t.Fatalf("expected empty vault, got %d records", s.Len())
	}
}

func TestAddRoundTripsThroughReload(t *testing.T) {
	s, path := openTestStore(t)

	rec := Record{Provider: "Stripe", Secret: "sk_123", Category: CategoryPayment}
	if err := s.Add(rec); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", s.Len())
	}
	s.Close()

	// Simulated remount: a fresh store on the same slot sees the same sequence.
	reloaded, err := Open(path, "test_slot")
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reloaded.Close()

	if diff := cmp.Diff([]Record{rec}, reloaded.List()); diff != "" {
		t.Errorf("reloaded sequence mismatch (-want +got):\n%s", diff)
	}

	if err := reloaded.Delete(0); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if reloaded.Len() != 0 {
		t.Fatalf("expected empty vault after delete, got %d", reloaded.Len())
	}
	if got := reloaded.load(); len(got) != 0 {
		t.Errorf("persisted slot should reflect empty sequence, got %v", got)
	}
}

func TestAddRejectsEmptyFields(t *testing.T) {
	s, _ := openTestStore(t)

	cases := []Record{
		{Provider: "", Secret: "secret", Category: CategoryPayment},
		{Provider: "provider", Secret: "", Category: CategoryPayment},
	}
	for _, rec := range cases {
		if err := s.Add(rec); !errors.Is(err, ErrEmptyField) {
			t.Errorf("Add(%+v) = %v, want ErrEmptyField", rec, err)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("rejected adds must not change store size, got %d", s.Len())
	}
}

func TestAddRejectsUnknownCategory(t *testing.T) {
	s, _ := openTestStore(t)

	err := s.Add(Record{Provider: "Shopify", Secret: "tok", Category: "crypto"})
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("Add with unknown category = %v, want ErrUnknownCategory", err)
	}
	if s.Len() != 0 {
		t.Fatal("rejected add must not change store size")
	}
}

func TestDeletePreservesOrder(t *testing.T) {
	s, _ := openTestStore(t)

	records := []Record{
		{Provider: "Stripe", Secret: "a", Category: CategoryPayment},
		{Provider: "Twitter", Secret: "b", Category: CategorySocial},
		{Provider: "Shopify", Secret: "c", Category: CategoryEcommerce},
	}
	for _, r := range records {
		if err := s.Add(r); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	if err := s.Delete(1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	want := []Record{records[0], records[2]}
	if diff := cmp.Diff(want, s.List()); diff != "" {
		t.Errorf("order not preserved after delete (-want +got):\n%s", diff)
	}
}

func TestDeleteOutOfRange(t *testing.T) {
	s, _ := openTestStore(t)
	if err := s.Delete(0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Delete on empty vault = %v, want ErrOutOfRange", err)
	}
	if err := s.Delete(-1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Delete(-1) = %v, want ErrOutOfRange", err)
	}
}

func TestMalformedSlotLoadsEmpty(t *testing.T) {
	s, path := openTestStore(t)
	if _, err := s.db.Exec(
		"INSERT INTO kv_slots (slot, value) VALUES (?, ?) ON CONFLICT(slot) DO UPDATE SET value = excluded.value",
		"test_slot", "{not valid json",
	); err != nil {
		t.Fatal(err)
	}
	s.Close()

	reloaded, err := Open(path, "test_slot")
	if err != nil {
		t.Fatalf("Open must not fail on malformed slot: %v", err)
	}
	defer reloaded.Close()

	if reloaded.Len() != 0 {
		t.Fatalf("malformed slot should load as empty, got %d records", reloaded.Len())
	}
}

func TestPersistedStateMatchesMemoryAfterEveryMutation(t *testing.T) {
	s, _ := openTestStore(t)

	mutations := []func() error{
		func() error {
			return s.Add(Record{Provider: "Stripe", Secret: "1", Category: CategoryPayment})
		},
		func() error {
			return s.Add(Record{Provider: "Meta", Secret: "2", Category: CategorySocial})
		},
		func() error { return s.Delete(0) },
		func() error {
			return s.Add(Record{Provider: "Etsy", Secret: "3", Category: CategoryEcommerce})
		},
	}

	for i, mutate := range mutations {
		if err := mutate(); err != nil {
			t.Fatalf("mutation %d failed: %v", i, err)
		}
		if diff := cmp.Diff(s.List(), s.load()); diff != "" {
			t.Fatalf("after mutation %d persisted != memory (-mem +disk):\n%s", i, diff)
		}
	}
}
