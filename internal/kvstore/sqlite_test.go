package kvstore

import (
	"testing"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := newTestSQLite(t)

	if err := s.Set("garagedesk_customers_t1", []byte(`[{"id":"c1"}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, ok, err := s.Get("garagedesk_customers_t1")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(data) != `[{"id":"c1"}]` {
		t.Fatalf("unexpected value: %s", data)
	}
}

func TestSQLiteStoreOverwrite(t *testing.T) {
	s := newTestSQLite(t)

	if err := s.Set("k", []byte("one")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set("k", []byte("two")); err != nil {
		t.Fatalf("Set again: %v", err)
	}

	data, ok, _ := s.Get("k")
	if !ok || string(data) != "two" {
		t.Fatalf("expected latest write to win, got ok=%v %q", ok, data)
	}
}

func TestSQLiteStoreDeleteAndKeys(t *testing.T) {
	s := newTestSQLite(t)

	for _, key := range []string{"garagedesk_a_1", "garagedesk_a_2", "garagedesk_b_1"} {
		if err := s.Set(key, []byte("[]")); err != nil {
			t.Fatalf("Set %s: %v", key, err)
		}
	}
	if err := s.Delete("garagedesk_a_2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete("garagedesk_a_2"); err != nil {
		t.Fatalf("Delete of missing key: %v", err)
	}

	keys, err := s.Keys("garagedesk_a_")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 1 || keys[0] != "garagedesk_a_1" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}
