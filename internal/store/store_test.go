package store

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	if err := m.SetWithTTL("a", []byte("hola"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := m.Get("a")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, []byte("hola")) {
		t.Fatalf("got %q", got)
	}

	if _, ok, _ := m.Get("missing"); ok {
		t.Fatal("missing key must read as absent")
	}

	if err := m.Delete("a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := m.Get("a"); ok {
		t.Fatal("deleted key must read as absent")
	}
}

func TestMemoryTTLExpiry(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryWithClock(func() time.Time { return clock })

	if err := m.SetWithTTL("s", []byte("x"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	clock = clock.Add(59 * time.Minute)
	if _, ok, _ := m.Get("s"); !ok {
		t.Fatal("key expired early")
	}

	clock = clock.Add(time.Minute)
	if _, ok, _ := m.Get("s"); ok {
		t.Fatal("key should have expired")
	}
}

func TestMemoryValueIsolation(t *testing.T) {
	m := NewMemory()
	src := []byte("abc")
	m.SetWithTTL("k", src, 0)
	src[0] = 'z'

	got, _, _ := m.Get("k")
	if string(got) != "abc" {
		t.Fatalf("stored value aliased caller slice: %q", got)
	}
	got[0] = 'q'

	again, _, _ := m.Get("k")
	if string(again) != "abc" {
		t.Fatalf("returned value aliased stored slice: %q", again)
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if err := s.SetWithTTL("ses:1", []byte(`{"estado":"iniciando"}`), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := s.Get("ses:1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != `{"estado":"iniciando"}` {
		t.Fatalf("got %q", got)
	}

	// overwrite
	if err := s.SetWithTTL("ses:1", []byte("v2"), time.Hour); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _, _ = s.Get("ses:1")
	if string(got) != "v2" {
		t.Fatalf("overwrite lost: %q", got)
	}

	if err := s.Delete("ses:1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get("ses:1"); ok {
		t.Fatal("deleted key must read as absent")
	}
}

func TestSQLiteOpenFailsOnCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	if err := os.WriteFile(path, []byte("esto no es una base de datos"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := NewSQLite(path); err == nil {
		t.Fatal("want migration error for corrupt file")
	}
}

func TestSQLiteTTLExpiry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	if err := s.SetWithTTL("t", []byte("x"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, _ := s.Get("t"); !ok {
		t.Fatal("fresh key must be present")
	}

	clock = clock.Add(2 * time.Minute)
	if _, ok, _ := s.Get("t"); ok {
		t.Fatal("key should have expired")
	}
}

func TestSQLitePurgeExpired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	s.SetWithTTL("a", []byte("1"), time.Minute)
	s.SetWithTTL("b", []byte("2"), time.Hour)
	s.SetWithTTL("c", []byte("3"), 0)

	clock = clock.Add(30 * time.Minute)
	n, err := s.PurgeExpired()
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Fatalf("purged %d rows, want 1", n)
	}
	if _, ok, _ := s.Get("b"); !ok {
		t.Fatal("unexpired key lost")
	}
	if _, ok, _ := s.Get("c"); !ok {
		t.Fatal("no-TTL key lost")
	}
}
