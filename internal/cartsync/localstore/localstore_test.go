package localstore

import (
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cart.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestGet_MissingKey(t *testing.T) {
	s, _ := openTemp(t)

	var v string
	found, err := s.Get("nope", &v)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("expected missing key")
	}
}

func TestSetGet_RoundTrip(t *testing.T) {
	s, _ := openTemp(t)

	type item struct {
		ID       int64 `json:"id"`
		Quantity int   `json:"quantity"`
	}
	in := []item{{ID: 5, Quantity: 3}, {ID: 9, Quantity: 1}}
	if err := s.Set("cart/items", in); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out []item
	found, err := s.Get("cart/items", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		t.Fatal("expected key present")
	}
	if len(out) != 2 || out[0].ID != 5 || out[0].Quantity != 3 {
		t.Fatalf("unexpected value %+v", out)
	}
}

func TestSet_ReplacesExistingValue(t *testing.T) {
	s, _ := openTemp(t)

	if err := s.Set("flag", true); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set("flag", false); err != nil {
		t.Fatalf("set again: %v", err)
	}

	var v bool
	if _, err := s.Get("flag", &v); err != nil {
		t.Fatalf("get: %v", err)
	}
	if v {
		t.Fatal("expected replaced value false")
	}
}

func TestDelete_MissingKeyIsNoError(t *testing.T) {
	s, _ := openTemp(t)

	if err := s.Delete("nothing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}

	if err := s.Set("k", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var v int
	found, err := s.Get("k", &v)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("expected key deleted")
	}
}

func TestOpen_ValuesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s1.Set("cart/dirty", true); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	var dirty bool
	found, err := s2.Get("cart/dirty", &dirty)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found || !dirty {
		t.Fatalf("expected persisted dirty flag, found=%v dirty=%v", found, dirty)
	}
}
