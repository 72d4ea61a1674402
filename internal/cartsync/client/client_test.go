package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/domain"
)

func TestMerge_GuestItemsAddToRemote(t *testing.T) {
	local := []domain.CartItem{{ID: 5, Quantity: 1}}
	remote := []domain.CartItem{{ID: 5, Quantity: 2}, {ID: 9, Quantity: 1}}

	merged := Merge(local, remote)

	if len(merged) != 2 {
		t.Fatalf("expected 2 items, got %+v", merged)
	}
	if merged[0].ID != 5 || merged[0].Quantity != 3 {
		t.Fatalf("expected id 5 qty 3, got %+v", merged[0])
	}
	if merged[1].ID != 9 || merged[1].Quantity != 1 {
		t.Fatalf("expected id 9 qty 1, got %+v", merged[1])
	}
}

func TestMerge_DisjointCartsConcatenate(t *testing.T) {
	local := []domain.CartItem{{ID: 1, Quantity: 2}}
	remote := []domain.CartItem{{ID: 2, Quantity: 3}}

	merged := Merge(local, remote)

	if len(merged) != 2 {
		t.Fatalf("expected 2 items, got %+v", merged)
	}
	if merged[0].ID != 2 || merged[1].ID != 1 {
		t.Fatalf("remote items must come first, got %+v", merged)
	}
}

func TestMerge_EmptyInputs(t *testing.T) {
	if got := Merge(nil, nil); len(got) != 0 {
		t.Fatalf("expected empty merge, got %+v", got)
	}

	local := []domain.CartItem{{ID: 1, Quantity: 1}}
	got := Merge(local, nil)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected local passthrough, got %+v", got)
	}

	remote := []domain.CartItem{{ID: 2, Quantity: 4}}
	got = Merge(nil, remote)
	if len(got) != 1 || got[0].Quantity != 4 {
		t.Fatalf("expected remote passthrough, got %+v", got)
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	local := []domain.CartItem{{ID: 1, Quantity: 1}}
	remote := []domain.CartItem{{ID: 1, Quantity: 2}}

	Merge(local, remote)

	if local[0].Quantity != 1 || remote[0].Quantity != 2 {
		t.Fatalf("merge mutated inputs: local=%+v remote=%+v", local, remote)
	}
}

func TestPush_SendsCartWithSessionCookie(t *testing.T) {
	var gotBody struct {
		Cart []domain.CartItem `json:"cart"`
	}
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/cart/sync" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if c, err := r.Cookie(CookieName); err == nil {
			gotCookie = c.Value
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cl := New(srv.URL, "sess-token")
	items := []domain.CartItem{{ID: 5, Quantity: 3}}
	if err := cl.Push(context.Background(), items); err != nil {
		t.Fatalf("push: %v", err)
	}

	if gotCookie != "sess-token" {
		t.Fatalf("expected session cookie, got %q", gotCookie)
	}
	if len(gotBody.Cart) != 1 || gotBody.Cart[0].ID != 5 {
		t.Fatalf("unexpected payload %+v", gotBody.Cart)
	}
}

func TestPush_NilCartSendsEmptyArray(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cl := New(srv.URL, "tok")
	if err := cl.Push(context.Background(), nil); err != nil {
		t.Fatalf("push: %v", err)
	}

	if string(raw["cart"]) != "[]" {
		t.Fatalf("expected empty array, got %s", raw["cart"])
	}
}

func TestPush_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	cl := New(srv.URL, "expired")
	if err := cl.Push(context.Background(), nil); err == nil {
		t.Fatal("expected error on 401")
	}
}

func TestPull_DecodesCartEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/cart" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cart":[{"id":9,"name":"thing","priceCents":400,"quantity":2}]}`))
	}))
	defer srv.Close()

	cl := New(srv.URL, "tok")
	items, err := cl.Pull(context.Background())
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if len(items) != 1 || items[0].ID != 9 || items[0].Quantity != 2 {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestPull_ErrorReturnsEmptySlice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cl := New(srv.URL, "tok")
	items, err := cl.Pull(context.Background())
	if err == nil {
		t.Fatal("expected error on 500")
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
}

func TestSetSession_SwapsCookieValue(t *testing.T) {
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(CookieName); err == nil {
			gotCookie = c.Value
		}
		w.Write([]byte(`{"cart":[]}`))
	}))
	defer srv.Close()

	cl := New(srv.URL, "old")
	cl.SetSession("new")
	if _, err := cl.Pull(context.Background()); err != nil {
		t.Fatalf("pull: %v", err)
	}
	if gotCookie != "new" {
		t.Fatalf("expected swapped cookie, got %q", gotCookie)
	}
}
