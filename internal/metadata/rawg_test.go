package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchByName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search"); got != "Outer Wilds" {
			t.Errorf("search param = %q, want Outer Wilds", got)
		}
		if got := r.URL.Query().Get("key"); got != "secret" {
			t.Errorf("key param = %q, want secret", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": [{"name": "Outer Wilds", "playtime": 17}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", time.Second)
	blob, err := c.FetchByName(context.Background(), "Outer Wilds")
	if err != nil {
		t.Fatalf("FetchByName error: %v", err)
	}
	if blob == nil || blob["playtime"] != 17.0 {
		t.Errorf("blob = %v, want playtime 17", blob)
	}
}

func TestFetchByNameNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	blob, err := c.FetchByName(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("FetchByName error: %v", err)
	}
	if blob != nil {
		t.Errorf("blob = %v, want nil on empty results", blob)
	}
}

func TestFetchByNameServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	if _, err := c.FetchByName(context.Background(), "x"); err == nil {
		t.Error("FetchByName returned nil error on 502")
	}
}
