package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, UserAgentName+"/") {
			t.Errorf("User-Agent = %q, want prefix %s/", ua, UserAgentName)
		}
		if got := r.Header.Get("X-Test"); got != "yes" {
			t.Errorf("X-Test header = %q, want yes", got)
		}
		_, _ = w.Write([]byte("payload"))
	}))
	defer server.Close()

	data, err := Fetch(context.Background(), server.URL, FetchOptions{
		Headers: map[string]string{"X-Test": "yes"},
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("Fetch() = %q, want payload", data)
	}
}

func TestFetch_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := Fetch(context.Background(), server.URL, FetchOptions{})
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("Fetch() error = %v, want HTTP 404", err)
	}
}

func TestFetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	if _, err := Fetch(context.Background(), server.URL, FetchOptions{Timeout: 50 * time.Millisecond}); err == nil {
		t.Error("Fetch() expected timeout error")
	}
}
