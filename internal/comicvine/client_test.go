package comicvine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLookupByIssueIDReturnsFirstResultWithQueryURL(t *testing.T) {
	var gotFilter string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFilter = r.URL.Query().Get("filter")
		if r.URL.Query().Get("api_key") != "key" {
			t.Errorf("missing api key in query: %v", r.URL.Query())
		}
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("missing format flag in query: %v", r.URL.Query())
		}
		w.Write([]byte(`{"results":[{"name":"The Quiet Part","image":{"thumb_url":"http://img/1.jpg"}},{"name":"second"}]}`))
	}))
	defer server.Close()

	client, err := New("key", server.URL)
	if err != nil {
		t.Fatal(err)
	}

	record, err := client.Lookup(context.Background(), IssueIdentity("991"))
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if gotFilter != "id:991" {
		t.Fatalf("unexpected filter: %q", gotFilter)
	}
	if record.Name() != "The Quiet Part" {
		t.Fatalf("expected first result, got name %q", record.Name())
	}
	if record.IsPlaceholder() {
		t.Fatal("real result flagged as placeholder")
	}
	if url, ok := record["cvurl"].(string); !ok || url == "" {
		t.Fatalf("expected query URL attached to record, got %v", record["cvurl"])
	}
	if thumb, ok := record.ThumbURL(); !ok || thumb != "http://img/1.jpg" {
		t.Fatalf("unexpected thumb url: %q %v", thumb, ok)
	}
}

func TestLookupByVolumeBuildsCompositeFilter(t *testing.T) {
	var gotFilter string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFilter = r.URL.Query().Get("filter")
		w.Write([]byte(`{"results":[{"name":"x"}]}`))
	}))
	defer server.Close()

	client, err := New("key", server.URL)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := client.Lookup(context.Background(), VolumeIdentity("7", "3")); err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if gotFilter != "volume:7,issue_number:3" {
		t.Fatalf("unexpected filter: %q", gotFilter)
	}
}

func TestLookupCachesNothingOnTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client, err := New("key", server.URL)
	if err != nil {
		t.Fatal(err)
	}

	record, err := client.Lookup(context.Background(), IssueIdentity("1"))
	if err == nil {
		t.Fatal("expected transport error")
	}
	if record != nil {
		t.Fatalf("transport failure must not yield a record, got %v", record)
	}
}

func TestLookupReturnsPlaceholderOnUpstreamMiss(t *testing.T) {
	cases := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{"not found", http.StatusNotFound, `{"error":"missing"}`, 404},
		{"empty results", http.StatusOK, `{"results":[]}`, 200},
		{"malformed body", http.StatusOK, `{"results":`, 200},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client, err := New("key", server.URL)
			if err != nil {
				t.Fatal(err)
			}

			record, err := client.Lookup(context.Background(), IssueIdentity("404"))
			if err != nil {
				t.Fatalf("upstream miss should not error: %v", err)
			}
			if !record.IsPlaceholder() {
				t.Fatalf("expected placeholder, got %v", record)
			}
			if got, ok := record["cvres"].(int); !ok || got != tc.wantStatus {
				t.Fatalf("placeholder status = %v, want %d", record["cvres"], tc.wantStatus)
			}
			if record["cvurl"] == "" {
				t.Fatal("placeholder missing query URL")
			}
		})
	}
}

func TestLookupRejectsZeroIdentity(t *testing.T) {
	client, err := New("key", "http://localhost:1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Lookup(context.Background(), Identity{}); err != ErrMissingIdentity {
		t.Fatalf("expected ErrMissingIdentity, got %v", err)
	}
}
