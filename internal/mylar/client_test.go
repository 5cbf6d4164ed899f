package mylar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"mylarsensor/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(config.Mylar{Host: "ignored", Port: 1, APIKey: "secret"}, WithBaseURL(server.URL))
	if err != nil {
		t.Fatal(err)
	}
	return client, server
}

func TestGetHistoryDecodesDataEnvelope(t *testing.T) {
	var gotPath, gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"data":[
			{"ComicName":"Saga","Issue_Number":"54","DateAdded":"2019-05-01 10:00:00","Status":"Snatched","IssueID":"777","ComicID":"101"},
			{"ComicName":"Monstress","Issue_Number":"21","DateAdded":"2019-05-02 11:30:00","Status":"Post-Processed","IssueID":null,"ComicID":"102"}
		]}`))
	})

	entries, err := client.GetHistory(context.Background())
	if err != nil {
		t.Fatalf("GetHistory returned error: %v", err)
	}
	if gotPath != "/api" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotQuery != "apikey=secret&cmd=getHistory" {
		t.Fatalf("unexpected query: %q", gotQuery)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].IssueNumber != "54" || entries[0].Status != "Snatched" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].IssueID != "" {
		t.Fatalf("null IssueID should decode to empty string, got %q", entries[1].IssueID)
	}
}

func TestGetUpcomingDecodesBareList(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("cmd") != "getUpcoming" {
			t.Errorf("unexpected cmd: %q", r.URL.Query().Get("cmd"))
		}
		w.Write([]byte(`[{"ComicName":"Paper Girls","IssueNumber":"30","IssueDate":"2019-07-31","ComicID":"103"}]`))
	})

	entries, err := client.GetUpcoming(context.Background())
	if err != nil {
		t.Fatalf("GetUpcoming returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].IssueDate != "2019-07-31" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestGetHistoryErrorsOnBadStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	if _, err := client.GetHistory(context.Background()); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestNewBuildsBaseURLWithURLBaseAndSSL(t *testing.T) {
	client, err := New(config.Mylar{Host: "comics.local", Port: 8443, URLBase: "mylar/", SSL: true, APIKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	if client.baseURL != "https://comics.local:8443/mylar/" {
		t.Fatalf("unexpected base url: %q", client.baseURL)
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(config.Mylar{Host: "h", Port: 1}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
