package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Yahoo! Finance: AAPL News</title>
  <item>
    <title>Older headline</title>
    <link>https://example.com/older</link>
    <pubDate>Mon, 01 Jan 2024 10:00:00 +0000</pubDate>
  </item>
  <item>
    <title>Newer headline</title>
    <link>https://example.com/newer</link>
    <pubDate>Tue, 02 Jan 2024 10:00:00 +0000</pubDate>
  </item>
  <item>
    <title>  </title>
    <link>https://example.com/blank</link>
  </item>
  <item>
    <title>Undated headline</title>
    <link>https://example.com/undated</link>
  </item>
</channel>
</rss>`

func TestFeedClient_Headlines(t *testing.T) {
	var gotSymbol string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSymbol = r.URL.Query().Get("s")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feedXML))
	}))
	defer srv.Close()

	client := NewFeedClient(srv.URL+"/rss?s=%s", 5*time.Second)

	t.Run("newest first with blank titles dropped", func(t *testing.T) {
		items, err := client.Headlines(context.Background(), "AAPL", 0)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if gotSymbol != "AAPL" {
			t.Errorf("Expected symbol in query, got %q", gotSymbol)
		}
		if len(items) != 3 {
			t.Fatalf("Expected 3 items, got %d", len(items))
		}
		if items[0].Title != "Newer headline" {
			t.Errorf("Expected newest first, got %q", items[0].Title)
		}
		if items[2].Title != "Undated headline" || items[2].PublishedAt != nil {
			t.Errorf("Expected undated item last, got %+v", items[2])
		}
		if !strings.Contains(items[0].Source, "AAPL") || items[0].Symbol != "AAPL" {
			t.Errorf("Expected source and symbol to be set, got %+v", items[0])
		}
	})

	t.Run("limit", func(t *testing.T) {
		items, err := client.Headlines(context.Background(), "AAPL", 1)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(items) != 1 {
			t.Errorf("Expected 1 item, got %d", len(items))
		}
	})
}

func TestFeedClient_HeadlinesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewFeedClient(srv.URL+"/rss?s=%s", 5*time.Second)
	if _, err := client.Headlines(context.Background(), "AAPL", 5); err == nil {
		t.Error("Expected error for failing feed")
	}
}
