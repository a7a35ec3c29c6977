package profit

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sheetCSV = `MRR,"$12,500"
Profit,"$4,200"
Margin,33.6%
Target,"$15,000"
Trending,up
Notes,ignore me
`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient("sheet", "0")
	c.url = server.URL
	c.SetHTTPClient(server.Client())
	return c, server
}

func TestFetch_ParsesLabelledRows(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sheetCSV))
	})

	snap, err := c.Fetch()
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if snap.MRR != 12500 || snap.Profit != 4200 || snap.Target != 15000 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Margin != 33.6 || snap.Trending != "up" {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Stale {
		t.Error("fresh fetch marked stale")
	}
}

func TestFetch_CachesWithinTTL(t *testing.T) {
	hits := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(sheetCSV))
	})

	if _, err := c.Fetch(); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if _, err := c.Fetch(); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if hits != 1 {
		t.Errorf("upstream hits = %d, want 1 (second fetch cached)", hits)
	}
}

func TestFetch_ServesStaleOnFailure(t *testing.T) {
	fail := false
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "quota", http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(sheetCSV))
	})

	if _, err := c.Fetch(); err != nil {
		t.Fatalf("prime cache: %v", err)
	}

	// Expire the cache, then break the upstream.
	c.at = c.at.Add(-2 * CacheTTL)
	fail = true

	snap, err := c.Fetch()
	if err != nil {
		t.Fatalf("fetch with stale cache: %v", err)
	}
	if !snap.Stale {
		t.Error("fallback snapshot not marked stale")
	}
	if snap.MRR != 12500 {
		t.Errorf("stale snapshot = %+v", snap)
	}
}

func TestFetch_ErrorWithoutCache(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})

	_, err := c.Fetch()
	if err == nil {
		t.Fatal("expected error with no cache to fall back on")
	}
	if !strings.Contains(err.Error(), "CSV export") {
		t.Errorf("err = %v, want setup hint", err)
	}
}

func TestParseMoney(t *testing.T) {
	cases := map[string]float64{
		"$12,500": 12500,
		"33.6%":   33.6,
		"1 200":   1200,
		"garbage": 0,
	}
	for in, want := range cases {
		if got := parseMoney(in); got != want {
			t.Errorf("parseMoney(%q) = %v, want %v", in, got, want)
		}
	}
}
