// Package profit pulls the business metrics the operator keeps in a shared
// spreadsheet, via its CSV export URL. Results are cached in-process; a fetch
// failure serves the stale cache rather than an empty dashboard.
package profit

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// CacheTTL is how long a fetched snapshot stays fresh.
const CacheTTL = 5 * time.Minute

// Snapshot is the parsed metrics sheet.
type Snapshot struct {
	MRR         float64 `json:"mrr"`
	Profit      float64 `json:"profit"`
	Margin      float64 `json:"margin"`
	Target      float64 `json:"target"`
	Trending    string  `json:"trending"`
	LastUpdated int64   `json:"lastUpdated"`
	Stale       bool    `json:"stale,omitempty"`
}

// Client fetches and caches the sheet.
type Client struct {
	url  string
	http *http.Client

	mu     sync.Mutex
	cached *Snapshot
	at     time.Time
}

// NewClient builds a client for one sheet. sheetID and gid identify the
// published CSV export.
func NewClient(sheetID, gid string) *Client {
	return &Client{
		url: fmt.Sprintf(
			"https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s",
			sheetID, gid),
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetHTTPClient swaps the transport, for tests.
func (c *Client) SetHTTPClient(h *http.Client) { c.http = h }

// Fetch returns the current snapshot, from cache when fresh. On a fetch or
// parse failure it falls back to the stale cache when one exists.
func (c *Client) Fetch() (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && time.Since(c.at) < CacheTTL {
		return c.cached, nil
	}

	snap, err := c.fetchRemote()
	if err != nil {
		if c.cached != nil {
			stale := *c.cached
			stale.Stale = true
			return &stale, nil
		}
		return nil, fmt.Errorf("profit: fetch: %w (check that the sheet is shared as CSV export)", err)
	}

	c.cached = snap
	c.at = time.Now()
	return snap, nil
}

func (c *Client) fetchRemote() (*Snapshot, error) {
	resp, err := c.http.Get(c.url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheet returned %s", resp.Status)
	}
	return parse(resp.Body)
}

// parse reads label/value rows. Unknown labels are ignored so the operator
// can keep extra rows in the sheet.
func parse(r io.Reader) (*Snapshot, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	snap := &Snapshot{LastUpdated: time.Now().UnixMilli()}
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(row[0]))
		value := strings.TrimSpace(row[1])
		switch label {
		case "mrr":
			snap.MRR = parseMoney(value)
		case "profit":
			snap.Profit = parseMoney(value)
		case "margin":
			snap.Margin = parseMoney(value)
		case "target":
			snap.Target = parseMoney(value)
		case "trending":
			snap.Trending = value
		}
	}
	return snap, nil
}

// parseMoney strips currency/percent decoration before parsing. Unparseable
// values read as zero; the sheet is operator-maintained and best-effort.
func parseMoney(s string) float64 {
	cleaned := strings.NewReplacer("$", "", ",", "", "%", "", " ", "").Replace(s)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}
