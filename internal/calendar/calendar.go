// Package calendar holds the Google Calendar integration surface. The OAuth
// plumbing is assembled from config, but event fetching is not implemented
// yet; callers map ErrNotImplemented to a 501 with setup guidance.
package calendar

import (
	"context"
	"errors"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrNotImplemented marks the fetch path that still needs OAuth credentials
// wired end to end.
var ErrNotImplemented = errors.New("calendar: google calendar fetch not implemented")

// Scope is the read-only calendar scope requested during consent.
const Scope = "https://www.googleapis.com/auth/calendar.readonly"

// Event is one external calendar entry, once fetching lands.
type Event struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Location  string    `json:"location,omitempty"`
}

// Client wraps the OAuth config for one Google account.
type Client struct {
	oauth *oauth2.Config
}

// NewClient assembles the OAuth config from application credentials.
func NewClient(clientID, clientSecret, redirectURL string) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{Scope},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL returns the consent URL to start the OAuth flow.
func (c *Client) AuthURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token.
func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return c.oauth.Exchange(ctx, code)
}

// Upcoming will return events in the next days once fetching is wired; for
// now it always reports ErrNotImplemented with an empty list.
func (c *Client) Upcoming(ctx context.Context, days int) ([]Event, error) {
	return []Event{}, ErrNotImplemented
}
