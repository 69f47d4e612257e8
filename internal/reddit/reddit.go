// Package reddit is a small client for the Reddit search API using
// application-only OAuth.
package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vrsandeep/reddit-search-go/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultBaseURL  = "https://oauth.reddit.com"
	DefaultTokenURL = "https://www.reddit.com/api/v1/access_token"
)

// ErrMissingCredentials is returned when the client id or secret is empty.
var ErrMissingCredentials = errors.New("reddit API credentials not found")

// Credentials identify a Reddit "script" or "web" application.
type Credentials struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
}

// Options tune where and how the client searches.
type Options struct {
	BaseURL   string
	TokenURL  string
	Subreddit string
	Sort      string
	Timeout   time.Duration
}

// Client implements models.Searcher against the Reddit API.
type Client struct {
	client     *http.Client
	tokens     oauth2.TokenSource
	apiBaseURL string
	subreddit  string
	sort       string
}

// New creates a client. It does not contact Reddit; use Connect to also
// verify the credentials.
func New(creds Credentials, opts Options) (*Client, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.TokenURL == "" {
		opts.TokenURL = DefaultTokenURL
	}
	if opts.Subreddit == "" {
		opts.Subreddit = "all"
	}
	if opts.Sort == "" {
		opts.Sort = "top"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 20 * time.Second
	}

	// Reddit rejects requests without a descriptive User-Agent, including
	// the token request, so the header is set on the base transport.
	base := &http.Client{
		Timeout:   opts.Timeout,
		Transport: &userAgentTransport{userAgent: creds.UserAgent, base: http.DefaultTransport},
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	cc := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     opts.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	tokens := cc.TokenSource(ctx)

	httpClient := oauth2.NewClient(ctx, tokens)
	httpClient.Timeout = opts.Timeout

	return &Client{
		client:     httpClient,
		tokens:     tokens,
		apiBaseURL: opts.BaseURL,
		subreddit:  opts.Subreddit,
		sort:       opts.Sort,
	}, nil
}

// Connect creates a client and fetches an access token to make sure the
// credentials are accepted.
func Connect(creds Credentials, opts Options) (*Client, error) {
	c, err := New(creds, opts)
	if err != nil {
		return nil, err
	}
	if err := c.Verify(); err != nil {
		return nil, err
	}
	return c, nil
}

// Verify fetches an access token.
func (c *Client) Verify() error {
	if _, err := c.tokens.Token(); err != nil {
		return fmt.Errorf("failed to authenticate with reddit: %w", err)
	}
	return nil
}

// Search returns up to limit posts matching keyword, in the configured sort order.
func (c *Client) Search(ctx context.Context, keyword string, limit int) ([]models.Post, error) {
	endpoint := fmt.Sprintf("%s/r/%s/search", c.apiBaseURL, url.PathEscape(c.subreddit))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Add("q", keyword)
	q.Add("sort", c.sort)
	q.Add("limit", strconv.Itoa(limit))
	q.Add("type", "link")
	q.Add("restrict_sr", "1")
	q.Add("raw_json", "1")
	req.URL.RawQuery = q.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("reddit search returned status %d: %s", resp.StatusCode, body)
	}

	var listing listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode reddit search response: %w", err)
	}

	posts := make([]models.Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		if limit > 0 && len(posts) >= limit {
			break
		}
		d := child.Data
		posts = append(posts, models.Post{
			Title:       d.Title,
			Subreddit:   d.Subreddit,
			Score:       d.Score,
			NumComments: d.NumComments,
			URL:         d.URL,
			CreatedUTC:  d.CreatedUTC,
		})
	}
	return posts, nil
}

type userAgentTransport struct {
	userAgent string
	base      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent == "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(r)
}
