// Package github resolves notebook commit history through the GitHub REST
// API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"golang.org/x/time/rate"
)

// ErrNoHistory is returned when the API reports no commits for the queried
// path and time range.
var ErrNoHistory = errors.New("no commit history found")

// DefaultPageCap bounds how many pages of commit history the day-option
// listing walks. 100 commits per page over 10 pages covers years of notebook
// updates.
const DefaultPageCap = 10

// DayRevision pins one calendar day to the most recent revision committed on
// that day.
type DayRevision struct {
	// Day is the UTC calendar day, formatted 2006-01-02.
	Day string `json:"day"`
	// SHA is the full commit hash.
	SHA string `json:"sha"`
}

// Client wraps the GitHub API client with rate limiting.
type Client struct {
	client      *github.Client
	rateLimiter *rate.Limiter
	pageCap     int
}

// NewClient creates a GitHub client. The token may be empty for anonymous
// access; commit listing on public repositories does not require auth, only
// a higher rate budget.
func NewClient(token string, rateLimit int) *Client {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if rateLimit <= 0 {
		rateLimit = 1
	}

	return &Client{
		client:      client,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), 1),
		pageCap:     DefaultPageCap,
	}
}

// SetBaseURL points the client at an alternate API endpoint. Used by tests.
func (c *Client) SetBaseURL(baseURL string) error {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	c.client.BaseURL = u
	return nil
}

// SplitSlug splits an owner/repository slug into its parts.
func SplitSlug(slug string) (owner, name string, err error) {
	parts := strings.SplitN(slug, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository slug %q", slug)
	}
	return parts[0], parts[1], nil
}

// DayRevisions pages through the commit history of one file and collapses it
// to at most one entry per calendar day. The API returns commits newest
// first, so the first commit observed for a day is that day's most recent
// revision and wins; the resulting list stays sorted descending by day.
// Pagination stops at the page cap or on the first empty page.
func (c *Client) DayRevisions(ctx context.Context, slug, path string) ([]DayRevision, error) {
	owner, name, err := SplitSlug(slug)
	if err != nil {
		return nil, err
	}

	opts := &github.CommitsListOptions{
		Path: path,
		ListOptions: github.ListOptions{
			PerPage: 100,
			Page:    1,
		},
	}

	var all []*github.RepositoryCommit
	for page := 1; page <= c.pageCap; page++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		opts.Page = page
		commits, resp, err := c.client.Repositories.ListCommits(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("list commits: %w", err)
		}
		if len(commits) == 0 {
			break
		}
		all = append(all, commits...)
		if resp.NextPage == 0 {
			break
		}
	}

	return collapseByDay(all), nil
}

// ResolveAt returns the revision of the latest commit touching the file at
// or before the end of the given UTC calendar day. Returns ErrNoHistory when
// the file has no commit up to that point.
func (c *Client) ResolveAt(ctx context.Context, slug, path string, day time.Time) (string, error) {
	owner, name, err := SplitSlug(slug)
	if err != nil {
		return "", err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	// Fix the cutoff to 23:59:59 UTC so the answer for a given day is
	// deterministic regardless of the caller's timezone.
	until := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, time.UTC)

	opts := &github.CommitsListOptions{
		Path:  path,
		Until: until,
		ListOptions: github.ListOptions{
			PerPage: 1,
		},
	}

	commits, _, err := c.client.Repositories.ListCommits(ctx, owner, name, opts)
	if err != nil {
		return "", fmt.Errorf("list commits: %w", err)
	}
	if len(commits) == 0 {
		return "", ErrNoHistory
	}
	return commits[0].GetSHA(), nil
}

// collapseByDay keeps the first (newest) commit per UTC calendar day,
// preserving the newest-first input order.
func collapseByDay(commits []*github.RepositoryCommit) []DayRevision {
	var revisions []DayRevision
	seen := make(map[string]bool)

	for _, commit := range commits {
		sha := commit.GetSHA()
		date := commit.GetCommit().GetAuthor().GetDate()
		if sha == "" || date.IsZero() {
			continue
		}
		day := date.Time.UTC().Format("2006-01-02")
		if seen[day] {
			continue
		}
		seen[day] = true
		revisions = append(revisions, DayRevision{Day: day, SHA: sha})
	}

	return revisions
}
