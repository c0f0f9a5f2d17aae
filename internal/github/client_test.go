package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitAt(sha string, date time.Time) *github.RepositoryCommit {
	return &github.RepositoryCommit{
		SHA: github.String(sha),
		Commit: &github.Commit{
			Author: &github.CommitAuthor{
				Date: &github.Timestamp{Time: date},
			},
		},
	}
}

func TestCollapseByDay(t *testing.T) {
	day := func(s string, hour int) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d.Add(time.Duration(hour) * time.Hour)
	}

	// Newest first, several commits on the same day: the first one seen for
	// a day must win.
	commits := []*github.RepositoryCommit{
		commitAt("c5", day("2024-03-05", 18)),
		commitAt("c4", day("2024-03-05", 9)),
		commitAt("c3", day("2024-03-02", 23)),
		commitAt("c2", day("2024-03-02", 1)),
		commitAt("c1", day("2024-02-28", 12)),
	}

	revisions := collapseByDay(commits)
	assert.Equal(t, []DayRevision{
		{Day: "2024-03-05", SHA: "c5"},
		{Day: "2024-03-02", SHA: "c3"},
		{Day: "2024-02-28", SHA: "c1"},
	}, revisions)
}

func TestCollapseByDaySkipsIncompleteRecords(t *testing.T) {
	commits := []*github.RepositoryCommit{
		{SHA: github.String("nodate")},
		commitAt("ok", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	revisions := collapseByDay(commits)
	assert.Equal(t, []DayRevision{{Day: "2024-01-01", SHA: "ok"}}, revisions)
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("", 100)
	require.NoError(t, client.SetBaseURL(server.URL+"/"))
	return client, server
}

func TestDayRevisionsPaginates(t *testing.T) {
	var pagesServed []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/ddblabs/statistics/commits", r.URL.Path)
		assert.Equal(t, "history.json", r.URL.Query().Get("path"))

		page := r.URL.Query().Get("page")
		pagesServed = append(pagesServed, page)

		w.Header().Set("Content-Type", "application/json")
		switch page {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<%s?page=2>; rel="next"`, "http://"+r.Host+r.URL.Path))
			json.NewEncoder(w).Encode([]*github.RepositoryCommit{
				commitAt("b2", time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)),
				commitAt("b1", time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)),
			})
		default:
			json.NewEncoder(w).Encode([]*github.RepositoryCommit{})
		}
	}))

	revisions, err := client.DayRevisions(context.Background(), "ddblabs/statistics", "history.json")
	require.NoError(t, err)
	assert.Equal(t, []DayRevision{
		{Day: "2024-03-05", SHA: "b2"},
		{Day: "2024-03-04", SHA: "b1"},
	}, revisions)
	assert.Len(t, pagesServed, 2)
}

func TestDayRevisionsAPIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	}))

	_, err := client.DayRevisions(context.Background(), "ddblabs/statistics", "history.json")
	assert.Error(t, err)
}

func TestDayRevisionsInvalidSlug(t *testing.T) {
	client := NewClient("", 10)
	_, err := client.DayRevisions(context.Background(), "notaslug", "x")
	assert.Error(t, err)
}

func TestResolveAt(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Cutoff is pinned to the end of the requested day in UTC.
		assert.Equal(t, "2024-03-05T23:59:59Z", r.URL.Query().Get("until"))
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]*github.RepositoryCommit{
			commitAt("deadbeef", time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)),
		})
	}))

	day := time.Date(2024, 3, 5, 15, 30, 0, 0, time.FixedZone("CET", 3600))
	sha, err := client.ResolveAt(context.Background(), "ddblabs/statistics", "nb/sparten.ipynb", day)
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", sha)
}

func TestResolveAtNoHistory(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]*github.RepositoryCommit{})
	}))

	_, err := client.ResolveAt(context.Background(), "ddblabs/statistics", "nb/neu.ipynb", time.Now())
	assert.ErrorIs(t, err, ErrNoHistory)
}
