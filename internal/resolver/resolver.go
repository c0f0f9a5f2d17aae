// Package resolver repoints launch links at historical notebook revisions.
//
// The global resolver is a three-phase state machine: Loading while the day
// options are being fetched, Ready once the selector is populated and the
// live branch is implicitly selected, Historical while a specific revision
// is selected and every tracked link is rewritten. Loading always gives way
// to Ready, even when the fetch fails; failure only changes the status
// message.
package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/github"
	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/links"
	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/site"
)

// HistorySource answers commit-history queries. Satisfied by
// *github.Client.
type HistorySource interface {
	DayRevisions(ctx context.Context, slug, path string) ([]github.DayRevision, error)
	ResolveAt(ctx context.Context, slug, path string, day time.Time) (string, error)
}

// Phase is the resolver's current state.
type Phase int

const (
	// PhaseLoading means the day options have not been fetched yet.
	PhaseLoading Phase = iota
	// PhaseReady means options are populated and the live branch is shown.
	PhaseReady
	// PhaseHistorical means a specific revision is selected.
	PhaseHistorical
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseHistorical:
		return "historical"
	default:
		return "unknown"
	}
}

// anchorOriginal preserves an anchor's attributes as they were before the
// first rewrite, so deselecting restores them verbatim rather than
// recomputing branch URLs that may have drifted from the rendered markup.
type anchorOriginal struct {
	href  string
	title string
}

// Resolver drives the global history mode over a whole site. It owns the
// original-attribute records itself instead of stashing them on document
// nodes.
type Resolver struct {
	site    *site.Site
	source  HistorySource
	control *site.HistoryControl

	phase    Phase
	options  []github.DayRevision
	selected string
	status   string

	originals map[string]map[links.Role]anchorOriginal
}

// ErrNoControl is reported when no page carries a global history container.
var ErrNoControl = fmt.Errorf("no history control found")

// New locates the global history control in the site. Returns ErrNoControl
// when absent, in which case the caller falls back to legacy per-notebook
// mode.
func New(s *site.Site, source HistorySource) (*Resolver, error) {
	for _, page := range s.Pages {
		if control := site.FindHistoryControl(page); control != nil {
			return &Resolver{
				site:      s,
				source:    source,
				control:   control,
				phase:     PhaseLoading,
				originals: make(map[string]map[links.Role]anchorOriginal),
			}, nil
		}
	}
	return nil, ErrNoControl
}

// Phase returns the current state.
func (r *Resolver) Phase() Phase { return r.phase }

// Options returns the fetched day options, newest first.
func (r *Resolver) Options() []github.DayRevision { return r.options }

// Selected returns the selected day, or "" in the live view.
func (r *Resolver) Selected() string { return r.selected }

// Status returns the user-visible status line.
func (r *Resolver) Status() string { return r.status }

// Control exposes the repository coordinates read from the page markup.
func (r *Resolver) Control() *site.HistoryControl { return r.control }

// Load fetches the day options for the tracking file. The transition to
// Ready happens unconditionally: on failure the selector simply stays empty,
// the status reports the problem and all tracked links fall back to
// branch-qualified URLs.
func (r *Resolver) Load(ctx context.Context) {
	options, err := r.source.DayRevisions(ctx, r.control.Slug, r.control.HistoryPath)
	if err != nil {
		r.options = nil
		r.setStatus("Versionshistorie konnte nicht geladen werden")
		r.applyRef(r.control.Branch, "")
	} else {
		r.options = options
		r.setStatus(fmt.Sprintf("%d Stände verfügbar", len(options)))
	}
	r.phase = PhaseReady
	r.selected = ""
}

// LoadCached populates the options without a fetch, e.g. from the disk
// cache.
func (r *Resolver) LoadCached(options []github.DayRevision) {
	r.options = options
	r.setStatus(fmt.Sprintf("%d Stände verfügbar", len(options)))
	r.phase = PhaseReady
	r.selected = ""
}

// Select pins every launch block in the site to the revision recorded for
// the given day. Selecting the empty day is equivalent to Clear. Each
// anchor's original attributes are cached exactly once, on its first
// rewrite.
func (r *Resolver) Select(day string) error {
	if day == "" {
		r.Clear()
		return nil
	}
	revision := ""
	for _, opt := range r.options {
		if opt.Day == day {
			revision = opt.SHA
			break
		}
	}
	if revision == "" {
		return fmt.Errorf("no revision recorded for %s", day)
	}

	r.applyRef(revision, day)
	r.phase = PhaseHistorical
	r.selected = day
	r.setStatus(fmt.Sprintf("Stand vom %s", day))
	return nil
}

// Clear returns to the live view: anchors are restored byte-for-byte from
// the cached originals, or recomputed against the branch when no cache
// exists yet.
func (r *Resolver) Clear() {
	for _, page := range r.site.Pages {
		for _, block := range site.FindLaunchBlocks(page) {
			cached := r.originals[block.Key()]
			for _, anchor := range block.Anchors {
				if orig, ok := cached[anchor.Role]; ok {
					anchor.SetHref(orig.href)
					anchor.SetTitle(orig.title)
					continue
				}
				if block.Notebook != "" {
					urls := links.ForRef(r.control.Slug, r.control.Branch, block.Notebook)
					anchor.SetHref(urls.ForRole(anchor.Role))
				}
			}
		}
	}
	r.phase = PhaseReady
	r.selected = ""
	r.setStatus("aktueller Stand")
}

// applyRef rewrites every launch block to point at ref. A non-empty day
// annotates the anchors' titles with the pinned date.
func (r *Resolver) applyRef(ref, day string) {
	for _, page := range r.site.Pages {
		for _, block := range site.FindLaunchBlocks(page) {
			if block.Notebook == "" {
				continue
			}
			urls := links.ForRef(r.control.Slug, ref, block.Notebook)
			cached, ok := r.originals[block.Key()]
			if !ok {
				cached = make(map[links.Role]anchorOriginal)
				r.originals[block.Key()] = cached
			}
			for _, anchor := range block.Anchors {
				if _, ok := cached[anchor.Role]; !ok {
					cached[anchor.Role] = anchorOriginal{href: anchor.Href(), title: anchor.Title()}
				}
				anchor.SetHref(urls.ForRole(anchor.Role))
				if day != "" {
					anchor.SetTitle(fmt.Sprintf("Stand vom %s", day))
				}
			}
		}
	}
}

func (r *Resolver) setStatus(msg string) {
	r.status = msg
	r.control.SetStatus(msg)
}
