package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/links"
	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/site"
)

// ResolveNotebook is the legacy per-notebook mode, used when a page carries
// date-picker containers but no global history control. It resolves the
// latest revision of one notebook at or before the given day and updates
// only the control's own open link and the nearest preceding launch block.
//
// Failures do not propagate as broken pages: on API error or missing
// history the affected anchors fall back to branch-qualified URLs and the
// control's status reports the problem. The returned error is for logging
// only; the document is consistent either way.
func ResolveNotebook(ctx context.Context, p *site.Page, control *site.DateControl, source HistorySource, day time.Time) error {
	revision, err := source.ResolveAt(ctx, control.Slug, control.Notebook, day)
	if err != nil {
		applyNotebookRef(p, control, control.Branch, "")
		control.SetStatus("Kein Stand für dieses Datum gefunden")
		return fmt.Errorf("resolve %s: %w", control.Notebook, err)
	}

	dayLabel := day.UTC().Format("2006-01-02")
	applyNotebookRef(p, control, revision, dayLabel)
	control.SetStatus(fmt.Sprintf("Stand vom %s", dayLabel))
	return nil
}

// RestoreNotebook puts the control and its launch block back on the live
// branch, for when no date is selected.
func RestoreNotebook(p *site.Page, control *site.DateControl) {
	applyNotebookRef(p, control, control.Branch, "")
	control.SetStatus("aktueller Stand")
}

func applyNotebookRef(p *site.Page, control *site.DateControl, ref, day string) {
	urls := links.ForRef(control.Slug, ref, control.Notebook)

	if open := control.OpenAnchor(); open != nil {
		open.SetHref(urls.ForRole(links.RolePage))
		if day != "" {
			open.SetTitle(fmt.Sprintf("Stand vom %s", day))
		}
	}

	if block := site.PrecedingLaunchBlock(p, control); block != nil {
		for _, anchor := range block.Anchors {
			anchor.SetHref(urls.ForRole(anchor.Role))
			if day != "" {
				anchor.SetTitle(fmt.Sprintf("Stand vom %s", day))
			}
		}
	}
}
