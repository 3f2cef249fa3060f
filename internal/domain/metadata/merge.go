package metadata

import (
	"context"
)

// SourceReport records how one source fared during a reconciliation run
type SourceReport struct {
	Source string
	Status ResultStatus
	Reason string
	Empty  bool
}

// Outcome is the result of one reconciliation run: the merged field set plus
// a per-source report. For fixed source responses the outcome is
// deterministic; running twice with identical inputs yields identical fields.
type Outcome struct {
	Fields  FieldSet
	Reports []SourceReport
}

// Contributed returns the names of sources that supplied at least one field
func (o Outcome) Contributed() []string {
	var names []string
	for _, r := range o.Reports {
		if r.Status == StatusOK && !r.Empty {
			names = append(names, r.Source)
		}
	}
	return names
}

// GapFill runs the sources strictly in order under the fill-empty-only
// policy. Each source's contribution is overlaid onto a working snapshot
// before the next source runs, so later sources only fill fields that are
// still empty. Where two sources would propose the same field the earlier
// one wins.
func GapFill(ctx context.Context, sources []Source, isbn string, snapshot RecordSnapshot) Outcome {
	var outcome Outcome
	working := snapshot
	for _, src := range sources {
		result := src.Fetch(ctx, isbn, working, FillEmptyOnly)
		outcome.Reports = append(outcome.Reports, reportFor(src, result))
		if result.Status != StatusOK {
			continue
		}
		working = working.Overlay(result.Fields)
		outcome.Fields = union(outcome.Fields, result.Fields)
	}
	return outcome
}

// Priority runs every source under force-overwrite against the original,
// unmodified snapshot, then merges with a fixed precedence: the
// earlier-listed source wins on key collision. Unlike gap-fill, no
// intermediate state is shared between source calls.
func Priority(ctx context.Context, sources []Source, isbn string, snapshot RecordSnapshot) Outcome {
	var outcome Outcome
	results := make([]SourceResult, len(sources))
	for i, src := range sources {
		results[i] = src.Fetch(ctx, isbn, snapshot, ForceOverwrite)
		outcome.Reports = append(outcome.Reports, reportFor(src, results[i]))
	}

	// Right-biased merge applied lowest priority first, so the
	// earlier-listed source's values land on top.
	for i := len(results) - 1; i >= 0; i-- {
		if results[i].Status != StatusOK {
			continue
		}
		outcome.Fields = Merge(outcome.Fields, results[i].Fields)
	}
	return outcome
}

func reportFor(src Source, result SourceResult) SourceReport {
	return SourceReport{
		Source: src.Name(),
		Status: result.Status,
		Reason: result.Reason,
		Empty:  result.Fields.IsEmpty(),
	}
}
