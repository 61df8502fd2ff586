// Package report formats probe progress and the final summary for the
// operator. Output is human-readable only; nothing parses it.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/use-agent/scopeprobe/models"
)

// Console writes progress lines and summary tables to one writer.
type Console struct {
	w io.Writer
}

// New returns a Console writing to w.
func New(w io.Writer) *Console {
	return &Console{w: w}
}

// Printf writes a free-form progress line.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.w, format, args...)
}

// Banner prints a phase banner between separator rules.
func (c *Console) Banner(title string) {
	sep := strings.Repeat("=", 80)
	fmt.Fprintf(c.w, "%s\n%s\n%s\n\n", sep, title, sep)
}

// CountAttemptStart prints the leading part of a count-phase progress
// line; the matching AttemptOutcome completes it.
func (c *Console) CountAttemptStart(count, urlLen int) {
	fmt.Fprintf(c.w, "  %3d scopes (URL: %d chars)... ", count, urlLen)
}

// SweepAttemptStart prints the leading part of a sweep progress line.
func (c *Console) SweepAttemptStart(scope string) {
	fmt.Fprintf(c.w, "  %s ", padDots(scope, 45))
}

// AttemptOutcome completes a count-phase progress line.
func (c *Console) AttemptOutcome(r models.AttemptResult) {
	if r.Success {
		fmt.Fprintf(c.w, "OK -> %s\n", truncate(r.FinalURL, 80))
	} else {
		fmt.Fprintf(c.w, "FAILED: %s\n", truncate(r.Error, 80))
	}
}

// SweepOutcome completes a sweep progress line.
func (c *Console) SweepOutcome(r models.AttemptResult) {
	if r.Success {
		fmt.Fprintln(c.w, "OK")
	} else {
		fmt.Fprintf(c.w, "BROKEN: %s\n", truncate(r.Error, 60))
	}
}

// CountTable prints the scope-count results as an aligned table sorted
// by scope count.
func (c *Console) CountTable(results []models.AttemptResult) {
	sorted := make([]models.AttemptResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].NumScopes < sorted[j].NumScopes
	})

	fmt.Fprintln(c.w, "SCOPE COUNT RESULTS:")
	fmt.Fprintf(c.w, "%6s | %8s | %8s | %s\n", "Count", "URL Len", "Result", "Detail")
	fmt.Fprintln(c.w, strings.Repeat("-", 70))
	for _, r := range sorted {
		status := "OK"
		if !r.Success {
			status = "FAILED"
		}
		fmt.Fprintf(c.w, "%6d | %8d | %8s | %s\n",
			r.NumScopes, r.URLLength, status, truncate(r.Error, 40))
	}
}

// BrokenScopes prints the per-scope sweep failures, or an all-clear
// line when there are none.
func (c *Console) BrokenScopes(broken []models.BrokenScope) {
	if len(broken) == 0 {
		fmt.Fprintln(c.w, "All individual scopes work fine.")
		return
	}
	fmt.Fprintf(c.w, "BROKEN SCOPES (%d):\n", len(broken))
	for _, b := range broken {
		fmt.Fprintf(c.w, "  - %s: %s\n", b.Scope, truncate(b.Error, 60))
	}
}

// Summary prints the aggregate working/broken counts.
func (c *Console) Summary(working, broken, total int) {
	fmt.Fprintf(c.w, "Working scopes: %d/%d\n", working, total)
	if broken > 0 {
		fmt.Fprintf(c.w, "Broken scopes:  %d/%d\n", broken, total)
	}
}

// padDots left-justifies s to width using dot padding, matching the
// progress-line style of the summary output.
func padDots(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(".", width-len(s))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
