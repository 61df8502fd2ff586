package probe

import (
	"context"
	"sort"

	"github.com/use-agent/scopeprobe/models"
)

// Oracle runs one authorization attempt using a prefix of the scope
// catalog with the given length and reports the result.
type Oracle func(ctx context.Context, count int) models.AttemptResult

// coarseCounts is the fixed candidate ladder for the coarse scan; the
// full catalog size is appended at runtime.
var coarseCounts = []int{3, 5, 10, 15, 20, 25, 30, 35, 40, 45, 50, 55, 60, 65, 70, 75, 80}

// CoarseCounts returns the ascending, deduplicated candidate scope
// counts for the coarse scan, capped at catalogSize and always
// including catalogSize itself.
func CoarseCounts(catalogSize int) []int {
	seen := make(map[int]struct{}, len(coarseCounts)+1)
	counts := make([]int, 0, len(coarseCounts)+1)
	for _, c := range append(append([]int(nil), coarseCounts...), catalogSize) {
		if c <= 0 || c > catalogSize {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		counts = append(counts, c)
	}
	sort.Ints(counts)
	return counts
}

// Breakpoint is the outcome of the coarse scan: the highest tested
// count that succeeded and, if any, the first tested count that failed.
type Breakpoint struct {
	LastOK    int
	FirstFail int
	Found     bool // a failing count was observed
}

// FindBreakpoint scans coarse-phase results, which arrive in ascending
// count order, and locates the success/failure boundary.
func FindBreakpoint(results []models.AttemptResult) Breakpoint {
	var bp Breakpoint
	for _, r := range results {
		if r.Success {
			bp.LastOK = r.NumScopes
		} else if !bp.Found {
			bp.FirstFail = r.NumScopes
			bp.Found = true
		}
	}
	return bp
}

// BinarySearch narrows the open interval (lo, hi) to the exact
// boundary: on return, lo scopes succeed and hi == lo+1 scopes fail.
// Midpoint outcomes are handed to observed (may be nil) in test order.
//
// The search assumes success is monotonic in prefix length over the
// interval. A flaky or rate-limited provider breaks that assumption
// and the reported boundary with it; that risk is accepted rather than
// papered over with retries.
func BinarySearch(ctx context.Context, lo, hi int, test Oracle, observed func(models.AttemptResult)) (int, int) {
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		r := test(ctx, mid)
		if observed != nil {
			observed(r)
		}
		if r.Success {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo, hi
}
