package probe

import (
	"context"
	"testing"

	"github.com/use-agent/scopeprobe/models"
)

// monotonicOracle succeeds for counts <= breakpoint and fails above it.
func monotonicOracle(breakpoint int, calls *int) Oracle {
	return func(_ context.Context, count int) models.AttemptResult {
		if calls != nil {
			*calls++
		}
		r := models.AttemptResult{NumScopes: count, Success: count <= breakpoint}
		if !r.Success {
			r.Error = "too many scopes"
		}
		return r
	}
}

func TestCoarseCounts_CappedAndDeduplicated(t *testing.T) {
	counts := CoarseCounts(80)
	// 80 appears both in the ladder and as the catalog size; it must
	// show up exactly once, at the end.
	if counts[len(counts)-1] != 80 {
		t.Errorf("counts should end at catalog size, got %v", counts)
	}
	seen := make(map[int]struct{})
	prev := 0
	for _, c := range counts {
		if c <= prev {
			t.Fatalf("counts not strictly ascending: %v", counts)
		}
		prev = c
		if _, dup := seen[c]; dup {
			t.Fatalf("duplicate count %d in %v", c, counts)
		}
		seen[c] = struct{}{}
	}
}

func TestCoarseCounts_SmallCatalog(t *testing.T) {
	counts := CoarseCounts(12)
	for _, c := range counts {
		if c > 12 {
			t.Errorf("count %d exceeds catalog size 12", c)
		}
	}
	if counts[len(counts)-1] != 12 {
		t.Errorf("catalog size itself must be tested, got %v", counts)
	}
}

func TestFindBreakpoint(t *testing.T) {
	oracle := monotonicOracle(23, nil)
	var results []models.AttemptResult
	for _, c := range []int{3, 5, 10, 15, 20, 25, 30} {
		results = append(results, oracle(context.Background(), c))
	}

	bp := FindBreakpoint(results)
	if !bp.Found {
		t.Fatal("breakpoint not detected")
	}
	if bp.LastOK != 20 || bp.FirstFail != 25 {
		t.Errorf("breakpoint = (%d, %d), want (20, 25)", bp.LastOK, bp.FirstFail)
	}
}

func TestFindBreakpoint_AllSucceed(t *testing.T) {
	oracle := monotonicOracle(100, nil)
	var results []models.AttemptResult
	for _, c := range []int{3, 10, 80} {
		results = append(results, oracle(context.Background(), c))
	}

	bp := FindBreakpoint(results)
	if bp.Found {
		t.Errorf("no failure was observed, got %+v", bp)
	}
	if bp.LastOK != 80 {
		t.Errorf("LastOK = %d, want 80", bp.LastOK)
	}
}

func TestFindBreakpoint_AllFail(t *testing.T) {
	oracle := monotonicOracle(0, nil)
	results := []models.AttemptResult{oracle(context.Background(), 3)}

	bp := FindBreakpoint(results)
	if !bp.Found || bp.FirstFail != 3 || bp.LastOK != 0 {
		t.Errorf("got %+v, want LastOK=0 FirstFail=3", bp)
	}
}

func TestBinarySearch_ExactBoundary(t *testing.T) {
	for _, k := range []int{21, 25, 39} {
		oracle := monotonicOracle(k, nil)
		lo, hi := BinarySearch(context.Background(), 20, 40, oracle, nil)
		if lo != k || hi != k+1 {
			t.Errorf("breakpoint %d: search returned (%d, %d), want (%d, %d)", k, lo, hi, k, k+1)
		}
	}
}

func TestBinarySearch_AdjacentBoundsUntouched(t *testing.T) {
	calls := 0
	oracle := monotonicOracle(20, &calls)
	lo, hi := BinarySearch(context.Background(), 20, 21, oracle, nil)
	if lo != 20 || hi != 21 {
		t.Errorf("adjacent bounds must be returned as-is, got (%d, %d)", lo, hi)
	}
	if calls != 0 {
		t.Errorf("no attempts expected for adjacent bounds, got %d", calls)
	}
}

func TestBinarySearch_Idempotent(t *testing.T) {
	oracle := monotonicOracle(33, nil)
	lo1, hi1 := BinarySearch(context.Background(), 30, 40, oracle, nil)
	lo2, hi2 := BinarySearch(context.Background(), 30, 40, oracle, nil)
	if lo1 != lo2 || hi1 != hi2 {
		t.Errorf("search not idempotent: (%d,%d) vs (%d,%d)", lo1, hi1, lo2, hi2)
	}
}

func TestBinarySearch_ObservedInTestOrder(t *testing.T) {
	oracle := monotonicOracle(25, nil)
	var seen []int
	BinarySearch(context.Background(), 20, 30, oracle, func(r models.AttemptResult) {
		seen = append(seen, r.NumScopes)
	})
	if len(seen) == 0 {
		t.Fatal("observer was never called")
	}
	// First midpoint of (20, 30) is 25.
	if seen[0] != 25 {
		t.Errorf("first tested midpoint = %d, want 25", seen[0])
	}
}
