package probe

import (
	"context"

	"github.com/use-agent/scopeprobe/models"
)

// Sweep tests every catalog scope not already in base individually,
// requesting base plus that one scope per attempt. Outcomes are handed
// to observed (may be nil) in catalog order. Returns the scopes that
// worked and the ones that broke, with their recorded errors.
func Sweep(
	ctx context.Context,
	catalog, base []string,
	test func(ctx context.Context, scopes []string) models.AttemptResult,
	observed func(scope string, r models.AttemptResult),
) (working []string, broken []models.BrokenScope) {
	baseSet := make(map[string]struct{}, len(base))
	for _, s := range base {
		baseSet[s] = struct{}{}
	}

	for _, scope := range catalog {
		if _, isBase := baseSet[scope]; isBase {
			continue
		}

		scopes := make([]string, 0, len(base)+1)
		scopes = append(scopes, base...)
		scopes = append(scopes, scope)

		r := test(ctx, scopes)
		if observed != nil {
			observed(scope, r)
		}
		if r.Success {
			working = append(working, scope)
		} else {
			broken = append(broken, models.BrokenScope{Scope: scope, Error: r.Error})
		}
	}
	return working, broken
}
