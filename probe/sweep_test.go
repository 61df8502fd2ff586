package probe

import (
	"context"
	"testing"

	"github.com/use-agent/scopeprobe/models"
)

func TestSweep_OneAttemptPerNonBaseScope(t *testing.T) {
	catalog := []string{"a", "b", "c", "d", "e"}
	base := []string{"a", "b"}

	var tested [][]string
	test := func(_ context.Context, scopes []string) models.AttemptResult {
		tested = append(tested, scopes)
		return models.AttemptResult{NumScopes: len(scopes), Scopes: scopes, Success: true}
	}

	working, broken := Sweep(context.Background(), catalog, base, test, nil)

	if len(tested) != 3 {
		t.Fatalf("expected 3 attempts (catalog minus base), got %d", len(tested))
	}
	for i, scopes := range tested {
		if len(scopes) != 3 || scopes[0] != "a" || scopes[1] != "b" {
			t.Errorf("attempt %d did not request base+1: %v", i, scopes)
		}
	}
	if len(working)+len(broken) != 3 {
		t.Errorf("working(%d) + broken(%d) != 3", len(working), len(broken))
	}
}

func TestSweep_PartitionsByOutcome(t *testing.T) {
	catalog := []string{"ok1", "bad", "ok2"}
	test := func(_ context.Context, scopes []string) models.AttemptResult {
		added := scopes[len(scopes)-1]
		if added == "bad" {
			return models.AttemptResult{Error: "invalid_scope"}
		}
		return models.AttemptResult{Success: true}
	}

	working, broken := Sweep(context.Background(), catalog, nil, test, nil)

	if len(working) != 2 || working[0] != "ok1" || working[1] != "ok2" {
		t.Errorf("working = %v", working)
	}
	if len(broken) != 1 || broken[0].Scope != "bad" || broken[0].Error != "invalid_scope" {
		t.Errorf("broken = %v", broken)
	}
}

func TestSweep_ObservedInCatalogOrder(t *testing.T) {
	catalog := []string{"x", "y", "z"}
	test := func(_ context.Context, scopes []string) models.AttemptResult {
		return models.AttemptResult{Success: true}
	}

	var order []string
	Sweep(context.Background(), catalog, nil, test, func(scope string, _ models.AttemptResult) {
		order = append(order, scope)
	})

	if len(order) != 3 || order[0] != "x" || order[1] != "y" || order[2] != "z" {
		t.Errorf("observation order = %v, want catalog order", order)
	}
}
