package analyzer

import (
	"cmp"
	"slices"

	"github.com/ludo-technologies/bcflow/internal/ir"
)

// CompareCases orders case labels ascending by value with the default case
// after every explicit value
func CompareCases(a, b ir.CaseLabel) int {
	switch {
	case a.Default && b.Default:
		return 0
	case a.Default:
		return 1
	case b.Default:
		return -1
	}
	return cmp.Compare(a.Value, b.Value)
}

// sortCases sorts case nodes in place and rejects duplicate labels, which
// can only come from a malformed switch
func sortCases(switchNode *ir.Node, cases []*ir.Node) error {
	slices.SortStableFunc(cases, func(a, b *ir.Node) int {
		return CompareCases(a.Case, b.Case)
	})

	for i := 1; i < len(cases); i++ {
		prev, cur := cases[i-1], cases[i]
		if CompareCases(prev.Case, cur.Case) == 0 {
			return newInvariantError(switchNode.Position(), InvariantUniqueCase,
				"case %s appears at positions %d and %d", cur.Case, prev.Position(), cur.Position())
		}
	}
	return nil
}
