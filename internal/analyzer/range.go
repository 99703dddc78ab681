package analyzer

import (
	"fmt"

	"github.com/ludo-technologies/bcflow/internal/ir"
)

// BlockRange is an open interval over bytecode positions delimited by two
// instructions, typically the first and last instruction of a block
type BlockRange struct {
	Start ir.Instruction
	End   ir.Instruction
}

func (r BlockRange) String() string {
	return fmt.Sprintf("(%s, %s)", r.Start, r.End)
}

// NodesWithin returns the nodes lexically inside the range, excluding the
// nodes at the range boundaries
func (c *GraphContext) NodesWithin(r BlockRange) []*ir.Node {
	return c.index.Between(r.Start, r.End)
}
