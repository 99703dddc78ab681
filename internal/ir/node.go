package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// NodeID is the arena handle the graph assigns to a node when it is added.
type NodeID int

// InvalidNodeID is the zero handle; no node in a graph ever carries it.
const InvalidNodeID NodeID = 0

// Kind identifies the control-relevant role of an IR node
type Kind int

const (
	// KindPlain is a straight-line statement with no control role
	KindPlain Kind = iota
	// KindJump is an unconditional jump (goto) with exactly one successor
	KindJump
	// KindBranch is a boolean conditional branch with a true and a false leg
	KindBranch
	// KindSwitch is a table or lookup switch whose successors are cases
	KindSwitch
	// KindCase is a single switch case, possibly the default
	KindCase
	// KindTry opens a protected region; its successors include handlers
	KindTry
	// KindCatch is an exception handler entry
	KindCatch
	// KindFinally is the finally handler entry of a try
	KindFinally
)

var kindNames = [...]string{
	KindPlain:   "plain",
	KindJump:    "goto",
	KindBranch:  "branch",
	KindSwitch:  "switch",
	KindCase:    "case",
	KindTry:     "try",
	KindCatch:   "catch",
	KindFinally: "finally",
}

// String returns the canonical lower-case name of the kind
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind converts a kind name into a Kind. Matching is case-insensitive
// and accepts "jump" as an alias of "goto".
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "jump" {
		return KindJump, nil
	}
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return KindPlain, fmt.Errorf("unknown node kind %q", name)
}

// Instruction is the decoded bytecode instruction a node originates from.
// Its position is the byte offset inside the method body and doubles as
// its identity.
type Instruction struct {
	Position int
	Opcode   string
}

// String returns a compact representation such as "12:if_icmpge"
func (i Instruction) String() string {
	if i.Opcode == "" {
		return strconv.Itoa(i.Position)
	}
	return fmt.Sprintf("%d:%s", i.Position, i.Opcode)
}

// CaseLabel is the value carried by a switch case node
type CaseLabel struct {
	Value   int64
	Default bool
}

// String returns "default" for the default case and the decimal value otherwise
func (c CaseLabel) String() string {
	if c.Default {
		return "default"
	}
	return strconv.FormatInt(c.Value, 10)
}

// Node is a single IR node. Kind selects which of the variant fields are
// meaningful: Case for KindCase, Exception for KindCatch.
type Node struct {
	// ID is assigned by Graph.AddNode and cleared by Graph.RemoveNode
	ID NodeID

	// Kind is the control role of the node
	Kind Kind

	// Instruction is the originating bytecode instruction; it is not owned by the node
	Instruction Instruction

	// Case holds the case value of a KindCase node
	Case CaseLabel

	// Exception is the caught type of a KindCatch node; empty catches everything
	Exception string
}

// NewNode creates a detached node of the given kind
func NewNode(kind Kind, instr Instruction) *Node {
	return &Node{Kind: kind, Instruction: instr}
}

// NewCase creates a detached case node carrying an explicit value
func NewCase(instr Instruction, value int64) *Node {
	return &Node{Kind: KindCase, Instruction: instr, Case: CaseLabel{Value: value}}
}

// NewDefaultCase creates a detached default case node
func NewDefaultCase(instr Instruction) *Node {
	return &Node{Kind: KindCase, Instruction: instr, Case: CaseLabel{Default: true}}
}

// NewCatch creates a detached catch node for the given exception type
func NewCatch(instr Instruction, exception string) *Node {
	return &Node{Kind: KindCatch, Instruction: instr, Exception: exception}
}

// Position returns the byte offset of the originating instruction
func (n *Node) Position() int {
	return n.Instruction.Position
}

// String returns a representation such as "branch@12" or "case(3)@20"
func (n *Node) String() string {
	switch n.Kind {
	case KindCase:
		return fmt.Sprintf("case(%s)@%d", n.Case, n.Position())
	case KindCatch:
		if n.Exception != "" {
			return fmt.Sprintf("catch(%s)@%d", n.Exception, n.Position())
		}
	}
	return fmt.Sprintf("%s@%d", n.Kind, n.Position())
}
