package main

import "strings"

// NodeKind is the closed set of diagram shapes. Builder, measurement,
// placement and rendering each switch exhaustively over it; adding a
// shape means updating all four.
type NodeKind int

const (
	NodeSequence NodeKind = iota
	NodeLeaf
	NodeBranch
	NodeSwitch
	NodeLoop
	NodeGuarded
)

// Node is one block of the structuregram. Nodes are immutable once
// built; a rebuild produces a whole new tree. Geometry is never stored
// here, it is recomputed each layout pass.
type Node struct {
	Kind NodeKind
	Ref  Ref // source statement backing this block, zero for synthetic nodes

	Label string // leaf text, branch condition, switch tag, loop header

	Children []*Node // sequence
	Then     *Node   // branch true-column
	Else     *Node   // branch false-column
	Cases    []Case  // switch columns
	Body     *Node   // loop body, guarded try-body
	Catches  []Case  // guarded handlers, Label is the type
	Finally  *Node   // guarded, nil when absent
}

// Case pairs a column label with its body. The label is never empty: a
// default clause gets the reserved "Default".
type Case struct {
	Label string
	Body  *Node
}

const (
	defaultCaseLabel  = "Default"
	unknownLabel      = "?"
	invalidLeafLabel  = "Invalid"
	bodylessLeafLabel = "Bodyless function"
)

// BuildFunc converts a function snapshot into a diagram tree. Building
// is total: malformed statements degrade to diagnostic leaves and an
// absent body yields a single explanatory leaf, never a nil tree.
func BuildFunc(f *Func) *Node {
	if f == nil || f.Body == nil {
		return &Node{Kind: NodeLeaf, Label: bodylessLeafLabel}
	}
	return buildSeq(f.Body)
}

// buildSeq wraps a statement list in a sequence node. An empty list
// becomes the empty placeholder leaf so every body has something to
// draw and to hit-test.
func buildSeq(stmts []*Stmt) *Node {
	if len(stmts) == 0 {
		return &Node{Kind: NodeLeaf, Label: ""}
	}
	seq := &Node{Kind: NodeSequence}
	for _, s := range stmts {
		seq.Children = append(seq.Children, buildStmt(s))
	}
	return seq
}

func buildStmt(s *Stmt) *Node {
	if s == nil {
		return &Node{Kind: NodeLeaf, Label: invalidLeafLabel}
	}
	switch s.Kind {
	case StmtBlock:
		n := buildSeq(s.Body)
		if n.Ref.IsZero() {
			n.Ref = s.Ref
		}
		return n

	case StmtIf:
		cond := s.Text
		if cond == "" {
			cond = unknownLabel
		}
		return &Node{
			Kind:  NodeBranch,
			Ref:   s.Ref,
			Label: Naturalize(cond) + "?",
			Then:  buildSeq(s.Then),
			Else:  buildSeq(s.Else),
		}

	case StmtSwitch:
		return buildSwitch(s)

	case StmtWhile:
		header := "While " + Naturalize(s.Text)
		if s.PostTest {
			header = "Do ... Until " + Naturalize(s.Text)
		}
		return &Node{Kind: NodeLoop, Ref: s.Ref, Label: header, Body: buildSeq(s.Body)}

	case StmtFor:
		header := "Loop"
		if s.Init != "" && s.Cond != "" {
			header = "For " + Naturalize(s.Init) + " to " + Naturalize(s.Cond)
		}
		return &Node{Kind: NodeLoop, Ref: s.Ref, Label: header, Body: buildSeq(s.Body)}

	case StmtForEach:
		return &Node{
			Kind:  NodeLoop,
			Ref:   s.Ref,
			Label: "For each " + s.Var + " in " + s.Expr,
			Body:  buildSeq(s.Body),
		}

	case StmtTry:
		n := &Node{Kind: NodeGuarded, Ref: s.Ref, Body: buildSeq(s.Body)}
		for _, c := range s.Catches {
			label := c.Type
			if label == "" {
				label = unknownLabel
			}
			n.Catches = append(n.Catches, Case{Label: label, Body: buildSeq(c.Body)})
		}
		if s.Finally != nil {
			n.Finally = buildSeq(s.Finally)
		}
		return n

	case StmtReturn:
		return &Node{Kind: NodeLeaf, Ref: s.Ref, Label: strings.TrimSpace("Return " + Naturalize(s.Text))}

	case StmtBreak:
		return &Node{Kind: NodeLeaf, Ref: s.Ref, Label: "Break"}

	case StmtContinue:
		return &Node{Kind: NodeLeaf, Ref: s.Ref, Label: "Continue"}

	case StmtExpr, StmtAssign, StmtDecl:
		return &Node{Kind: NodeLeaf, Ref: s.Ref, Label: Naturalize(s.Text)}
	}

	return &Node{Kind: NodeLeaf, Ref: s.Ref, Label: invalidLeafLabel}
}

// buildSwitch runs the fallthrough accumulator over the flattened
// label/statement/terminator stream. A label starts a new case, labels
// stacked back to back merge their value lists, statements accumulate
// into the current case, and a terminator is consumed without being
// drawn. A statement arriving before any label opens a synthetic
// leading case labeled "?"; that grouping is a documented quirk, not a
// guaranteed semantic.
func buildSwitch(s *Stmt) *Node {
	n := &Node{Kind: NodeSwitch, Ref: s.Ref, Label: Naturalize(s.Text)}
	var label string
	var acc []*Stmt
	open := false

	flush := func() {
		if !open {
			return
		}
		n.Cases = append(n.Cases, Case{Label: label, Body: buildSeq(acc)})
		open = false
	}

	for _, child := range s.Body {
		switch child.Kind {
		case StmtCaseLabel:
			next := defaultCaseLabel
			if !child.Default {
				next = Naturalize(child.Text)
				if next == "" {
					next = unknownLabel
				}
			}
			if open && len(acc) == 0 {
				// Back-to-back labels share one body.
				label = label + ", " + next
				continue
			}
			flush()
			label = next
			acc = nil
			open = true
		case StmtTerminator:
			// The break-equivalent ends the visual body but is not part of it.
		default:
			if !open {
				label = unknownLabel
				acc = nil
				open = true
			}
			acc = append(acc, child)
		}
	}
	flush()
	return n
}
