package main

// The statement tree is the boundary between the diagram core and
// whatever supplies the source code. The Go file provider in source.go
// is the only implementation in this repo, but the tree itself is
// language-neutral: it models every construct the diagram can draw,
// including guarded try/catch/finally blocks that Go source never
// produces.

type StmtKind int

const (
	StmtInvalid StmtKind = iota
	StmtBlock
	StmtExpr
	StmtAssign
	StmtDecl
	StmtReturn
	StmtBreak
	StmtContinue
	StmtIf
	StmtSwitch
	StmtCaseLabel
	StmtTerminator
	StmtWhile
	StmtFor
	StmtForEach
	StmtTry
)

// Ref identifies a statement inside the provider's current snapshot as
// a byte-offset range. A zero Ref marks a synthetic node with no source
// counterpart. Refs are reminted on every snapshot; holding one across
// a rebuild requires a Valid check before use.
type Ref struct {
	Pos int
	End int
}

func (r Ref) IsZero() bool {
	return r.Pos == 0 && r.End == 0
}

type Stmt struct {
	Kind StmtKind
	Ref  Ref

	// Text carries the raw statement or expression for leaves, the
	// condition for if/while, the tag for switch and the case-value
	// list for labels.
	Text string

	Init string // counted loop initialization
	Cond string // counted loop condition

	Var  string // range loop variable
	Expr string // range loop iterated expression

	PostTest bool // while loop tests after the body
	Default  bool // case label is the default

	Body []*Stmt // block children, loop body, flattened switch body, try body
	Then []*Stmt // if true-branch
	Else []*Stmt // if false-branch

	Catches []Catch // try handlers, in source order
	Finally []*Stmt // nil when absent
}

type Catch struct {
	Type string
	Body []*Stmt
}

// Func is a read-only snapshot of one function body.
type Func struct {
	Name string
	Ref  Ref
	Body []*Stmt // nil for a bodyless declaration
}

// Stamp is an opaque version of the provider's backing source, used to
// detect external changes between snapshots.
type Stamp struct {
	ModTime int64
	Size    int64
}

// Provider is the AST-side collaborator. Snapshots are immutable;
// mutations rewrite the backing source and invalidate prior Refs.
type Provider interface {
	Funcs() []string
	Snapshot(name string) (*Func, error)
	Valid(ref Ref) bool
	Replace(ref Ref, text string) error
	InsertAfter(ref Ref, text string) error
	Delete(ref Ref) error
	Stamp() (Stamp, error)
	Reload() error
}
