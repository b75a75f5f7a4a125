package main

import (
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"strings"
)

// FileProvider serves statement trees parsed from a single Go source
// file. Snapshots are built from an in-memory copy of the file;
// mutations splice the raw bytes, validate the result through gofmt,
// write it back and reparse.
type FileProvider struct {
	path string
	src  []byte
	fset *token.FileSet
	file *ast.File
}

var _ Provider = (*FileProvider)(nil)

func OpenFile(path string) (*FileProvider, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := &FileProvider{path: path}
	if err := p.parse(src); err != nil {
		return nil, err
	}
	return p, nil
}

// NewSourceProvider parses Go source held in memory. Used by tests and
// by callers that manage the file themselves; mutations fail without a
// backing path.
func NewSourceProvider(src string) (*FileProvider, error) {
	p := &FileProvider{}
	if err := p.parse([]byte(src)); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *FileProvider) parse(src []byte) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, p.path, src, parser.ParseComments)
	if err != nil {
		return fmt.Errorf("parse %s: %w", p.path, err)
	}
	p.src = src
	p.fset = fset
	p.file = file
	return nil
}

func (p *FileProvider) Reload() error {
	src, err := os.ReadFile(p.path)
	if err != nil {
		return err
	}
	return p.parse(src)
}

func (p *FileProvider) Stamp() (Stamp, error) {
	if p.path == "" {
		return Stamp{Size: int64(len(p.src))}, nil
	}
	info, err := os.Stat(p.path)
	if err != nil {
		return Stamp{}, err
	}
	return Stamp{ModTime: info.ModTime().UnixNano(), Size: info.Size()}, nil
}

func (p *FileProvider) Funcs() []string {
	var names []string
	for _, decl := range p.file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			names = append(names, fn.Name.Name)
		}
	}
	return names
}

// FuncAt resolves the function enclosing a byte offset, so a caller can
// point at a cursor position instead of naming the function.
func (p *FileProvider) FuncAt(offset int) (string, error) {
	for _, decl := range p.file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		if p.off(fn.Pos()) <= offset && offset < p.off(fn.End()) {
			return fn.Name.Name, nil
		}
	}
	return "", fmt.Errorf("no function at offset %d", offset)
}

// Snapshot builds a statement tree for the named function. An empty
// name selects the first function in the file.
func (p *FileProvider) Snapshot(name string) (*Func, error) {
	for _, decl := range p.file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		if name != "" && fn.Name.Name != name {
			continue
		}
		f := &Func{
			Name: fn.Name.Name,
			Ref:  p.ref(fn),
		}
		if fn.Body != nil {
			f.Body = p.convertList(fn.Body.List)
		}
		return f, nil
	}
	if name == "" {
		return nil, fmt.Errorf("%s has no functions", p.path)
	}
	return nil, fmt.Errorf("function %q not found", name)
}

// Valid reports whether ref still names a statement boundary in the
// current snapshot. A stale ref (after an external edit) will usually
// no longer line up with any statement.
func (p *FileProvider) Valid(ref Ref) bool {
	if ref.IsZero() || ref.End > len(p.src) || ref.Pos >= ref.End {
		return false
	}
	found := false
	ast.Inspect(p.file, func(n ast.Node) bool {
		if found || n == nil {
			return !found
		}
		if _, ok := n.(ast.Stmt); ok {
			if p.off(n.Pos()) == ref.Pos && p.off(n.End()) == ref.End {
				found = true
			}
		}
		return !found
	})
	return found
}

func (p *FileProvider) Replace(ref Ref, text string) error {
	if !p.Valid(ref) {
		return fmt.Errorf("statement no longer exists in %s", p.path)
	}
	return p.apply(p.splice(ref.Pos, ref.End, text), text)
}

func (p *FileProvider) InsertAfter(ref Ref, text string) error {
	if !p.Valid(ref) {
		return fmt.Errorf("statement no longer exists in %s", p.path)
	}
	return p.apply(p.splice(ref.End, ref.End, "\n"+text), text)
}

func (p *FileProvider) Delete(ref Ref) error {
	if !p.Valid(ref) {
		return fmt.Errorf("statement no longer exists in %s", p.path)
	}
	return p.apply(p.splice(ref.Pos, ref.End, ""), "")
}

func (p *FileProvider) splice(pos, end int, text string) []byte {
	out := make([]byte, 0, len(p.src)+len(text))
	out = append(out, p.src[:pos]...)
	out = append(out, text...)
	out = append(out, p.src[end:]...)
	return out
}

// apply validates a candidate source through gofmt, writes it out and
// reparses. On any failure the provider keeps its previous state, so a
// bad edit never half-applies.
func (p *FileProvider) apply(candidate []byte, edited string) error {
	formatted, err := format.Source(candidate)
	if err != nil {
		if edited != "" {
			return fmt.Errorf("edit %q does not parse: %w", edited, err)
		}
		return fmt.Errorf("resulting file does not parse: %w", err)
	}
	if p.path != "" {
		if err := os.WriteFile(p.path, formatted, 0644); err != nil {
			return err
		}
	}
	return p.parse(formatted)
}

// Text returns the raw source for a ref, for display and for seeding
// an edit field. Empty for synthetic or out-of-range refs.
func (p *FileProvider) Text(ref Ref) string {
	if ref.IsZero() || ref.Pos < 0 || ref.End > len(p.src) || ref.Pos >= ref.End {
		return ""
	}
	return string(p.src[ref.Pos:ref.End])
}

// Line returns the 1-based source line a ref starts on.
func (p *FileProvider) Line(ref Ref) int {
	if ref.Pos < 0 || ref.Pos > len(p.src) {
		return 0
	}
	line := 1
	for _, b := range p.src[:ref.Pos] {
		if b == '\n' {
			line++
		}
	}
	return line
}

// --- go/ast to statement-tree conversion ---

func (p *FileProvider) off(pos token.Pos) int {
	return p.fset.Position(pos).Offset
}

func (p *FileProvider) ref(n ast.Node) Ref {
	return Ref{Pos: p.off(n.Pos()), End: p.off(n.End())}
}

func (p *FileProvider) text(n ast.Node) string {
	if n == nil {
		return ""
	}
	return string(p.src[p.off(n.Pos()):p.off(n.End())])
}

func (p *FileProvider) convertList(list []ast.Stmt) []*Stmt {
	out := make([]*Stmt, 0, len(list))
	for _, s := range list {
		out = append(out, p.convertStmt(s))
	}
	return out
}

func (p *FileProvider) convertStmt(s ast.Stmt) *Stmt {
	switch s := s.(type) {
	case *ast.BlockStmt:
		return &Stmt{Kind: StmtBlock, Ref: p.ref(s), Body: p.convertList(s.List)}

	case *ast.IfStmt:
		cond := p.text(s.Cond)
		if s.Init != nil {
			cond = p.text(s.Init) + "; " + cond
		}
		out := &Stmt{Kind: StmtIf, Ref: p.ref(s), Text: cond}
		out.Then = p.convertList(s.Body.List)
		switch e := s.Else.(type) {
		case *ast.BlockStmt:
			out.Else = p.convertList(e.List)
		case *ast.IfStmt:
			out.Else = []*Stmt{p.convertStmt(e)}
		}
		return out

	case *ast.SwitchStmt:
		tag := p.text(s.Tag)
		if s.Init != nil {
			tag = strings.TrimSpace(p.text(s.Init) + "; " + tag)
		}
		out := &Stmt{Kind: StmtSwitch, Ref: p.ref(s), Text: tag}
		for _, clause := range s.Body.List {
			c := clause.(*ast.CaseClause)
			out.Body = append(out.Body, p.convertCase(p.ref(c), c.List, c.Body))
		}
		out.Body = flattenCases(out.Body)
		return out

	case *ast.TypeSwitchStmt:
		out := &Stmt{Kind: StmtSwitch, Ref: p.ref(s), Text: p.text(s.Assign)}
		for _, clause := range s.Body.List {
			c := clause.(*ast.CaseClause)
			out.Body = append(out.Body, p.convertCase(p.ref(c), c.List, c.Body))
		}
		out.Body = flattenCases(out.Body)
		return out

	case *ast.SelectStmt:
		// A select is a multiway branch over communication clauses.
		out := &Stmt{Kind: StmtSwitch, Ref: p.ref(s), Text: "select"}
		for _, clause := range s.Body.List {
			c := clause.(*ast.CommClause)
			label := &Stmt{Kind: StmtCaseLabel, Ref: p.ref(c)}
			if c.Comm == nil {
				label.Default = true
			} else {
				label.Text = p.text(c.Comm)
			}
			out.Body = append(out.Body, label)
			out.Body = append(out.Body, p.convertList(c.Body)...)
			out.Body = append(out.Body, &Stmt{Kind: StmtTerminator})
		}
		return out

	case *ast.ForStmt:
		if s.Init == nil && s.Post == nil {
			cond := p.text(s.Cond)
			if cond == "" {
				cond = "true"
			}
			return &Stmt{Kind: StmtWhile, Ref: p.ref(s), Text: cond, Body: p.convertList(s.Body.List)}
		}
		return &Stmt{
			Kind: StmtFor,
			Ref:  p.ref(s),
			Init: p.text(s.Init),
			Cond: p.text(s.Cond),
			Body: p.convertList(s.Body.List),
		}

	case *ast.RangeStmt:
		v := p.text(s.Key)
		if s.Value != nil {
			v += ", " + p.text(s.Value)
		}
		if v == "" {
			v = "_"
		}
		return &Stmt{
			Kind: StmtForEach,
			Ref:  p.ref(s),
			Var:  v,
			Expr: p.text(s.X),
			Body: p.convertList(s.Body.List),
		}

	case *ast.ReturnStmt:
		text := ""
		for i, res := range s.Results {
			if i > 0 {
				text += ", "
			}
			text += p.text(res)
		}
		return &Stmt{Kind: StmtReturn, Ref: p.ref(s), Text: text}

	case *ast.BranchStmt:
		switch s.Tok {
		case token.BREAK:
			return &Stmt{Kind: StmtBreak, Ref: p.ref(s)}
		case token.CONTINUE:
			return &Stmt{Kind: StmtContinue, Ref: p.ref(s)}
		}
		return &Stmt{Kind: StmtExpr, Ref: p.ref(s), Text: p.text(s)}

	case *ast.AssignStmt:
		return &Stmt{Kind: StmtAssign, Ref: p.ref(s), Text: p.text(s)}

	case *ast.DeclStmt:
		return &Stmt{Kind: StmtDecl, Ref: p.ref(s), Text: p.text(s)}

	case *ast.LabeledStmt:
		return p.convertStmt(s.Stmt)

	case *ast.ExprStmt, *ast.IncDecStmt, *ast.DeferStmt, *ast.GoStmt, *ast.SendStmt:
		return &Stmt{Kind: StmtExpr, Ref: p.ref(s), Text: p.text(s)}

	case *ast.EmptyStmt:
		return &Stmt{Kind: StmtExpr, Ref: p.ref(s), Text: ""}
	}

	return &Stmt{Kind: StmtInvalid, Ref: p.ref(s)}
}

// convertCase turns one case clause into a label/body/terminator run.
// Go's implicit break becomes an explicit terminator; a trailing
// fallthrough drops the terminator so the next label's body accumulates
// onto this one.
func (p *FileProvider) convertCase(ref Ref, exprs []ast.Expr, body []ast.Stmt) *Stmt {
	label := &Stmt{Kind: StmtCaseLabel, Ref: ref}
	if len(exprs) == 0 {
		label.Default = true
	} else {
		parts := make([]string, len(exprs))
		for i, e := range exprs {
			parts[i] = p.text(e)
		}
		label.Text = strings.Join(parts, ", ")
	}
	fallsThrough := false
	var stmts []*Stmt
	for _, s := range body {
		if br, ok := s.(*ast.BranchStmt); ok && br.Tok == token.FALLTHROUGH {
			fallsThrough = true
			continue
		}
		stmts = append(stmts, p.convertStmt(s))
	}
	run := &Stmt{Kind: StmtBlock, Body: append([]*Stmt{label}, stmts...)}
	if !fallsThrough {
		run.Body = append(run.Body, &Stmt{Kind: StmtTerminator})
	}
	return run
}

// flattenCases splices the per-clause runs produced by convertCase into
// the flat label/statement/terminator stream the builder's accumulator
// consumes.
func flattenCases(runs []*Stmt) []*Stmt {
	var flat []*Stmt
	for _, run := range runs {
		flat = append(flat, run.Body...)
	}
	return flat
}
