// Package tagcheck defines an analyzer that reports tag collisions between
// registrations at build time.
//
// A registration is any call whose result is a *tags.Kind[T] (or a
// (*tags.Kind[T], error) pair) with a package-level registry variable as its
// first argument and a constant tag as its second. tags.Register,
// tags.MustRegister and generic wrappers such as algorithm.MustRegister all
// qualify.
//
// Two registrations collide when they bind one tag in a registry to two types,
// or one type to two tags. Registrations in imported packages are carried as
// package facts, so a collision between packages is reported in the importing
// one. Two imports that collide with each other are reported at the import
// spec of the later one. Registering the same (type, tag) pair twice is not a
// collision.
//
// Run it standalone with cmd/tagcheck or through go vet:
//
//	go vet -vettool=$(which tagcheck) ./...
package tagcheck

import (
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const tagsPath = "github.com/randalmurphal/propbox/pkg/propbox/tags"

// Analyzer reports conflicting tag registrations.
var Analyzer = &analysis.Analyzer{
	Name:      "tagcheck",
	Doc:       "report tags bound to two types, or types bound to two tags, in one registry",
	Run:       run,
	Requires:  []*analysis.Analyzer{inspect.Analyzer},
	FactTypes: []analysis.Fact{new(Bindings)},
}

// Binding is one constant registration.
type Binding struct {
	Registry string // import-path-qualified variable, the tag space key
	Display  string // short form used in diagnostics, e.g. "tags.Default"
	Tag      uint64
	Type     string
	Pkg      string // import path of the registering package
	Pos      string
}

// Bindings is the package fact listing every registration a package makes.
type Bindings struct {
	List []Binding
}

func (*Bindings) AFact() {}

func (b *Bindings) String() string {
	return fmt.Sprintf("%d tag bindings", len(b.List))
}

type regTag struct {
	reg string
	tag uint64
}

type regType struct {
	reg, typ string
}

// table holds the bindings seen so far; first registration wins.
type table struct {
	byTag  map[regTag]Binding
	byType map[regType]Binding
}

func newTable() *table {
	return &table{
		byTag:  make(map[regTag]Binding),
		byType: make(map[regType]Binding),
	}
}

// conflict returns a diagnostic for b, or "" if b is new or a repeat.
func (t *table) conflict(b Binding) string {
	if prev, ok := t.byTag[regTag{b.Registry, b.Tag}]; ok && prev.Type != b.Type {
		return fmt.Sprintf("tag %d in registry %s is already bound to %s (%s)",
			b.Tag, b.Display, prev.Type, prev.Pos)
	}
	if prev, ok := t.byType[regType{b.Registry, b.Type}]; ok && prev.Tag != b.Tag {
		return fmt.Sprintf("%s is already bound to tag %d in registry %s (%s)",
			b.Type, prev.Tag, b.Display, prev.Pos)
	}
	return ""
}

// previous returns the binding b collides with.
func (t *table) previous(b Binding) Binding {
	if prev, ok := t.byTag[regTag{b.Registry, b.Tag}]; ok && prev.Type != b.Type {
		return prev
	}
	return t.byType[regType{b.Registry, b.Type}]
}

// add records b and reports whether it was new.
func (t *table) add(b Binding) bool {
	tk := regTag{b.Registry, b.Tag}
	if _, ok := t.byTag[tk]; ok {
		return false
	}
	t.byTag[tk] = b
	t.byType[regType{b.Registry, b.Type}] = b
	return true
}

func run(pass *analysis.Pass) (any, error) {
	t := newTable()
	imports := importSpecs(pass)

	facts := pass.AllPackageFacts()
	slices.SortFunc(facts, func(a, b analysis.PackageFact) int {
		return strings.Compare(a.Package.Path(), b.Package.Path())
	})
	for _, f := range facts {
		bs, ok := f.Fact.(*Bindings)
		if !ok {
			continue
		}
		for _, b := range bs.List {
			if msg := t.conflict(b); msg != "" {
				reportImported(pass, imports, t.previous(b), b, msg)
				continue
			}
			t.add(b)
		}
	}

	var own []Binding
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	insp.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node) {
		call := n.(*ast.CallExpr)
		b, ok := registration(pass, call)
		if !ok {
			return
		}
		if msg := t.conflict(b); msg != "" {
			pass.Reportf(call.Pos(), "%s", msg)
			return
		}
		if t.add(b) {
			own = append(own, b)
		}
	})

	if len(own) > 0 {
		pass.ExportPackageFact(&Bindings{List: own})
	}
	return nil, nil
}

// importSpecs maps each direct import path to the position of its spec.
func importSpecs(pass *analysis.Pass) map[string]token.Pos {
	specs := make(map[string]token.Pos)
	for _, f := range pass.Files {
		for _, imp := range f.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			if err != nil {
				continue
			}
			if _, ok := specs[path]; !ok {
				specs[path] = imp.Pos()
			}
		}
	}
	return specs
}

// reportImported reports a collision between two imported packages. It is
// reported only where one side is a direct import; packages further up the
// import graph would otherwise repeat it.
func reportImported(pass *analysis.Pass, imports map[string]token.Pos, prev, b Binding, msg string) {
	pos, ok := imports[b.Pkg]
	if !ok {
		if pos, ok = imports[prev.Pkg]; !ok {
			return
		}
	}
	pass.Reportf(pos, "%s; conflicting registration in %s (%s)", msg, b.Pkg, b.Pos)
}

// registration extracts a Binding from call if it registers a type with a
// constant tag on a package-level registry.
func registration(pass *analysis.Pass, call *ast.CallExpr) (Binding, bool) {
	if len(call.Args) < 2 {
		return Binding{}, false
	}
	if tv, ok := pass.TypesInfo.Types[call.Fun]; ok && tv.IsType() {
		return Binding{}, false
	}

	typ, ok := kindArg(pass.TypesInfo.TypeOf(call))
	if !ok {
		return Binding{}, false
	}
	reg := registryVar(pass, call.Args[0])
	if reg == nil {
		return Binding{}, false
	}
	tv, ok := pass.TypesInfo.Types[call.Args[1]]
	if !ok || tv.Value == nil {
		return Binding{}, false
	}
	tag, exact := constant.Uint64Val(constant.ToInt(tv.Value))
	if !exact {
		return Binding{}, false
	}

	return Binding{
		Registry: reg.Pkg().Path() + "." + reg.Name(),
		Display:  reg.Pkg().Name() + "." + reg.Name(),
		Tag:      tag,
		Type:     types.TypeString(typ, nil),
		Pkg:      pass.Pkg.Path(),
		Pos:      pass.Fset.Position(call.Pos()).String(),
	}, true
}

// kindArg returns T if t is *tags.Kind[T] or (*tags.Kind[T], error).
func kindArg(t types.Type) (types.Type, bool) {
	if tup, ok := t.(*types.Tuple); ok {
		if tup.Len() == 0 {
			return nil, false
		}
		t = tup.At(0).Type()
	}
	ptr, ok := t.(*types.Pointer)
	if !ok {
		return nil, false
	}
	named, ok := types.Unalias(ptr.Elem()).(*types.Named)
	if !ok {
		return nil, false
	}
	obj := named.Obj()
	if obj.Pkg() == nil || obj.Pkg().Path() != tagsPath || obj.Name() != "Kind" {
		return nil, false
	}
	args := named.TypeArgs()
	if args.Len() != 1 || hasTypeParam(args.At(0)) {
		return nil, false
	}
	return args.At(0), true
}

// registryVar resolves expr to a package-level variable.
// Registries held in locals or parameters are not tracked.
func registryVar(pass *analysis.Pass, expr ast.Expr) *types.Var {
	var id *ast.Ident
	switch e := ast.Unparen(expr).(type) {
	case *ast.Ident:
		id = e
	case *ast.SelectorExpr:
		id = e.Sel
	default:
		return nil
	}
	v, ok := pass.TypesInfo.Uses[id].(*types.Var)
	if !ok || v.Pkg() == nil || v.Pkg().Scope().Lookup(v.Name()) != v {
		return nil
	}
	return v
}

func hasTypeParam(t types.Type) bool {
	switch t := types.Unalias(t).(type) {
	case *types.TypeParam:
		return true
	case *types.Pointer:
		return hasTypeParam(t.Elem())
	case *types.Slice:
		return hasTypeParam(t.Elem())
	case *types.Array:
		return hasTypeParam(t.Elem())
	case *types.Chan:
		return hasTypeParam(t.Elem())
	case *types.Map:
		return hasTypeParam(t.Key()) || hasTypeParam(t.Elem())
	case *types.Signature:
		return tupleHasTypeParam(t.Params()) || tupleHasTypeParam(t.Results())
	case *types.Named:
		args := t.TypeArgs()
		for i := range args.Len() {
			if hasTypeParam(args.At(i)) {
				return true
			}
		}
	}
	return false
}

func tupleHasTypeParam(tup *types.Tuple) bool {
	for i := range tup.Len() {
		if hasTypeParam(tup.At(i).Type()) {
			return true
		}
	}
	return false
}
