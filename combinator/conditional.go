package combinator

import (
	"fmt"

	"go.binlayout.dev/binlayout/field"
	"go.binlayout.dev/binlayout/scope"
	"go.binlayout.dev/binlayout/stream"
)

// checkBranchName requires a branch field to carry its own name: Switch,
// Select, and IfElse have no name of their own (see Name() below), so the
// branch's own name is what the enclosing Structure stores its value
// under once the branch is resolved at parse time.
func checkBranchName(owner string, f field.Field) {
	if f.Name() == "" {
		panic(fmt.Errorf("%w: %s: branch field must have a name", field.ErrInvalidFieldName, owner))
	}
}

// namedChoiceField is implemented by Switch/Select (and, transitively,
// IfElse): a field whose storage key is only known once parsing resolves
// which branch fired. Structure and Union ask for the resolved branch
// alongside its value instead of relying on Name(), which is always "" for
// these combinators.
type namedChoiceField interface {
	field.Field
	resolveChoice(s stream.Stream, parent scope.Context) (field.Field, any, error)
}

// switchField evaluates a key predicate over the current context, looks
// the key up in a construct-time mapping, and parses the chosen field into
// a fresh private StructContext; an embedded choice merges back into the
// enclosing scope, otherwise the choice's own name is used by whichever
// Structure/Union holds this Switch.
type switchField struct {
	key        field.KeyPredicate
	mapping    map[any]field.Field
	hasDefault bool
	def        field.Field
}

// SwitchOption configures a Switch field.
type SwitchOption func(*switchField)

// WithSwitchDefault supplies the field parsed when the key predicate's
// result is absent from mapping, instead of failing with
// field.ErrNoDefaultField. def must have a name, like every mapping value.
func WithSwitchDefault(def field.Field) SwitchOption {
	return func(f *switchField) { f.hasDefault = true; f.def = def }
}

// Switch constructs a field that dispatches on key(context) into mapping.
// Switch has no name of its own: whichever branch resolve() picks is
// stored by the enclosing Structure/Union under that branch's own name
// (or merged in, if the branch is Embed-wrapped), exactly as if the chosen
// branch had been declared directly in its place. Every mapping value (and
// the default, if supplied) must therefore have a non-empty name.
func Switch(key field.KeyPredicate, mapping map[any]field.Field, opts ...SwitchOption) field.Field {
	if key == nil {
		panic(fmt.Errorf("%w: switch: nil key predicate", field.ErrInvalidFunctor))
	}

	for k, v := range mapping {
		if v == nil {
			panic(fmt.Errorf("%w: switch: nil field for key %v", field.ErrInvalidChildField, k))
		}

		checkBranchName("switch", v)
	}

	f := &switchField{key: key, mapping: mapping}
	for _, opt := range opts {
		opt(f)
	}

	if f.hasDefault {
		if f.def == nil {
			panic(fmt.Errorf("%w: switch: nil default field", field.ErrInvalidChildField))
		}

		checkBranchName("switch", f.def)
	}

	return f
}

func (f *switchField) Name() string     { return "" }
func (f *switchField) IsEmbedded() bool { return false }
func (f *switchField) IsNested() bool   { return true }

// Branches returns every field reachable from this Switch: every mapping
// value plus the default, if any. schema.Describe unions their schemas
// since the predicate's resolved key is not known at describe time.
func (f *switchField) Branches() []field.Field {
	branches := make([]field.Field, 0, len(f.mapping)+1)
	for _, v := range f.mapping {
		branches = append(branches, v)
	}

	if f.hasDefault {
		branches = append(branches, f.def)
	}

	return branches
}

func (f *switchField) resolve(ctx scope.Context) (field.Field, error) {
	k, err := scope.Invoke(func(c scope.Context) any { return f.key(c) }, ctx)
	if err != nil {
		return nil, err
	}

	if chosen, ok := f.mapping[k]; ok {
		return chosen, nil
	}

	if f.hasDefault {
		return f.def, nil
	}

	return nil, fmt.Errorf("%w: key %v", field.ErrNoDefaultField, k)
}

func (f *switchField) Sizeof(ctx scope.Context) (int64, error) {
	chosen, err := f.resolve(ctx)
	if err != nil {
		return 0, field.NewSizeofError("switch", err.Error())
	}

	return chosen.Sizeof(ctx)
}

func (f *switchField) resolveChoice(s stream.Stream, parent scope.Context) (field.Field, any, error) {
	offset, _ := s.Tell()

	chosen, err := f.resolve(parent)
	if err != nil {
		return nil, nil, field.NewParseError(offset, "switch", field.ErrNoDefaultField, err.Error())
	}

	v, err := parseChosenBranch(s, parent, chosen)

	return chosen, v, err
}

func (f *switchField) Parse(s stream.Stream, parent scope.Context) (any, error) {
	_, v, err := f.resolveChoice(s, parent)

	return v, err
}

// parseChosenBranch parses chosen into a fresh private "Switch"-named
// context, as spec.md's Switch section describes, so the branch's own
// predicates navigate relative to it rather than the real enclosing scope.
func parseChosenBranch(s stream.Stream, parent scope.Context, chosen field.Field) (any, error) {
	private := scope.NewStructContext("Switch", parent)

	v, err := chosen.Parse(s, private)
	if err != nil {
		return nil, err
	}

	if chosen.IsEmbedded() {
		sub, ok := v.(*scope.StructContext)
		if !ok {
			return nil, field.NewParseError(0, chosen.Name(), field.ErrInvalidChildField,
				"embedded choice did not yield a StructContext")
		}

		return sub, nil
	}

	return v, nil
}

// selectField is a list of (predicate, field) pairs; the first whose
// predicate is true is chosen. Otherwise identical to Switch.
type selectCase struct {
	pred field.BoolPredicate
	f    field.Field
}

type selectField struct {
	cases      []selectCase
	hasDefault bool
	def        field.Field
}

// SelectOption configures a Select field.
type SelectOption func(*selectField)

// WithSelectDefault supplies the field parsed when no case's predicate
// holds, instead of failing with field.ErrNoDefaultField. def must have a
// name, like every case's field.
func WithSelectDefault(def field.Field) SelectOption {
	return func(f *selectField) { f.hasDefault = true; f.def = def }
}

// SelectCase pairs a predicate with the field chosen when it holds.
type SelectCase struct {
	Predicate field.BoolPredicate
	Field     field.Field
}

// Select constructs a field that parses the first case whose predicate
// evaluates true over the current context. Select has no name of its own:
// like Switch, the chosen case's own field name (or its merged entries, if
// Embed-wrapped) is what the enclosing Structure/Union stores. Every
// case's field (and the default, if supplied) must therefore have a
// non-empty name.
func Select(cases []SelectCase, opts ...SelectOption) field.Field {
	f := &selectField{}

	for _, c := range cases {
		if c.Predicate == nil {
			panic(fmt.Errorf("%w: select: nil predicate", field.ErrInvalidFunctor))
		}

		if c.Field == nil {
			panic(fmt.Errorf("%w: select: nil field", field.ErrInvalidChildField))
		}

		checkBranchName("select", c.Field)

		f.cases = append(f.cases, selectCase{pred: c.Predicate, f: c.Field})
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.hasDefault {
		if f.def == nil {
			panic(fmt.Errorf("%w: select: nil default field", field.ErrInvalidChildField))
		}

		checkBranchName("select", f.def)
	}

	return f
}

func (f *selectField) Name() string     { return "" }
func (f *selectField) IsEmbedded() bool { return false }
func (f *selectField) IsNested() bool   { return true }

// Branches returns every field reachable from this Select: every case's
// field plus the default, if any.
func (f *selectField) Branches() []field.Field {
	branches := make([]field.Field, 0, len(f.cases)+1)
	for _, c := range f.cases {
		branches = append(branches, c.f)
	}

	if f.hasDefault {
		branches = append(branches, f.def)
	}

	return branches
}

func (f *selectField) resolve(ctx scope.Context) (field.Field, error) {
	for _, c := range f.cases {
		ok, err := scope.Invoke(func(ctx scope.Context) bool { return c.pred(ctx) }, ctx)
		if err != nil {
			return nil, err
		}

		if ok {
			return c.f, nil
		}
	}

	if f.hasDefault {
		return f.def, nil
	}

	return nil, field.ErrNoDefaultField
}

func (f *selectField) Sizeof(ctx scope.Context) (int64, error) {
	chosen, err := f.resolve(ctx)
	if err != nil {
		return 0, field.NewSizeofError("select", err.Error())
	}

	return chosen.Sizeof(ctx)
}

func (f *selectField) resolveChoice(s stream.Stream, parent scope.Context) (field.Field, any, error) {
	offset, _ := s.Tell()

	chosen, err := f.resolve(parent)
	if err != nil {
		return nil, nil, field.NewParseError(offset, "select", field.ErrNoDefaultField, err.Error())
	}

	v, err := parseChosenBranch(s, parent, chosen)

	return chosen, v, err
}

func (f *selectField) Parse(s stream.Stream, parent scope.Context) (any, error) {
	_, v, err := f.resolveChoice(s, parent)

	return v, err
}

// IfElse is sugar for Select with a single boolean predicate: whenTrue is
// parsed if pred(context) holds, otherwise whenFalse. An omitted whenFalse
// defaults to field.NullField(), which is exempt from the usual
// every-branch-needs-a-name rule since a NullField contributes nothing for
// any enclosing Structure/Union to store.
func IfElse(pred field.BoolPredicate, whenTrue, whenFalse field.Field) field.Field {
	if pred == nil {
		panic(fmt.Errorf("%w: ifelse: nil predicate", field.ErrInvalidFunctor))
	}

	if whenTrue == nil {
		panic(fmt.Errorf("%w: ifelse: nil whenTrue field", field.ErrInvalidChildField))
	}

	checkBranchName("ifelse", whenTrue)

	if whenFalse != nil {
		checkBranchName("ifelse", whenFalse)
	} else {
		whenFalse = field.NullField()
	}

	return &selectField{
		cases: []selectCase{
			{pred: pred, f: whenTrue},
			{pred: func(scope.Context) bool { return true }, f: whenFalse},
		},
	}
}
