// Package schema infers a JSON Schema document from a field.Field tree
// without parsing any data, adapted from the YAML-schema-generation logic
// this module's teacher carried in its magicschema package: the same
// type-inference and union-merge rules, applied by walking Field/combinator
// structure instead of a YAML AST, since this domain has no YAML input to
// infer from.
package schema

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"go.binlayout.dev/binlayout/field"
)

// elementField is implemented by combinator.Array/RepeatUntil: a field that
// repeats a single element field an indeterminate number of times.
type elementField interface {
	field.Field
	Element() field.Field
}

// branchesField is implemented by combinator.Switch/Select: a field that
// resolves to exactly one of several fields at parse time, based on a
// predicate Describe cannot evaluate without a parsed context.
type branchesField interface {
	field.Field
	Branches() []field.Field
}

// namedBitsField is implemented by combinator.BitwiseStructure: a field
// that packs several named integer subfields into one word.
type namedBitsField interface {
	field.Field
	BitFieldNames() []string
}

// namedComponentsField is implemented by combinator.FormatStructure: a
// field that decodes several named integer components from one packed
// read.
type namedComponentsField interface {
	field.Field
	FieldNames() []string
}

// Describe walks f structurally and returns the JSON Schema document
// describing the shape of values f.Parse would produce. It never invokes
// Parse or Sizeof against real data.
func Describe(f field.Field) (*jsonschema.Schema, error) {
	if f == nil {
		return nil, fmt.Errorf("schema: describe: nil field")
	}

	return describe(f)
}

func describe(f field.Field) (*jsonschema.Schema, error) {
	switch t := f.(type) {
	case field.SchemaShaper:
		return shapeSchema(t.SchemaShape()), nil

	case branchesField:
		return describeBranches(t.Branches())

	case namedBitsField:
		return describeNamedIntegers(t.BitFieldNames()), nil

	case namedComponentsField:
		return describeNamedIntegers(t.FieldNames()), nil

	case field.ContainerField:
		return describeContainer(t.Children())

	case elementField:
		item, err := describe(t.Element())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name(), err)
		}

		return &jsonschema.Schema{Type: "array", Items: item}, nil

	case field.WrapperField:
		return describe(t.Unwrap())

	default:
		return TrueSchema(), nil
	}
}

// shapeSchema converts a field.SchemaShape into a *jsonschema.Schema.
func shapeSchema(shape field.SchemaShape) *jsonschema.Schema {
	if shape.Type == "" {
		return TrueSchema()
	}

	s := &jsonschema.Schema{Type: shape.Type}

	if shape.MinLength != nil {
		n := int(*shape.MinLength)
		s.MinLength = &n
	}

	if shape.MaxLength != nil {
		n := int(*shape.MaxLength)
		s.MaxLength = &n
	}

	return s
}

// describeContainer builds an object schema from an ordered child list,
// the rule shared by combinator.Structure and combinator.Union: embedded
// children splice their properties into this object at the embedding
// point, named children become nested properties, and anonymous
// non-embedded children (paddings, assertions, nulls) are discarded —
// mirroring each combinator's own Parse-time merge rule exactly.
func describeContainer(children []field.Field) (*jsonschema.Schema, error) {
	result := &jsonschema.Schema{
		Type:                 "object",
		Properties:           make(map[string]*jsonschema.Schema),
		AdditionalProperties: FalseSchema(),
	}

	for _, child := range children {
		if child.IsEmbedded() {
			sub, err := describe(child)
			if err != nil {
				return nil, err
			}

			if sub.Type != "object" {
				continue
			}

			for _, key := range propertyKeys(sub) {
				result.Properties[key] = sub.Properties[key]
				result.PropertyOrder = append(result.PropertyOrder, key)
			}

			continue
		}

		// Switch/Select/IfElse have no name of their own: whichever branch
		// is resolved at parse time contributes its own properties (or its
		// own single named property) directly to this object, the same as
		// if that branch had been declared in the child's place.
		if bf, ok := child.(branchesField); ok {
			sub, err := describeChoiceAsChild(bf.Branches())
			if err != nil {
				return nil, err
			}

			if sub.Type != "object" {
				continue
			}

			for _, key := range propertyKeys(sub) {
				result.Properties[key] = sub.Properties[key]
				result.PropertyOrder = append(result.PropertyOrder, key)
			}

			continue
		}

		if child.Name() == "" {
			continue
		}

		sub, err := describe(child)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", child.Name(), err)
		}

		result.Properties[child.Name()] = sub
		result.PropertyOrder = append(result.PropertyOrder, child.Name())
	}

	return result, nil
}

// describeBranches unions the bare value schemas of every reachable
// Switch/Select branch with mergeSchemas, since the actual chosen branch
// is not known until a context exists to evaluate the predicate against.
// This is the shape Parse itself returns for a Switch/Select/IfElse used
// standalone (or nested under Array, Union-as-child-of-Array, etc.), where
// the resolved branch's raw value is returned directly, unwrapped.
func describeBranches(branches []field.Field) (*jsonschema.Schema, error) {
	var result *jsonschema.Schema

	for _, b := range branches {
		s, err := describe(b)
		if err != nil {
			return nil, err
		}

		result = mergeSchemas(result, s)
	}

	if result == nil {
		return TrueSchema(), nil
	}

	return result, nil
}

// describeChoiceAsChild unions, for each branch, the contribution that
// branch would make to the enclosing Structure/Union's own object schema
// if it were the one chosen at parse time: a spliced set of properties if
// the branch is Embed-wrapped, or a single property under the branch's own
// name otherwise — exactly the storage rule combinator.Structure.Parse and
// combinator.Union.Parse apply to a resolved Switch/Select/IfElse child.
func describeChoiceAsChild(branches []field.Field) (*jsonschema.Schema, error) {
	var result *jsonschema.Schema

	for _, b := range branches {
		s, err := describeContainer([]field.Field{b})
		if err != nil {
			return nil, err
		}

		result = mergeSchemas(result, s)
	}

	if result == nil {
		return TrueSchema(), nil
	}

	return result, nil
}

// describeNamedIntegers builds an object schema with one integer property
// per name, used for BitwiseStructure and FormatStructure.
func describeNamedIntegers(names []string) *jsonschema.Schema {
	result := &jsonschema.Schema{
		Type:                 "object",
		Properties:           make(map[string]*jsonschema.Schema),
		AdditionalProperties: FalseSchema(),
	}

	for _, name := range names {
		result.Properties[name] = &jsonschema.Schema{Type: "integer"}
		result.PropertyOrder = append(result.PropertyOrder, name)
	}

	return result
}
