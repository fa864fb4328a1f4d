package nanocmp

import (
	"dario.cat/mergo"

	"github.com/pthm/nanocmp/lib/sheet"
)

// Definition describes a component: what every instance gets when an element
// of its tag is rendered.
//
//	reg.Define("my-card", nanocmp.Definition{
//	    Builder: func(in *nanocmp.Instance) {
//	        in.AddClass("card")
//	    },
//	    Style:   `.title { font-weight: bold } self-tag:hover { outline: 1px solid }`,
//	    Members: map[string]any{"kind": "card"},
//	})
//
// Members and Accessors are attached to each instance before Builder runs.
type Definition struct {
	// Builder initializes one instance. It runs exactly once per element and
	// is not kept on the instance afterwards. Nil means no-op.
	Builder func(*Instance)

	// Style is the component's CSS: a string, a []byte or a pre-parsed
	// *css.Stylesheet from github.com/aymerick/douceur. Any other value is
	// dropped at Define time. Selectors are scoped to the tag; "self-tag"
	// stands for the element itself.
	Style any

	// Members are data fields copied onto every instance.
	Members map[string]any

	// Accessors are computed members: Instance.Get and Instance.Set go
	// through them instead of the data fields.
	Accessors map[string]Accessor
}

// Accessor is a computed member. A nil Set makes the member read-only.
type Accessor struct {
	Get func(*Instance) any
	Set func(*Instance, any)
}

// normalize returns the stored form of def: a no-op builder when none is
// given, no style when the source is unusable, and private copies of the
// member tables.
func normalize(def Definition) (Definition, error) {
	out := Definition{
		Builder: def.Builder,
		Style:   def.Style,
	}
	if out.Builder == nil {
		out.Builder = func(*Instance) {}
	}
	if !sheet.IsSource(out.Style) {
		out.Style = nil
	}

	var err error
	if out.Members, err = cloneMap(def.Members); err != nil {
		return Definition{}, err
	}
	if out.Accessors, err = cloneMap(def.Accessors); err != nil {
		return Definition{}, err
	}
	return out, nil
}

// cloneMap copies src into a new map. Values are copied shallowly.
func cloneMap[V any](src map[string]V) (map[string]V, error) {
	out := make(map[string]V, len(src))
	if len(src) == 0 {
		return out, nil
	}
	if err := mergo.Merge(&out, src, mergo.WithOverride); err != nil {
		return nil, err
	}
	return out, nil
}
