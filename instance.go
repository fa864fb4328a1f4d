package nanocmp

import (
	"golang.org/x/net/html"

	"github.com/pthm/nanocmp/lib/dom"
)

// Instance is the component record attached to one rendered element. The
// registry keeps instances in a side table keyed by node, so the element
// itself stays a plain *html.Node.
type Instance struct {
	// Node is the element this instance belongs to.
	Node *html.Node
	// Tag is the component tag name.
	Tag string

	data      map[string]any
	accessors map[string]Accessor
}

func newInstance(node *html.Node, tag string, def *Definition) (*Instance, error) {
	data, err := cloneMap(def.Members)
	if err != nil {
		return nil, err
	}
	return &Instance{
		Node:      node,
		Tag:       tag,
		data:      data,
		accessors: def.Accessors,
	}, nil
}

// Get returns member name, going through its accessor when one is defined.
func (in *Instance) Get(name string) (any, bool) {
	if acc, ok := in.accessors[name]; ok && acc.Get != nil {
		return acc.Get(in), true
	}
	v, ok := in.data[name]
	return v, ok
}

// Set assigns member name. Accessor members delegate to their setter;
// read-only accessors ignore the write.
func (in *Instance) Set(name string, v any) {
	if acc, ok := in.accessors[name]; ok {
		if acc.Set != nil {
			acc.Set(in, v)
		}
		return
	}
	in.data[name] = v
}

// Load reads a data field, bypassing accessors. Accessors use it as their
// backing storage.
func (in *Instance) Load(name string) (any, bool) {
	v, ok := in.data[name]
	return v, ok
}

// Store writes a data field, bypassing accessors.
func (in *Instance) Store(name string, v any) {
	in.data[name] = v
}

// Data returns a copy of the instance's data fields.
func (in *Instance) Data() map[string]any {
	out := make(map[string]any, len(in.data))
	for k, v := range in.data {
		out[k] = v
	}
	return out
}

// Attr returns an attribute of the element.
func (in *Instance) Attr(key string) (string, bool) {
	return dom.Attr(in.Node, key)
}

// SetAttr sets an attribute on the element.
func (in *Instance) SetAttr(key, val string) {
	dom.SetAttr(in.Node, key, val)
}

// AddClass adds class names to the element.
func (in *Instance) AddClass(classes ...string) {
	dom.AddClass(in.Node, classes...)
}

// AppendHTML parses fragment and appends it to the element's children.
func (in *Instance) AppendHTML(fragment string) error {
	return dom.AppendHTML(in.Node, fragment)
}
