package nanocmp

import (
	"golang.org/x/net/html"

	"github.com/pthm/nanocmp/lib/dom"
)

// RenderAll renders every unprocessed element of every registered tag, in
// registration order. Returns the number of elements rendered.
func (r *Registry) RenderAll() int {
	total := 0
	for _, tag := range r.order {
		total += r.renderTag(tag, nil)
	}
	return total
}

// Render renders the unprocessed elements of tag anywhere in the document.
//
// Returns ErrUndefinedComponent when tag has no definition.
func (r *Registry) Render(tag string) (int, error) {
	if _, ok := r.defs[tag]; !ok {
		return 0, undefined(tag)
	}
	return r.renderTag(tag, nil), nil
}

// RenderIn renders the unprocessed elements of tag inside container's
// subtree. A nil container means the whole document.
//
// Returns ErrUndefinedComponent when tag has no definition.
func (r *Registry) RenderIn(tag string, container *html.Node) (int, error) {
	if _, ok := r.defs[tag]; !ok {
		return 0, undefined(tag)
	}
	return r.renderTag(tag, container), nil
}

// RenderNode renders node itself when it is an unprocessed element of a
// registered tag. Otherwise it scans node's subtree and renders every
// unprocessed element of any registered tag.
//
// Use it after inserting new markup:
//
//	dom.AppendHTML(list, `<my-item></my-item><my-item></my-item>`)
//	reg.RenderNode(list)
func (r *Registry) RenderNode(node *html.Node) int {
	if node == nil {
		return 0
	}
	if node.Type == html.ElementNode {
		if def, ok := r.defs[node.Data]; ok && !r.processed(node) {
			if _, err := r.process(node, node.Data, def); err != nil {
				r.log.Error().Err(err).Str("tag", node.Data).Msg("render failed")
				return 0
			}
			return 1
		}
	}

	total := 0
	for _, tag := range r.order {
		total += r.renderNodes(tag, dom.ElementsByTagName(node, tag))
	}
	return total
}

func (r *Registry) renderTag(tag string, container *html.Node) int {
	var nodes []*html.Node
	if container == nil {
		nodes = r.index[tag].Nodes()
	} else {
		nodes = dom.ElementsByTagName(container, tag)
	}
	return r.renderNodes(tag, nodes)
}

// renderNodes processes a snapshot of candidates. Elements inserted by a
// builder during the pass are left for the next one.
func (r *Registry) renderNodes(tag string, nodes []*html.Node) int {
	def := r.defs[tag]
	rendered := 0
	for _, node := range nodes {
		if r.processed(node) {
			continue
		}
		if _, err := r.process(node, tag, def); err != nil {
			r.log.Error().Err(err).Str("tag", tag).Msg("render failed")
			continue
		}
		rendered++
	}

	r.log.Debug().
		Str("tag", tag).
		Int("candidates", len(nodes)).
		Int("rendered", rendered).
		Msg("render pass")
	return rendered
}

func (r *Registry) processed(node *html.Node) bool {
	_, ok := r.instances[node]
	return ok
}

// process is the single render primitive: attach members, run the builder
// once, mark the element.
//
// The instance enters the side table before the builder runs, so a builder
// that re-renders its own subtree can't process its element twice.
func (r *Registry) process(node *html.Node, tag string, def *Definition) (*Instance, error) {
	in, err := newInstance(node, tag, def)
	if err != nil {
		return nil, err
	}
	r.instances[node] = in

	def.Builder(in)

	dom.SetAttr(node, MarkerAttr, "")
	r.exportState(in)
	return in, nil
}
