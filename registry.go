package nanocmp

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/pthm/nanocmp/lib/dom"
	"github.com/pthm/nanocmp/lib/sheet"
)

// MarkerAttr is the boolean attribute set on every rendered element. Use it
// to select processed instances from CSS or queries.
const MarkerAttr = "is-nc"

// SheetAttr marks the <style> element holding the accumulated sheet.
const SheetAttr = "data-nc-sheet"

// Options configures a Registry. The zero value is ready to use.
type Options struct {
	// Validator decides which tag names Define accepts. Defaults to
	// ValidTagName. Reserved names are always rejected.
	Validator func(string) bool

	// Logger receives debug events for definitions, style insertion and
	// render passes. Nil disables logging.
	Logger *zerolog.Logger

	// Ready starts the registry in the initialized state, for documents
	// that are complete before the first Define.
	Ready bool

	// StateEncoder, when set, makes every rendered instance carry its data
	// fields in the data-nc-state attribute (see StateAttr).
	StateEncoder *Encoder

	// SensitiveState encrypts exported state instead of signing it.
	SensitiveState bool
}

// Registry maps tag names to component definitions for one document, and
// owns everything derived from them: the live instance index, the
// processed-instance side table and the accumulated style sheet.
//
// A Registry is not safe for concurrent use. Integrations that serve many
// documents create one registry per document (see Process and Middleware).
type Registry struct {
	doc       *html.Node
	opts      Options
	log       zerolog.Logger
	validName func(string) bool

	defs      map[string]*Definition
	order     []string // registration order; redefinition keeps the slot
	index     map[string]*LiveIndex
	instances map[*html.Node]*Instance

	sheet     *sheet.Sheet
	styleNode *html.Node
	ready     bool
}

// NewRegistry creates a registry bound to doc, typically the result of
// html.Parse. A nil doc gets an empty document node.
//
// Styles and renders of definitions made before Initialize are deferred
// until Initialize runs, unless opts.Ready is set.
func NewRegistry(doc *html.Node, opts Options) *Registry {
	if doc == nil {
		doc = &html.Node{Type: html.DocumentNode}
	}

	reg := &Registry{
		doc:       doc,
		opts:      opts,
		log:       zerolog.Nop(),
		validName: opts.Validator,
		defs:      make(map[string]*Definition),
		index:     make(map[string]*LiveIndex),
		instances: make(map[*html.Node]*Instance),
		sheet:     sheet.New(),
	}
	if opts.Logger != nil {
		reg.log = opts.Logger.With().Str("component", "nanocmp").Logger()
	}
	if reg.validName == nil {
		reg.validName = ValidTagName
	}

	if opts.Ready {
		// Nothing is defined yet, so this only attaches the style element.
		_ = reg.Initialize()
	}
	return reg
}

// Define registers def under tag, replacing any previous definition.
//
// Returns ErrInvalidName, without touching the registry, when the validator
// rejects tag or tag is reserved. Once the registry is initialized the
// component's style is inserted and every matching element in the document
// is rendered right away; before that both wait for Initialize.
//
// Elements already rendered with an earlier definition keep it.
func (r *Registry) Define(tag string, def Definition) error {
	if !r.validName(tag) || IsReserved(tag) {
		return fmt.Errorf("%w: %q", ErrInvalidName, tag)
	}

	stored, err := normalize(def)
	if err != nil {
		return err
	}
	if _, exists := r.defs[tag]; !exists {
		r.order = append(r.order, tag)
	}
	r.defs[tag] = &stored
	r.index[tag] = newLiveIndex(r.doc, tag)

	r.log.Debug().
		Str("tag", tag).
		Bool("style", stored.Style != nil).
		Bool("ready", r.ready).
		Msg("component defined")

	if r.ready {
		return r.flush(tag)
	}
	return nil
}

// Create builds a new, fully rendered instance of tag. The element is
// detached: inserting it into a document is up to the caller.
//
// Returns ErrUndefinedComponent when tag has no definition.
func (r *Registry) Create(tag string) (*Instance, error) {
	def, ok := r.defs[tag]
	if !ok {
		return nil, undefined(tag)
	}
	return r.process(dom.NewElement(tag), tag, def)
}

// Initialize marks the document as ready: it appends the style element and,
// in registration order, inserts each component's style and renders its
// elements. Only the first call does anything.
//
// A component whose style fails to parse is still rendered and the pass
// continues; the style errors are returned joined.
func (r *Registry) Initialize() error {
	if r.ready {
		return nil
	}
	r.ready = true
	r.attachStyle()

	r.log.Debug().Int("components", len(r.order)).Msg("document ready")

	var errs []error
	for _, tag := range r.order {
		if err := r.flush(tag); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Ready reports whether Initialize has run.
func (r *Registry) Ready() bool {
	return r.ready
}

// Document returns the document the registry renders into.
func (r *Registry) Document() *html.Node {
	return r.doc
}

// Stylesheet returns the accumulated style sheet.
func (r *Registry) Stylesheet() *sheet.Sheet {
	return r.sheet
}

// Definition returns the stored (normalized) definition for tag.
func (r *Registry) Definition(tag string) (Definition, bool) {
	def, ok := r.defs[tag]
	if !ok {
		return Definition{}, false
	}
	return *def, true
}

// Tags returns the registered tag names in registration order.
func (r *Registry) Tags() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Index returns the live index for tag, or nil when tag is not registered.
// The returned index keeps reflecting the document as it changes.
func (r *Registry) Index(tag string) *LiveIndex {
	return r.index[tag]
}

// Instance returns the instance attached to node, if node has been rendered.
func (r *Registry) Instance(node *html.Node) (*Instance, bool) {
	in, ok := r.instances[node]
	return in, ok
}

// flush inserts the style of tag and renders its elements. Elements are
// rendered even when the style is rejected.
func (r *Registry) flush(tag string) error {
	var styleErr error
	if def := r.defs[tag]; def.Style != nil {
		n, err := r.sheet.Insert(tag, def.Style)
		if err != nil {
			styleErr = fmt.Errorf("style of <%s>: %w", tag, err)
			r.log.Warn().Err(err).Str("tag", tag).Msg("style rejected")
		} else {
			r.syncStyle()
			r.log.Debug().Str("tag", tag).Int("rules", n).Msg("style inserted")
		}
	}
	r.renderTag(tag, nil)
	return styleErr
}

// attachStyle appends the shared <style> element to <head>, falling back to
// <html> and then the document itself.
func (r *Registry) attachStyle() {
	if r.styleNode != nil {
		return
	}
	parent := dom.FindElement(r.doc, "head")
	if parent == nil {
		parent = dom.FindElement(r.doc, "html")
	}
	if parent == nil {
		parent = r.doc
	}

	r.styleNode = dom.NewElement("style")
	dom.SetAttr(r.styleNode, SheetAttr, "")
	parent.AppendChild(r.styleNode)
	r.syncStyle()
}

func (r *Registry) syncStyle() {
	if r.styleNode != nil {
		dom.SetText(r.styleNode, r.sheet.Text())
	}
}

func undefined(tag string) error {
	return fmt.Errorf("%w: <%s>", ErrUndefinedComponent, tag)
}
