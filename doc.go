// Package nanocmp provides named, reusable element definitions for HTML
// documents. A definition registered under a custom tag name gives behavior
// and scoped styling to every element of that tag, without the caller
// instantiating or styling each one.
//
// # Core Concepts
//
// A Registry belongs to one document (a *html.Node from
// golang.org/x/net/html). Components are registered with Define:
//
//	reg := nanocmp.NewRegistry(doc, nanocmp.Options{})
//	reg.Define("my-card", nanocmp.Definition{
//	    Builder: func(in *nanocmp.Instance) {
//	        in.AppendHTML(`<h2 class="title"></h2>`)
//	    },
//	    Style: `.title { margin: 0 } self-tag { display: block }`,
//	})
//	reg.Initialize()
//
// Tag names must be lowercase and contain a hyphen (ValidTagName). A custom
// predicate can be supplied through Options.Validator.
//
// # Lifecycle
//
// A registry has two phases. Before Initialize, Define only records the
// definition. Initialize appends one <style> element to the document and,
// in registration order, inserts each component's scoped rules and renders
// its elements. After that, Define applies styles and renders immediately.
//
// Rendering an element attaches an Instance: the definition's Members are
// copied onto it, its Accessors are bound, Builder runs once, and the element
// gets the boolean is-nc attribute. Every element is rendered at most once,
// however many times it is matched:
//
//	reg.RenderAll()                  // every registered tag
//	reg.Render("my-card")            // one tag, whole document
//	reg.RenderIn("my-card", section) // one tag, inside section
//	reg.RenderNode(node)             // node itself, or any tag under it
//
// Create returns a rendered, detached instance for markup built in Go.
//
// # Scoped Styles
//
// Component styles are rewritten so they only match inside the component
// (see package lib/scope) and accumulated into one append-only sheet (see
// package lib/sheet). A selector is prefixed with the tag name, unless it
// uses the self-tag token, which is replaced by the tag name:
//
//	.title          ->  my-card .title
//	self-tag:hover  ->  my-card:hover
//
// Conditional groups such as @media are kept and their rules rewritten
// recursively. Scoping is textual: styles share one sheet and are not
// isolated from the rest of the page.
//
// # Integration
//
// Process, Wrap (templ) and Middleware (net/http) build a fresh registry per
// document through a SetupFunc. The adapters/echo module does the same for
// Echo. With Options.StateEncoder set, instances also carry their data
// fields in a signed (or encrypted) data-nc-state attribute.
package nanocmp
