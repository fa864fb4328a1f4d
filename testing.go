package nanocmp

import (
	"strings"

	"github.com/pthm/nanocmp/lib/dom"
)

// TestResult holds the outcome of processing a document for testing.
//
// Provides convenience methods for asserting on the rendered HTML, the
// accumulated stylesheet and the rendered instances.
type TestResult struct {
	HTML     string
	CSS      string
	Registry *Registry
}

// TestDocument processes src with setup and returns testable output.
//
// Use this for unit tests of component definitions without an HTTP server:
//
//	result, err := nanocmp.TestDocument(`<my-card></my-card>`, func(reg *nanocmp.Registry) error {
//	    return reg.Define("my-card", cardDef)
//	})
//	if result.CountRendered("my-card") != 1 {
//	    t.Fatal("card not rendered")
//	}
func TestDocument(src string, setup SetupFunc) (*TestResult, error) {
	return TestDocumentWithOptions(src, setup, Options{})
}

// TestDocumentWithOptions is TestDocument with custom registry options,
// e.g. a StateEncoder.
func TestDocumentWithOptions(src string, setup SetupFunc, opts Options) (*TestResult, error) {
	var out strings.Builder
	reg, err := Process(strings.NewReader(src), &out, setup, opts)
	if err != nil {
		return nil, err
	}
	return &TestResult{
		HTML:     out.String(),
		CSS:      reg.Stylesheet().String(),
		Registry: reg,
	}, nil
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// CSSContains checks if the accumulated stylesheet contains a substring.
func (r *TestResult) CSSContains(substr string) bool {
	return strings.Contains(r.CSS, substr)
}

// CountRendered returns how many elements of tag carry the processed marker.
func (r *TestResult) CountRendered(tag string) int {
	n := 0
	for _, node := range dom.ElementsByTagName(r.Registry.Document(), tag) {
		if dom.HasAttr(node, MarkerAttr) {
			n++
		}
	}
	return n
}

// Instances returns the instances of tag in document order.
func (r *TestResult) Instances(tag string) []*Instance {
	var out []*Instance
	for _, node := range dom.ElementsByTagName(r.Registry.Document(), tag) {
		if in, ok := r.Registry.Instance(node); ok {
			out = append(out, in)
		}
	}
	return out
}
