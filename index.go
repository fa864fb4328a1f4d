package nanocmp

import (
	"golang.org/x/net/html"

	"github.com/pthm/nanocmp/lib/dom"
)

// LiveIndex is the view of all elements of one tag in a document. It holds
// no snapshot: every call walks the current tree, so elements inserted or
// removed since the last call are always reflected.
type LiveIndex struct {
	root *html.Node
	tag  string
}

func newLiveIndex(root *html.Node, tag string) *LiveIndex {
	return &LiveIndex{root: root, tag: tag}
}

// Tag returns the tag name the index tracks.
func (li *LiveIndex) Tag() string {
	return li.tag
}

// Nodes returns the matching elements in document order.
func (li *LiveIndex) Nodes() []*html.Node {
	return dom.ElementsByTagName(li.root, li.tag)
}

// Len returns the number of matching elements.
func (li *LiveIndex) Len() int {
	return len(li.Nodes())
}
