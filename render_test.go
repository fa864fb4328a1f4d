package nanocmp

import (
	"strings"
	"testing"

	"github.com/pthm/nanocmp/lib/dom"
)

func TestRenderIsIdempotent(t *testing.T) {
	doc := parseDoc(t, `<section><my-x id="one"></my-x></section>`)
	build, calls := countingBuilder()
	reg := NewRegistry(doc, Options{Ready: true})
	reg.Define("my-x", Definition{Builder: build, Members: map[string]any{"n": 1}})

	node := dom.FindElement(doc, "my-x")
	section := dom.FindElement(doc, "section")

	reg.RenderAll()
	reg.Render("my-x")
	reg.RenderIn("my-x", section)
	reg.RenderNode(node)
	reg.RenderNode(section)

	if *calls != 1 {
		t.Errorf("builder ran %d times, want 1", *calls)
	}
	if len(node.Attr) != 2 {
		t.Errorf("attributes = %v, want id and a single marker", node.Attr)
	}
}

func TestRenderProcessesNewElements(t *testing.T) {
	doc := parseDoc(t, `<body></body>`)
	build, calls := countingBuilder()
	reg := NewRegistry(doc, Options{Ready: true})
	reg.Define("my-x", Definition{Builder: build})

	if err := dom.AppendHTML(dom.FindElement(doc, "body"), `<my-x></my-x><my-x></my-x><p><my-x></my-x></p>`); err != nil {
		t.Fatalf("AppendHTML() error = %v", err)
	}

	n, err := reg.Render("my-x")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if n != 3 || *calls != 3 {
		t.Errorf("Render() = %d with %d builder calls, want 3 and 3", n, *calls)
	}

	n, _ = reg.Render("my-x")
	if n != 0 || *calls != 3 {
		t.Errorf("second Render() = %d with %d builder calls, want 0 and 3", n, *calls)
	}
}

func TestRenderUndefined(t *testing.T) {
	reg := NewRegistry(nil, Options{Ready: true})

	if _, err := reg.Render("not-registered"); !IsUndefined(err) {
		t.Errorf("Render() error = %v, want ErrUndefinedComponent", err)
	}
	if _, err := reg.RenderIn("not-registered", reg.Document()); !IsUndefined(err) {
		t.Errorf("RenderIn() error = %v, want ErrUndefinedComponent", err)
	}
}

func TestRenderInContainer(t *testing.T) {
	doc := parseDoc(t, `<div id="a"><my-x></my-x></div><div id="b"><my-x></my-x><my-x></my-x></div>`)
	reg := NewRegistry(doc, Options{})
	reg.Define("my-x", Definition{})

	divs := dom.ElementsByTagName(doc, "div")
	n, err := reg.RenderIn("my-x", divs[1])
	if err != nil {
		t.Fatalf("RenderIn() error = %v", err)
	}
	if n != 2 {
		t.Errorf("RenderIn() = %d, want 2", n)
	}
	if first := dom.FindElement(divs[0], "my-x"); dom.HasAttr(first, MarkerAttr) {
		t.Error("element outside the container was rendered")
	}

	// nil container means the whole document.
	if n, _ := reg.RenderIn("my-x", nil); n != 1 {
		t.Errorf("RenderIn(nil) = %d, want 1", n)
	}
}

func TestRenderNode(t *testing.T) {
	doc := parseDoc(t, `<my-list><my-item></my-item><my-item></my-item></my-list><my-item id="outside"></my-item>`)
	reg := NewRegistry(doc, Options{})
	listBuild, listCalls := countingBuilder()
	itemBuild, itemCalls := countingBuilder()
	reg.Define("my-list", Definition{Builder: listBuild})
	reg.Define("my-item", Definition{Builder: itemBuild})

	list := dom.FindElement(doc, "my-list")

	// An unprocessed registered element renders itself only.
	if n := reg.RenderNode(list); n != 1 {
		t.Errorf("RenderNode(list) = %d, want 1", n)
	}
	if *listCalls != 1 || *itemCalls != 0 {
		t.Errorf("calls list=%d item=%d, want 1 and 0", *listCalls, *itemCalls)
	}

	// Once processed, the same call scans its subtree.
	if n := reg.RenderNode(list); n != 2 {
		t.Errorf("second RenderNode(list) = %d, want 2", n)
	}
	if *itemCalls != 2 {
		t.Errorf("item builder ran %d times, want 2", *itemCalls)
	}

	outside := dom.ElementsByTagName(doc, "my-item")[2]
	if dom.HasAttr(outside, MarkerAttr) {
		t.Error("element outside the scanned subtree was rendered")
	}
}

func TestRenderNodeUnregisteredContainer(t *testing.T) {
	doc := parseDoc(t, `<section><my-a></my-a><my-b></my-b><my-c></my-c></section>`)
	reg := NewRegistry(doc, Options{})
	reg.Define("my-a", Definition{})
	reg.Define("my-b", Definition{})

	if n := reg.RenderNode(dom.FindElement(doc, "section")); n != 2 {
		t.Errorf("RenderNode() = %d, want 2", n)
	}
	if n := reg.RenderNode(nil); n != 0 {
		t.Errorf("RenderNode(nil) = %d, want 0", n)
	}
}

func TestRenderAllOrder(t *testing.T) {
	doc := parseDoc(t, `<my-b id="b1"></my-b><my-a id="a1"></my-a><my-a id="a2"></my-a><my-b id="b2"></my-b>`)
	var seen []string
	record := func(in *Instance) {
		id, _ := in.Attr("id")
		seen = append(seen, id)
	}
	reg := NewRegistry(doc, Options{})
	reg.Define("my-a", Definition{Builder: record})
	reg.Define("my-b", Definition{Builder: record})

	if n := reg.RenderAll(); n != 4 {
		t.Errorf("RenderAll() = %d, want 4", n)
	}
	if got := strings.Join(seen, ","); got != "a1,a2,b1,b2" {
		t.Errorf("order = %q, want a1,a2,b1,b2", got)
	}
}

func TestBuilderInsertedChildrenWaitForNextPass(t *testing.T) {
	doc := parseDoc(t, `<my-list></my-list>`)
	reg := NewRegistry(doc, Options{})
	reg.Define("my-list", Definition{Builder: func(in *Instance) {
		in.AppendHTML(`<my-list class="nested"></my-list>`)
	}})

	if n, _ := reg.Render("my-list"); n != 1 {
		t.Errorf("first pass = %d, want 1", n)
	}
	if n, _ := reg.Render("my-list"); n != 1 {
		t.Errorf("second pass = %d, want 1", n)
	}
}

func TestBuilderRenderingItselfDoesNotRecurse(t *testing.T) {
	doc := parseDoc(t, `<my-x></my-x>`)
	reg := NewRegistry(doc, Options{})
	calls := 0
	reg.Define("my-x", Definition{Builder: func(in *Instance) {
		calls++
		reg.RenderNode(in.Node)
	}})

	reg.RenderAll()
	if calls != 1 {
		t.Errorf("builder ran %d times, want 1", calls)
	}
}

func TestMembersAndAccessors(t *testing.T) {
	reg := NewRegistry(nil, Options{})
	var seenInBuilder any
	reg.Define("my-x", Definition{
		Members: map[string]any{"label": "hello", "count": 0},
		Accessors: map[string]Accessor{
			"upper": {
				Get: func(in *Instance) any {
					v, _ := in.Load("label")
					return strings.ToUpper(v.(string))
				},
				Set: func(in *Instance, v any) {
					in.Store("label", strings.ToLower(v.(string)))
				},
			},
			"fixed": {Get: func(*Instance) any { return 42 }},
		},
		Builder: func(in *Instance) {
			seenInBuilder, _ = in.Get("label")
			in.Set("count", 1)
		},
	})

	in, err := reg.Create("my-x")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if seenInBuilder != "hello" {
		t.Errorf("builder saw label %v, want members attached first", seenInBuilder)
	}
	if v, _ := in.Get("count"); v != 1 {
		t.Errorf("count = %v, want 1", v)
	}
	if v, _ := in.Get("upper"); v != "HELLO" {
		t.Errorf("upper = %v, want HELLO", v)
	}

	in.Set("upper", "WORLD")
	if v, _ := in.Get("label"); v != "world" {
		t.Errorf("label = %v, want world", v)
	}

	in.Set("fixed", 7)
	if v, _ := in.Get("fixed"); v != 42 {
		t.Errorf("read-only accessor changed to %v", v)
	}

	if _, ok := in.Get("missing"); ok {
		t.Error("Get(missing) ok = true")
	}

	data := in.Data()
	data["label"] = "mutated"
	if v, _ := in.Get("label"); v != "world" {
		t.Error("Data() should return a copy")
	}
}

func TestInstancesDoNotShareData(t *testing.T) {
	reg := NewRegistry(nil, Options{})
	reg.Define("my-x", Definition{Members: map[string]any{"count": 0}})

	a, _ := reg.Create("my-x")
	b, _ := reg.Create("my-x")
	a.Set("count", 5)

	if v, _ := b.Get("count"); v != 0 {
		t.Errorf("second instance count = %v, want 0", v)
	}
}

func TestRenderedElementCarriesMarker(t *testing.T) {
	doc := parseDoc(t, `<my-x></my-x>`)
	reg := NewRegistry(doc, Options{})
	reg.Define("my-x", Definition{Builder: func(in *Instance) { in.AddClass("ready") }})
	reg.Initialize()

	out, _ := dom.RenderString(doc)
	if !strings.Contains(out, `<my-x class="ready" is-nc="">`) {
		t.Errorf("rendered document = %s", out)
	}
}
