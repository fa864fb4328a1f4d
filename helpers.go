package nanocmp

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/pthm/nanocmp/lib/dom"
)

// SetupFunc registers components on a fresh per-document registry.
type SetupFunc func(*Registry) error

// Process parses an HTML document from r, runs setup against a new
// registry, initializes it and writes the rendered document to w.
//
//	reg, err := nanocmp.Process(in, out, func(reg *nanocmp.Registry) error {
//	    return reg.Define("my-card", cardDef)
//	}, nanocmp.Options{})
//
// The registry is returned for inspection (stylesheet, instances) even when
// a later step fails.
func Process(r io.Reader, w io.Writer, setup SetupFunc, opts Options) (*Registry, error) {
	doc, err := dom.Parse(r)
	if err != nil {
		return nil, err
	}

	reg := NewRegistry(doc, opts)
	if setup != nil {
		if err := setup(reg); err != nil {
			return reg, err
		}
	}
	if err := reg.Initialize(); err != nil {
		return reg, err
	}
	return reg, dom.Render(w, doc)
}

// Wrap returns a templ component that renders c and then runs the result
// through Process. Use it around full-page layouts:
//
//	nanocmp.Wrap(layout(page), setup, nanocmp.Options{}).Render(ctx, w)
func Wrap(c templ.Component, setup SetupFunc, opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := c.Render(ctx, &buf); err != nil {
			return err
		}
		_, err := Process(&buf, w, setup, opts)
		return err
	})
}

// Middleware post-processes HTML responses of next: each response body is
// parsed as a document, given its own registry via setup, and rendered.
// Non-HTML responses pass through untouched.
//
//	mux := http.NewServeMux()
//	http.ListenAndServe(":8080", nanocmp.Middleware(setup, nanocmp.Options{})(mux))
//
// Setup or style errors produce a 500 response.
func Middleware(setup SetupFunc, opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bw := &bufferedWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(bw, r)

			body := bw.buf.Bytes()
			if !isHTML(w.Header().Get("Content-Type"), body) || r.Method == http.MethodHead {
				bw.flush(body)
				return
			}

			var out bytes.Buffer
			if _, err := Process(bytes.NewReader(body), &out, setup, opts); err != nil {
				if opts.Logger != nil {
					opts.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("document processing failed")
				}
				w.Header().Del("Content-Length")
				http.Error(w, "Internal error", http.StatusInternalServerError)
				return
			}
			bw.flush(out.Bytes())
		})
	}
}

// bufferedWriter holds the response until the document can be processed.
type bufferedWriter struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (bw *bufferedWriter) WriteHeader(code int) {
	bw.status = code
}

func (bw *bufferedWriter) Write(p []byte) (int, error) {
	return bw.buf.Write(p)
}

func (bw *bufferedWriter) flush(body []byte) {
	h := bw.ResponseWriter.Header()
	if h.Get("Content-Length") != "" {
		h.Set("Content-Length", strconv.Itoa(len(body)))
	}
	bw.ResponseWriter.WriteHeader(bw.status)
	bw.ResponseWriter.Write(body)
}

func isHTML(contentType string, body []byte) bool {
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	return strings.HasPrefix(strings.ToLower(contentType), "text/html")
}
