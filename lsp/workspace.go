package lsp

import (
	"os"
	"reflect"
	"sort"
	"sync"

	"github.com/dhamidi/notation/bind"
	"github.com/dhamidi/notation/lex"
)

// Document is an open text document together with the result of binding
// it.
type Document struct {
	URI    string
	Text   string
	Stream *lex.Stream
	// Value is the document bound into maps, slices and scalars.
	Value  any
	Errors lex.ErrorList
}

// Workspace holds the open documents. It is safe for concurrent use.
type Workspace struct {
	mu   sync.RWMutex
	opts []bind.Option
	docs map[string]*Document
}

func NewWorkspace(opts ...bind.Option) *Workspace {
	return &Workspace{
		opts: opts,
		docs: make(map[string]*Document),
	}
}

var anyType = reflect.TypeOf((*any)(nil)).Elem()

func (w *Workspace) analyze(uri, text string) *Document {
	s, errs := lex.Tokenize(text)
	v, bindErrs := bind.Bind(anyType, s, w.opts...)
	errs = append(errs, bindErrs...)
	errs.Sort()
	return &Document{
		URI:    uri,
		Text:   text,
		Stream: s,
		Value:  v.Interface(),
		Errors: errs,
	}
}

// Update replaces the text of a document and binds it again.
func (w *Workspace) Update(uri, text string) *Document {
	doc := w.analyze(uri, text)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.docs[uri] = doc
	return doc
}

// Load reads a document from disk.
func (w *Workspace) Load(uri string) (*Document, error) {
	data, err := os.ReadFile(uriToPath(uri))
	if err != nil {
		return nil, err
	}
	return w.Update(uri, string(data)), nil
}

func (w *Workspace) Remove(uri string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.docs, uri)
}

// Get returns the document for uri, or nil.
func (w *Workspace) Get(uri string) *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.docs[uri]
}

// URIs returns the open documents in order.
func (w *Workspace) URIs() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	uris := make([]string, 0, len(w.docs))
	for uri := range w.docs {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}
