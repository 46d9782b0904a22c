// Package ui serves a web playground that tokenizes, binds and prints
// notation text.
package ui

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"reflect"
	"slices"
	"strconv"

	"github.com/dhamidi/notation/bind"
	"github.com/dhamidi/notation/format"
	"github.com/dhamidi/notation/lex"
)

//go:embed static templates/*.html
var embeddedFS embed.FS

// Formats lists the output formats of POST /parse.
var Formats = []string{"notation", "json", "yaml"}

// MaxSource limits the size of a submitted document.
const MaxSource = 1 << 20

type Server struct {
	staticFS   fs.FS
	templateFS fs.FS
	mux        *http.ServeMux
	bind       []bind.Option
	format     []format.Option
}

// NewServer returns the playground. Templates and static files are read
// from ui/templates and ui/static when those exist, so they can be edited
// without rebuilding.
func NewServer(bindOpts []bind.Option, formatOpts []format.Option) (*Server, error) {
	staticFS := overlayFS("ui/static", mustSub(embeddedFS, "static"))
	templateFS := overlayFS("ui/templates", mustSub(embeddedFS, "templates"))

	if _, err := template.ParseFS(templateFS, "*.html"); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		staticFS:   staticFS,
		templateFS: templateFS,
		mux:        http.NewServeMux(),
		bind:       bindOpts,
		format:     formatOpts,
	}

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.mux.HandleFunc("POST /parse", s.handleParse)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.ParseFS(s.templateFS, "*.html")
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	tmpl.ExecuteTemplate(w, name, data)
}

// TokenRow is one token of the token table.
type TokenRow struct {
	At      string `json:"at"`
	Kind    string `json:"kind"`
	Context string `json:"context,omitempty"`
	Text    string `json:"text"`
	Value   string `json:"value,omitempty"`
	Depth   int    `json:"depth"`
}

// Result is the page model, also returned as JSON.
type Result struct {
	Source  string     `json:"source"`
	Format  string     `json:"format"`
	Types   bool       `json:"types"`
	Parsed  bool       `json:"-"`
	Formats []string   `json:"-"`
	Tokens  []TokenRow `json:"tokens"`
	Errors  []string   `json:"errors"`
	Output  string     `json:"output"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", Result{Format: Formats[0], Formats: Formats})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxSource)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data: "+err.Error(), http.StatusBadRequest)
		return
	}
	fmtName := r.FormValue("format")
	if fmtName == "" {
		fmtName = Formats[0]
	}
	if !slices.Contains(Formats, fmtName) {
		http.Error(w, "unknown format "+strconv.Quote(fmtName), http.StatusBadRequest)
		return
	}

	res, err := s.Parse(r.FormValue("source"), fmtName, r.FormValue("types") != "")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if r.Header.Get("Accept") == "application/json" {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(res)
		return
	}
	s.render(w, "index.html", res)
}

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// Parse tokenizes and binds source and prints the value in the named
// format.
func (s *Server) Parse(source, fmtName string, types bool) (*Result, error) {
	res := &Result{
		Source:  source,
		Format:  fmtName,
		Types:   types,
		Parsed:  true,
		Formats: Formats,
		Errors:  []string{},
	}

	stream, errs := lex.Tokenize(source)
	v, bindErrs := bind.Bind(anyType, stream, s.bind...)
	errs = append(errs, bindErrs...)
	errs.Sort()
	for _, e := range errs {
		res.Errors = append(res.Errors, e.Error())
	}
	res.Tokens = tokenRows(stream)

	opts := append([]format.Option{format.Pretty()}, s.format...)
	if types {
		opts = append(opts, format.TypeTags())
	}
	var enc format.Encoder
	var buf bytes.Buffer
	switch fmtName {
	case "json":
		enc = format.NewJSONEncoder(&buf, opts...)
	case "yaml":
		enc = format.NewYAMLEncoder(&buf, opts...)
	default:
		enc = format.NewNotationEncoder(&buf, opts...)
	}
	if err := enc.Encode(v.Interface()); err != nil {
		return nil, fmt.Errorf("encode %s: %w", fmtName, err)
	}
	res.Output = buf.String()
	return res, nil
}

func tokenRows(s *lex.Stream) []TokenRow {
	rows := make([]TokenRow, 0, len(s.Tokens))
	depth := 0
	for i, t := range s.Tokens {
		if t.Kind == lex.KindClose {
			depth--
		}
		line, col := s.Lines.Position(t.Offset)
		row := TokenRow{
			At:    fmt.Sprintf("%d:%d", line, col),
			Kind:  t.Kind.String(),
			Text:  s.Raw(i),
			Depth: max(depth, 0),
		}
		switch {
		case t.Region != nil:
			row.Context = t.Region.Context.Name
		case t.Delim != nil:
			row.Context = t.Delim.Description
		}
		if t.Kind == lex.KindSubstitution {
			row.Value = fmt.Sprintf("%#v", t.Value)
		}
		rows = append(rows, row)
		if t.Kind == lex.KindOpen {
			depth++
		}
	}
	return rows
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}

func (o *overlayFSType) ReadDir(name string) ([]fs.DirEntry, error) {
	entries := make(map[string]fs.DirEntry)

	if rd, ok := o.secondary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	if rd, ok := o.primary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	result := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	return result, nil
}
