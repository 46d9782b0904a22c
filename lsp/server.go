// Package lsp serves notation documents over the Language Server
// Protocol: diagnostics, formatting and document symbols.
package lsp

import (
	"unicode/utf8"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/notation/bind"
	"github.com/dhamidi/notation/format"
)

const lsName = "notation"

type Server struct {
	workspace *Workspace
	handler   protocol.Handler
	server    *server.Server
	version   string
	format    []format.Option
	log       commonlog.Logger
}

// NewServer returns a server binding documents with bindOpts and
// formatting them with formatOpts.
func NewServer(version string, bindOpts []bind.Option, formatOpts []format.Option) *Server {
	ls := &Server{
		workspace: NewWorkspace(bindOpts...),
		version:   version,
		format:    formatOpts,
		log:       commonlog.GetLogger("notation.lsp"),
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentFormatting:     ls.textDocumentFormatting,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

// Workspace returns the documents the server has open.
func (ls *Server) Workspace() *Workspace {
	return ls.workspace
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.log.Infof("initialized %s %s", lsName, ls.version)
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := ls.workspace.Update(params.TextDocument.URI, params.TextDocument.Text)
	ls.publish(ctx, doc.URI, doc.Diagnostics())
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		ls.log.Warningf("ignoring incremental change to %s", params.TextDocument.URI)
		return nil
	}
	doc := ls.workspace.Update(params.TextDocument.URI, textChange.Text)
	ls.publish(ctx, doc.URI, doc.Diagnostics())
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.workspace.Remove(params.TextDocument.URI)
	ls.publish(ctx, params.TextDocument.URI, []protocol.Diagnostic{})
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI
	var doc *Document
	if params.Text != nil {
		doc = ls.workspace.Update(uri, *params.Text)
	} else {
		var err error
		if doc, err = ls.workspace.Load(uri); err != nil {
			ls.log.Errorf("reload %s: %s", uri, err)
			return nil
		}
	}
	ls.publish(ctx, doc.URI, doc.Diagnostics())
	return nil
}

func (ls *Server) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	doc := ls.workspace.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return doc.Format(ls.format...), nil
}

func (ls *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := ls.workspace.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return doc.Symbols(), nil
}

func (ls *Server) publish(ctx *glsp.Context, uri string, diagnostics []protocol.Diagnostic) {
	ls.log.Debugf("%s: %d diagnostics", uri, len(diagnostics))
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// Diagnostics converts the errors of the document. Each covers the
// character the error points at.
func (doc *Document) Diagnostics() []protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lsName
	out := make([]protocol.Diagnostic, 0, len(doc.Errors))
	for _, e := range doc.Errors {
		end := e.Offset
		if end < len(doc.Text) {
			_, size := utf8.DecodeRuneInString(doc.Text[end:])
			end += size
		}
		out = append(out, protocol.Diagnostic{
			Range:    span(doc.Text, e.Offset, end),
			Severity: &severity,
			Source:   &source,
			Message:  e.Message,
		})
	}
	return out
}

// Format returns the edit replacing the document with its printed value.
// Documents with errors or comments are left alone, as printing would
// drop the broken parts and the comments.
func (doc *Document) Format(opts ...format.Option) []protocol.TextEdit {
	if len(doc.Errors) > 0 || doc.HasComments() {
		return nil
	}
	text := format.Stringify(doc.Value, opts...) + "\n"
	if text == doc.Text {
		return []protocol.TextEdit{}
	}
	return []protocol.TextEdit{{
		Range:   span(doc.Text, 0, len(doc.Text)),
		NewText: text,
	}}
}

// HasComments reports whether the document contains a comment region.
func (doc *Document) HasComments() bool {
	for _, tok := range doc.Stream.Tokens {
		if tok.Region != nil && tok.Region.IsComment() {
			return true
		}
	}
	return false
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
