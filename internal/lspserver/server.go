// Package lspserver exposes the analyzer as a language server speaking
// JSON-RPC 2.0 with LSP framing.
package lspserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/sourcegraph/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/phobologic/sectionfold/internal/analyzer"
	"github.com/phobologic/sectionfold/internal/buffer"
	"github.com/phobologic/sectionfold/internal/config"
)

// MethodDecorations is the custom request returning decoration data.
const MethodDecorations = "sectionfold/decorations"

// settingsKey names the client settings section read on configuration change.
const settingsKey = "sectionfold"

// ErrExitWithoutShutdown is returned by Serve when the client sends exit
// before shutdown.
var ErrExitWithoutShutdown = errors.New("exit received before shutdown")

// DecorationsParams is the payload of MethodDecorations.
type DecorationsParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
	// Cursor is the active line; nil means no focused cursor.
	Cursor *uint32 `json:"cursor,omitempty"`
}

// DecorationsResult lists what a client draws for a document.
type DecorationsResult struct {
	Titles   []protocol.Range `json:"titles"`
	Dividers []uint32         `json:"dividers"`
	Active   []uint32         `json:"active"`
}

type document struct {
	uri     string
	path    string
	version int32
	text    string
	lines   *buffer.Text
}

func (d *document) snapshot() analyzer.Document {
	return analyzer.Document{URI: d.uri, Path: d.path, Text: d.text}
}

// Server holds open documents and answers requests one at a time.
type Server struct {
	name     string
	version  string
	base     config.Config
	analyzer *analyzer.Analyzer
	docs     map[string]*document
	logger   *log.Logger
	verbose  bool

	shutdown bool
	exited   bool
	done     chan struct{}
}

// Options configures a Server.
type Options struct {
	Name    string
	Version string
	// Config is the base configuration client settings are layered on.
	Config  config.Config
	Logger  *log.Logger
	Verbose bool
}

// New returns a server with no open documents.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	name := opts.Name
	if name == "" {
		name = "sectionfold"
	}
	return &Server{
		name:     name,
		version:  opts.Version,
		base:     opts.Config,
		analyzer: analyzer.New(opts.Config, logger),
		docs:     make(map[string]*document),
		logger:   logger,
		verbose:  opts.Verbose,
	}
}

// Serve runs the protocol over rwc until the client exits, the stream closes
// or ctx is cancelled.
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	s.done = make(chan struct{})
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, jsonrpc2.HandlerWithError(s.handle))
	defer s.analyzer.Shutdown()

	select {
	case <-conn.DisconnectNotify():
	case <-s.done:
		// A blocked read on stdio may never return, so do not wait for it.
		_ = conn.Close()
	case <-ctx.Done():
		_ = conn.Close()
		return ctx.Err()
	}
	if s.exited && !s.shutdown {
		return ErrExitWithoutShutdown
	}
	return nil
}

func (s *Server) handle(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	if s.verbose {
		s.logger.Printf("<- %s", req.Method)
	}
	if s.shutdown && req.Method != "exit" {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidRequest, Message: "server is shut down"}
	}

	switch req.Method {
	case "initialize":
		var params protocol.InitializeParams
		if err := decode(req, &params); err != nil {
			return nil, err
		}
		if opts, ok := params.InitializationOptions.(map[string]interface{}); ok {
			s.applySettings(opts)
		}
		return s.initializeResult(), nil

	case "initialized":
		return nil, nil

	case "shutdown":
		s.shutdown = true
		return nil, nil

	case "exit":
		if !s.exited {
			s.exited = true
			close(s.done)
		}
		return nil, nil

	case "textDocument/didOpen":
		var params protocol.DidOpenTextDocumentParams
		if err := decode(req, &params); err != nil {
			return nil, err
		}
		s.open(params.TextDocument)
		return nil, nil

	case "textDocument/didChange":
		var params protocol.DidChangeTextDocumentParams
		if err := decode(req, &params); err != nil {
			return nil, err
		}
		s.change(params)
		return nil, nil

	case "textDocument/didClose":
		var params protocol.DidCloseTextDocumentParams
		if err := decode(req, &params); err != nil {
			return nil, err
		}
		key := string(params.TextDocument.URI)
		delete(s.docs, key)
		s.analyzer.Close(key)
		return nil, nil

	case "textDocument/didSave":
		return nil, nil

	case "workspace/didChangeConfiguration":
		var params protocol.DidChangeConfigurationParams
		if err := decode(req, &params); err != nil {
			return nil, err
		}
		s.changeConfiguration(params.Settings)
		return nil, nil

	case "textDocument/foldingRange":
		var params protocol.FoldingRangeParams
		if err := decode(req, &params); err != nil {
			return nil, err
		}
		doc, ok := s.docs[string(params.TextDocument.URI)]
		if !ok {
			return nil, nil
		}
		return foldingRanges(s.analyzer.FoldingRanges(doc.snapshot())), nil

	case "textDocument/documentSymbol":
		var params protocol.DocumentSymbolParams
		if err := decode(req, &params); err != nil {
			return nil, err
		}
		doc, ok := s.docs[string(params.TextDocument.URI)]
		if !ok {
			return nil, nil
		}
		return documentSymbols(doc.lines, s.analyzer.Outline(doc.snapshot())), nil

	case MethodDecorations:
		var params DecorationsParams
		if err := decode(req, &params); err != nil {
			return nil, err
		}
		doc, ok := s.docs[string(params.TextDocument.URI)]
		if !ok {
			return nil, nil
		}
		return s.decorations(doc, params.Cursor), nil
	}

	if req.Notif {
		return nil, nil
	}
	return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "method not supported: " + req.Method}
}

func decode(req *jsonrpc2.Request, v interface{}) error {
	if req.Params == nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "missing params"}
	}
	if err := json.Unmarshal(*req.Params, v); err != nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
	}
	return nil
}

func (s *Server) initializeResult() *protocol.InitializeResult {
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			FoldingRangeProvider:   true,
			DocumentSymbolProvider: true,
		},
		ServerInfo: &protocol.ServerInfo{Name: s.name, Version: s.version},
	}
}

func (s *Server) open(item protocol.TextDocumentItem) {
	key := string(item.URI)
	s.docs[key] = &document{
		uri:     key,
		path:    filePath(key),
		version: item.Version,
		text:    item.Text,
		lines:   buffer.New(item.Text),
	}
	s.analyzer.Invalidate(key)
}

func (s *Server) change(params protocol.DidChangeTextDocumentParams) {
	key := string(params.TextDocument.URI)
	doc, ok := s.docs[key]
	if !ok || len(params.ContentChanges) == 0 {
		return
	}
	// Full sync: the last change carries the whole text.
	doc.text = params.ContentChanges[len(params.ContentChanges)-1].Text
	doc.lines = buffer.New(doc.text)
	doc.version = params.TextDocument.Version
	s.analyzer.Invalidate(key)
}

func (s *Server) changeConfiguration(settings interface{}) {
	m, ok := settings.(map[string]interface{})
	if !ok {
		return
	}
	if nested, ok := m[settingsKey].(map[string]interface{}); ok {
		m = nested
	}
	s.applySettings(m)
}

func (s *Server) applySettings(m map[string]interface{}) {
	cfg, err := config.FromSettings(s.base, m)
	if err != nil {
		s.logger.Printf("warning: ignoring client settings: %v", err)
		return
	}
	s.analyzer.Reconfigure(cfg)
}

func (s *Server) decorations(doc *document, cursor *uint32) *DecorationsResult {
	line := -1
	if cursor != nil {
		line = int(*cursor)
	}
	d := s.analyzer.Decorations(doc.snapshot(), line)
	out := &DecorationsResult{
		Titles:   make([]protocol.Range, len(d.Titles)),
		Dividers: lineNumbers(d.Dividers),
		Active:   lineNumbers(d.Active),
	}
	for i, r := range d.Titles {
		out.Titles[i] = toRange(doc.lines, r)
	}
	return out
}

// filePath returns the local path for a file URI, or the URI itself for
// other schemes so exclusion patterns can still match its suffix.
func filePath(u string) string {
	if strings.HasPrefix(u, "file://") {
		return uri.URI(u).Filename()
	}
	return u
}
