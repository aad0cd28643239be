package tools

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerInfo names the server in the initialize handshake.
type ServerInfo struct {
	Name    string
	Version string
}

// Server is an MCP server with every tool of a [Dispatcher] registered.
type Server struct {
	dispatcher *Dispatcher
	mcp        *mcp.Server
	logger     *log.Logger
}

// NewServer builds an MCP server over d.
func NewServer(d *Dispatcher, info ServerInfo, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := mcp.NewServer(&mcp.Implementation{Name: info.Name, Version: info.Version}, nil)
	d.Register(s)
	return &Server{dispatcher: d, mcp: s, logger: logger}
}

// Dispatcher returns the tool set behind s.
func (s *Server) Dispatcher() *Dispatcher { return s.dispatcher }

// MCP returns the underlying protocol server.
func (s *Server) MCP() *mcp.Server { return s.mcp }

// ServeStdio runs one session over newline-delimited JSON-RPC until in is exhausted or ctx ends.
// Nothing but protocol traffic may be written to out.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("serving over stdio")

	transport := &mcp.IOTransport{Reader: io.NopCloser(in), Writer: nopWriteCloser{out}}
	err := s.mcp.Run(ctx, transport)
	if errors.Is(err, io.EOF) || errors.Is(err, mcp.ErrConnectionClosed) {
		return nil
	}
	return err
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
