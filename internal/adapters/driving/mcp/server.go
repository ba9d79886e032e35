package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/localfinder/localfinder-cli/internal/logger"
)

// DefaultVersion is reported when the build sets no version.
const DefaultVersion = "dev"

// instructions tells agents how the tools fit together.
const instructions = `Find local service providers (plumbers, tutors, electricians and so on).
Use category_counts to see which categories have providers, search_providers with a query,
a category or a coordinate to list them, and get_provider for contact details and price.
rate_provider needs a logged-in user session; ask the user before rating.`

// Server is the MCP server for localfinder.
type Server struct {
	ports   *Ports
	server  *mcp.Server
	version string

	// detailMu serialises use of the detail service, which holds one open provider.
	detailMu sync.Mutex
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if ports == nil {
		ports = &Ports{}
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	version := ports.Version
	if version == "" {
		version = DefaultVersion
	}
	impl := &mcp.Implementation{Name: "localfinder", Version: version}

	s := &Server{
		ports:   ports,
		server:  mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
		version: version,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		if err := httpServer.Shutdown(context.Background()); err != nil {
			logger.Warn("mcp http shutdown: %v", err)
		}
	}()

	logger.Info("mcp server listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
