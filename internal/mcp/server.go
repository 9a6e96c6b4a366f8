// ABOUTME: MCP server setup for the RPT workout tracker.
// ABOUTME: Wraps the MCP server with storage, settings, lifecycle and session view state.
package mcp

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/harperreed/rpt/internal/lifecycle"
	"github.com/harperreed/rpt/internal/logging"
	"github.com/harperreed/rpt/internal/session"
	"github.com/harperreed/rpt/internal/settings"
	"github.com/harperreed/rpt/internal/storage"
	"github.com/harperreed/rpt/internal/uistate"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	prefs     *settings.Store
	life      *lifecycle.Coordinator
	ui        *uistate.Store
	logger    *log.Logger

	// mu serializes tool calls: a session has a single writer.
	mu sync.Mutex
}

// NewServer creates a new MCP server with the given storage.
// The view state store is shared with the CLI so completed and expanded
// exercises carry across both surfaces.
func NewServer(repo storage.Repository, prefs *settings.Store, life *lifecycle.Coordinator, ui *uistate.Store, logger *log.Logger) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "rpt",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		prefs:     prefs,
		life:      life,
		ui:        ui,
		logger:    logging.OrDiscard(logger),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("mcp server listening on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) engineOptions() []session.Option {
	return []session.Option{session.WithLogger(s.logger)}
}

// saveView stores the engine's completed and expanded exercises.
func (s *Server) saveView(e *session.Engine) {
	st := uistate.State{Completed: e.CompletedExercises(), Expanded: e.ExpandedExercises()}
	if err := s.ui.Save(e.Workout().ID, st); err != nil {
		s.logger.Warn("could not save session view state", "err", err)
	}
}

// clearView drops view state for a session that is finished or gone.
func (s *Server) clearView(e *session.Engine) {
	if err := s.ui.Clear(e.Workout().ID); err != nil {
		s.logger.Warn("could not clear session view state", "err", err)
	}
}
