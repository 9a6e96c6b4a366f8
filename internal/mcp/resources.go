// ABOUTME: MCP resource implementations for the RPT tracker.
// ABOUTME: Provides rpt://resumable, rpt://settings and rpt://templates.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/rpt/internal/lifecycle"
	"github.com/harperreed/rpt/internal/session"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// rpt://resumable - the workout a client should offer to resume, if any
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "rpt://resumable",
		Name:        "Resumable Workout",
		Description: "The most recent unfinished workout, unless the last session was discarded",
		MIMEType:    "application/json",
	}, s.handleResumableResource)

	// rpt://settings - current preferences
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "rpt://settings",
		Name:        "RPT Settings",
		Description: "Rest timer, drop table, RPE visibility and unit",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)

	// rpt://templates - saved workout templates
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "rpt://templates",
		Name:        "Workout Templates",
		Description: "All workout templates with their rep ranges",
		MIMEType:    "application/json",
	}, s.handleTemplatesResource)
}

// Resource handlers

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleResumableResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.life.State()
	w, err := lifecycle.FindResumable(s.repo, s.life)
	if err != nil {
		return nil, err
	}

	result := map[string]interface{}{
		"was_discarded": state.Discarded,
		"resumable":     nil,
	}
	if w != nil {
		result["resumable"] = session.New(w, s.repo, s.prefs, s.life, s.engineOptions()...).Snapshot()
	}
	return jsonResource("rpt://resumable", result)
}

func (s *Server) handleSettingsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource("rpt://settings", s.prefs.Current())
}

func (s *Server) handleTemplatesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	templates, err := s.repo.ListTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return jsonResource("rpt://templates", map[string]interface{}{
		"templates": templates,
		"count":     len(templates),
	})
}
