package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/rapidfire"
	"github.com/aretw0/rapidfire/internal/logging"
	"github.com/aretw0/rapidfire/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ProjectURI names the project resource.
const ProjectURI = "rapidfire://project"

// Core defines the operations the MCP server exposes as tools.
type Core interface {
	GetProject(ctx context.Context) (domain.Project, error)
	PatchSoundVolume(ctx context.Context, patch domain.PatchSoundVolume) (domain.PatchResult, error)
	PatchSoundLooped(ctx context.Context, patch domain.PatchSoundLooped) (domain.PatchResult, error)
	GetVolumeWarning(ctx context.Context) domain.VolumeWarning
}

// Server wraps the core and exposes it as an MCP Server.
type Server struct {
	core      Core
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger. It must not write to stdout when serving over stdio.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(core Core, opts ...Option) *Server {
	s := &Server{
		core:      core,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("rapidfire-mcp", strings.TrimSpace(rapidfire.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "mcp")
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	// TOOL: get_project
	s.mcpServer.AddTool(mcp.NewTool("get_project",
		mcp.WithDescription("Get the full sound project: scenes and their sound instances."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := s.core.GetProject(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("get project failed: %v", err)), nil
		}
		return jsonResult(project)
	})

	// TOOL: patch_sound_volume
	volumeTool := mcp.NewTool("patch_sound_volume",
		mcp.WithDescription("Set the volume (0-100) of one sound. Unknown ids leave the project unchanged and report matched=false."),
		mcp.WithString("scene_id", mcp.Required(), mcp.Description("Scene ID")),
		mcp.WithString("sound_id", mcp.Required(), mcp.Description("Sound ID within the scene")),
		mcp.WithNumber("volume", mcp.Required(), mcp.Min(domain.MinVolume), mcp.Max(domain.MaxVolume), mcp.Description("New volume")),
		mcp.WithOutputSchema[domain.PatchResult](),
	)
	s.mcpServer.AddTool(volumeTool, mcp.NewStructuredToolHandler(s.handlePatchVolume))

	// TOOL: patch_sound_looped
	loopedTool := mcp.NewTool("patch_sound_looped",
		mcp.WithDescription("Set whether one sound loops. Unknown ids leave the project unchanged and report matched=false."),
		mcp.WithString("scene_id", mcp.Required(), mcp.Description("Scene ID")),
		mcp.WithString("sound_id", mcp.Required(), mcp.Description("Sound ID within the scene")),
		mcp.WithBoolean("looped", mcp.Required(), mcp.Description("Loop flag")),
		mcp.WithOutputSchema[domain.PatchResult](),
	)
	s.mcpServer.AddTool(loopedTool, mcp.NewStructuredToolHandler(s.handlePatchLooped))

	// TOOL: get_volume_warning
	s.mcpServer.AddTool(mcp.NewTool("get_volume_warning",
		mcp.WithDescription("Report whether the host output volume is at maximum. Unknown volume reports is_full=true."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(s.core.GetVolumeWarning(ctx))
	})
}

func (s *Server) handlePatchVolume(ctx context.Context, request mcp.CallToolRequest, args domain.PatchSoundVolume) (domain.PatchResult, error) {
	res, err := s.core.PatchSoundVolume(ctx, args)
	if err != nil {
		s.logger.Warn("MCP patch_sound_volume failed", "err", err, "scene_id", args.SceneID, "sound_id", args.SoundID)
		return domain.PatchResult{}, fmt.Errorf("patch failed: %w", err)
	}
	return res, nil
}

func (s *Server) handlePatchLooped(ctx context.Context, request mcp.CallToolRequest, args domain.PatchSoundLooped) (domain.PatchResult, error) {
	res, err := s.core.PatchSoundLooped(ctx, args)
	if err != nil {
		s.logger.Warn("MCP patch_sound_looped failed", "err", err, "scene_id", args.SceneID, "sound_id", args.SoundID)
		return domain.PatchResult{}, fmt.Errorf("patch failed: %w", err)
	}
	return res, nil
}

func (s *Server) registerResources() {
	// EXPOSE: rapidfire://project
	s.mcpServer.AddResource(mcp.NewResource(ProjectURI, "Current Sound Project",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		project, err := s.core.GetProject(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read project: %w", err)
		}
		jsonBytes, _ := json.Marshal(project)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      ProjectURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
