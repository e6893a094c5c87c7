package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// MCPServer wraps the MCP server and application dependencies
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
	logger    zerolog.Logger
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(app *App, version string, logger zerolog.Logger) *MCPServer {
	mcpServer := server.NewMCPServer(
		"ytrag-server",
		version,
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
		logger:    logger,
	}

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools
func (s *MCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("locate_videos",
		mcp.WithDescription("Find YouTube videos by search query, channel ID, creator name or video ID. Returns the video descriptors as JSON without fetching transcripts. Exactly one of query, channel_id, creator or video_id must be given."),
		mcp.WithString("query", mcp.Description("Free-text search; only videos with closed captions are returned")),
		mcp.WithString("channel_id", mcp.Description("Channel ID; most recent videos first")),
		mcp.WithString("creator", mcp.Description("Creator name, searched like a query")),
		mcp.WithString("video_id", mcp.Description("Single video ID or URL")),
		mcp.WithNumber("max_videos", mcp.Description("Maximum number of videos (default from config)")),
	), s.handleLocate)

	s.mcpServer.AddTool(mcp.NewTool("get_transcript",
		mcp.WithDescription("Get the closed-caption transcript of one YouTube video as plain text. Fails if captions are disabled or no transcript exists."),
		mcp.WithString("video_id",
			mcp.Description("YouTube video ID or URL"),
			mcp.Required(),
		),
	), s.handleGetTranscript)

	s.mcpServer.AddTool(mcp.NewTool("fetch_transcripts",
		mcp.WithDescription("Locate videos and save each available transcript as a Markdown document plus a _metadata.json manifest in the output directory. Exactly one of query, channel_id, creator or video_id must be given. Returns the saved/located tally and the written paths."),
		mcp.WithString("query", mcp.Description("Free-text search; only videos with closed captions are returned")),
		mcp.WithString("channel_id", mcp.Description("Channel ID; most recent videos first")),
		mcp.WithString("creator", mcp.Description("Creator name, searched like a query")),
		mcp.WithString("video_id", mcp.Description("Single video ID or URL")),
		mcp.WithNumber("max_videos", mcp.Description("Maximum number of videos (default from config)")),
		mcp.WithString("output_dir", mcp.Description("Output directory (default from config)")),
	), s.handleFetch)
}

// selectorFromRequest reads the selector arguments shared by locate and fetch
func selectorFromRequest(request mcp.CallToolRequest) (Selector, error) {
	return ParseSelector(SelectorInput{
		Search:  request.GetString("query", ""),
		Channel: request.GetString("channel_id", ""),
		Creator: request.GetString("creator", ""),
		Video:   request.GetString("video_id", ""),
	})
}

func (s *MCPServer) maxVideos(request mcp.CallToolRequest) int {
	if n := request.GetInt("max_videos", 0); n > 0 {
		return n
	}
	return s.app.config.MaxVideos
}

// handleLocate implements the locate_videos tool
func (s *MCPServer) handleLocate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel, err := selectorFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.logger.Info().Str("tool", "locate_videos").Str("selector", sel.String()).Msg("tool called")

	videos, err := s.app.Locate(ctx, sel, s.maxVideos(request))
	if err != nil {
		s.logger.Error().Err(err).Msg("locate failed")
		return mcp.NewToolResultErrorFromErr("locating videos failed", err), nil
	}
	if videos == nil {
		videos = []VideoDescriptor{}
	}

	data, err := json.MarshalIndent(videos, "", "  ")
	if err != nil {
		return mcp.NewToolResultErrorFromErr("encoding videos", err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleGetTranscript implements the get_transcript tool
func (s *MCPServer) handleGetTranscript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arg, err := request.RequireString("video_id")
	if err != nil {
		return mcp.NewToolResultError("video_id parameter is required and must be a string"), nil
	}
	videoID := ExtractVideoID(arg)

	s.logger.Info().Str("tool", "get_transcript").Str("video_id", videoID).Msg("tool called")

	transcript, err := s.app.GetTranscript(ctx, videoID)
	if err != nil {
		s.logger.Info().Err(err).Str("video_id", videoID).Msg("no transcript")
		return mcp.NewToolResultErrorFromErr("no transcript available", err), nil
	}
	return mcp.NewToolResultText(transcript), nil
}

// handleFetch implements the fetch_transcripts tool
func (s *MCPServer) handleFetch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel, err := selectorFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	outputDir := request.GetString("output_dir", s.app.config.OutputDir)

	s.logger.Info().Str("tool", "fetch_transcripts").Str("selector", sel.String()).Str("output_dir", outputDir).Msg("tool called")

	report, err := s.app.Run(ctx, sel, s.maxVideos(request), outputDir)
	if err != nil {
		s.logger.Error().Err(err).Msg("fetch failed")
		return mcp.NewToolResultErrorFromErr("fetching transcripts failed", err), nil
	}

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("Saved %s transcripts to %s\n", report.Tally(), report.OutputDir))
	buf.WriteString(fmt.Sprintf("Manifest: %s\n", report.ManifestPath))
	for _, video := range report.Videos {
		status := "skipped"
		if video.HasTranscript {
			status = "saved"
		}
		buf.WriteString(fmt.Sprintf("- [%s] %s (%s)\n", status, video.Title, video.URL))
	}

	return mcp.NewToolResultText(buf.String()), nil
}

// Start starts the MCP server using the specified transport
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Info().Str("addr", addr).Msg("serving MCP over HTTP")
		return httpServer.Start(addr)
	}

	s.logger.Info().Msg("serving MCP over stdio")
	return server.ServeStdio(s.mcpServer)
}

// GetServer returns the underlying MCP server for advanced configuration
func (s *MCPServer) GetServer() *server.MCPServer {
	return s.mcpServer
}
