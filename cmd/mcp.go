package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/rtzll/ytrag/internal"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server exposing the transcript fetcher",
	Long: `Run a Model Context Protocol (MCP) server that exposes ytrag as tools.

The MCP server provides three tools:
- locate_videos: Find videos by query, channel, creator or video ID
- get_transcript: Return the transcript of one video as plain text
- fetch_transcripts: Save documents and the _metadata.json manifest to disk

Transport options:
- stdio (default): Standard MCP transport via stdin/stdout
- http: HTTP transport on specified port (use --port to configure)

Logs go to mcp.log in the cache directory when mcp_log_enabled is set.`,
	Example: `  # Run MCP server with stdio transport (e.g. for Claude Desktop)
  ytrag mcp

  # Run MCP server with HTTP transport on port 8080
  ytrag mcp --transport=http --port=8080

  # Set up Claude Desktop integration
  ytrag mcp setup-claude`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol
		config.Verbose = false
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		logger, closeLog := internal.MCPLogger(config)
		defer func() { _ = closeLog() }()

		app, err := internal.NewApp(config,
			internal.WithUI(internal.NewUIManagerWithWriter(io.Discard, false, true)),
			internal.WithLogger(logger),
		)
		if err != nil {
			return err
		}

		mcpServer := internal.NewMCPServer(app, version, internal.WithComponent(logger, "mcp"))

		// Start the server (this will block until context is cancelled)
		return mcpServer.Start(cmd.Context(), transport, port)
	},
}

// setupClaudeCmd represents the setup-claude subcommand
var setupClaudeCmd = &cobra.Command{
	Use:   "setup-claude",
	Short: "Configure Claude Desktop to use the ytrag MCP server",
	Long: `Configure Claude Desktop to use ytrag as an MCP server.

This command will:
- Locate the Claude Desktop config for this platform
- Add the ytrag server entry to claude_desktop_config.json
- Keep existing MCP server entries untouched
- Pass the XDG base directories so the server finds its config`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := getClaudeDesktopConfigPath()
		if err != nil {
			return fmt.Errorf("getting Claude Desktop config path: %w", err)
		}
		execPath, err := os.Executable()
		if err != nil {
			return fmt.Errorf("getting executable path: %w", err)
		}
		if execPath, err = filepath.EvalSymlinks(execPath); err != nil {
			return fmt.Errorf("resolving executable path: %w", err)
		}

		if err := setupClaudeDesktop(configPath, execPath); err != nil {
			return err
		}

		fmt.Println("Successfully configured Claude Desktop MCP server")
		fmt.Println("Restart Claude Desktop to use the ytrag MCP server")
		return nil
	},
}

// ClaudeDesktopConfig represents the claude_desktop_config.json structure.
// Unknown top-level keys are kept in Extra and written back.
type ClaudeDesktopConfig struct {
	MCPServers map[string]MCPServerConfig `json:"mcpServers"`
	Extra      map[string]json.RawMessage `json:"-"`
}

// MCPServerConfig represents an individual MCP server configuration
type MCPServerConfig struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env,omitempty"`
}

func (c *ClaudeDesktopConfig) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if servers, ok := raw["mcpServers"]; ok {
		if err := json.Unmarshal(servers, &c.MCPServers); err != nil {
			return err
		}
		delete(raw, "mcpServers")
	}
	c.Extra = raw
	return nil
}

func (c ClaudeDesktopConfig) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Extra)+1)
	for k, v := range c.Extra {
		out[k] = v
	}
	out["mcpServers"] = c.MCPServers
	return json.Marshal(out)
}

// setupClaudeDesktop adds or updates the ytrag entry in the Claude Desktop config
func setupClaudeDesktop(configPath, execPath string) error {
	// Check if config file exists - abort if it doesn't
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config for Claude Desktop not found at %s", configPath)
	}

	var desktopConfig ClaudeDesktopConfig
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading existing config: %w", err)
	}

	if err := json.Unmarshal(data, &desktopConfig); err != nil {
		return fmt.Errorf("parsing existing config: %w", err)
	}

	if desktopConfig.MCPServers == nil {
		desktopConfig.MCPServers = make(map[string]MCPServerConfig)
	}

	desktopConfig.MCPServers[internal.AppName] = MCPServerConfig{
		Command: execPath,
		Args:    []string{"mcp"},
		Env: map[string]string{
			"XDG_DATA_HOME":   xdg.DataHome,
			"XDG_CONFIG_HOME": xdg.ConfigHome,
			"XDG_CACHE_HOME":  xdg.CacheHome,
		},
	}

	data, err = json.MarshalIndent(desktopConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// getClaudeDesktopConfigPath returns the platform-specific config path for Claude Desktop
func getClaudeDesktopConfigPath() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, "Library", "Application Support", "Claude", "claude_desktop_config.json"), nil

	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		return filepath.Join(appData, "Claude", "claude_desktop_config.json"), nil

	case "linux":
		return filepath.Join(xdg.ConfigHome, "Claude", "claude_desktop_config.json"), nil

	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

func init() {
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol (stdio or http)")
	mcpCmd.Flags().Int("port", 8080, "Port for HTTP transport (only used with --transport=http)")
	mcpCmd.AddCommand(setupClaudeCmd)
	rootCmd.AddCommand(mcpCmd)
}
