package options

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// MCPOptions
type MCPOptions struct {
	Transport string
	HTTPHost  string
	HTTPPort  int
	HTTPPath  string
}

func AddMCPArgs(cmd *cobra.Command, o *MCPOptions) {
	cmd.Flags().StringVar(&o.Transport, "transport", "stdio",
		"Transport to use: stdio or http.")
	cmd.Flags().StringVar(&o.HTTPHost, "http-host", "127.0.0.1",
		"Host/interface for the HTTP transport.")
	cmd.Flags().IntVar(&o.HTTPPort, "http-port", 8081,
		"Port for the HTTP transport (use 0 for random).")
	cmd.Flags().StringVar(&o.HTTPPath, "http-path", "/mcp",
		"HTTP endpoint path.")
}

// Path returns the endpoint path with a leading slash.
func (o *MCPOptions) Path() string {
	path := strings.TrimSpace(o.HTTPPath)
	if path == "" {
		path = "/mcp"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// ListenAddr joins host and port, checking the port range.
func (o *MCPOptions) ListenAddr() (string, error) {
	if o.HTTPPort < 0 || o.HTTPPort > 65535 {
		return "", fmt.Errorf("invalid http-port %d", o.HTTPPort)
	}
	host := strings.TrimSpace(o.HTTPHost)
	if host == "" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, strconv.Itoa(o.HTTPPort)), nil
}
