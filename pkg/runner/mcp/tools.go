package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/streammap/pkg/controller"
	"tableflip.dev/streammap/pkg/entry"
	"tableflip.dev/streammap/pkg/view"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListStreamsTool(srv, svc)
	registerAddStreamTool(srv, svc)
}

func sortKeys() []string {
	return append(append([]string{}, entry.Fields...), view.KeyCreated)
}

func registerListStreamsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_streams",
		mcp.WithDescription("List cataloged streams, optionally filtered by text and sorted by a column."),
		mcp.WithString("query",
			mcp.Description("Case-insensitive text that must appear in one of the stream's fields."),
		),
		mcp.WithString("sort",
			mcp.Description("Column to sort by (default dateTime, newest first)."),
			mcp.Enum(sortKeys()...),
		),
		mcp.WithBoolean("ascending",
			mcp.Description("Sort ascending instead of descending."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of streams to return."),
			mcp.Min(1),
			mcp.Max(500),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Query     string `json:"query"`
			Sort      string `json:"sort"`
			Ascending bool   `json:"ascending"`
			Limit     int    `json:"limit"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		streams, err := svc.ListStreams(ctx, ListOptions{
			Sort:      args.Sort,
			Ascending: args.Ascending,
			Query:     args.Query,
			Limit:     args.Limit,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"count":   len(streams),
			"streams": streams,
		})
	})
}

func registerAddStreamTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"add_stream",
		mcp.WithDescription("Add a stream. The city and state are geocoded before saving, or the device location is used when here is true."),
		mcp.WithString("link",
			mcp.Required(),
			mcp.Description("Link to the stream."),
		),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("Short description of the event."),
		),
		mcp.WithString("city",
			mcp.Description("City the event took place in."),
		),
		mcp.WithString("state",
			mcp.Description("State the event took place in."),
		),
		mcp.WithBoolean("here",
			mcp.Description("Use the device location instead of city and state."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var form controller.Form
		if err := request.BindArguments(&form); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		res, err := svc.AddStream(ctx, form)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !res.Added {
			return mcp.NewToolResultError(res.Message), nil
		}
		return toJSONResult(res)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
