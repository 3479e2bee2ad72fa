package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	streamsURI = "streammap://streams"
	mapURI     = "streammap://map.geojson"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerStreamsResource(srv, svc)
	registerMapResource(srv, svc)
}

func registerStreamsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		streamsURI,
		"Streams",
		mcp.WithResourceDescription("Every cataloged stream, newest first."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		streams, err := svc.ListStreams(ctx, ListOptions{})
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(map[string]any{
			"count":   len(streams),
			"streams": streams,
		})
		if err != nil {
			return nil, err
		}
		return textContents(request.Params.URI, "application/json", data), nil
	})
}

func registerMapResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		mapURI,
		"Stream map",
		mcp.WithResourceDescription("Map markers of the streams that have coordinates, as GeoJSON."),
		mcp.WithMIMEType("application/geo+json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := svc.MapGeoJSON()
		if err != nil {
			return nil, err
		}
		return textContents(request.Params.URI, "application/geo+json", data), nil
	})
}

func textContents(uri, mime string, data []byte) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: mime,
			Text:     string(data),
		},
	}
}
