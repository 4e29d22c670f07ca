package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for discovery resources.
	uriScheme = "discovery://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "datasets/{datasetId}/preview",
		Name:        "dataset-preview",
		Description: "Sample rows and download link of a dataset",
		MIMEType:    "application/json",
	}, s.handlePreviewResource)
}

// previewInfo is the JSON body of a dataset preview resource.
type previewInfo struct {
	DatasetID string           `json:"dataset_id"`
	Columns   []string         `json:"columns"`
	Rows      []map[string]any `json:"rows"`
	Download  string           `json:"download"`
}

// handlePreviewResource returns the preview of a dataset.
func (s *Server) handlePreviewResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	datasetID := extractDatasetID(req.Params.URI)
	if datasetID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	preview, err := s.ports.Datasets.RetrievePreview(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("retrieving preview: %w", err)
	}

	data, err := json.MarshalIndent(previewInfo{
		DatasetID: datasetID,
		Columns:   preview.Columns,
		Rows:      preview.Rows,
		Download:  s.ports.Datasets.DownloadURL(datasetID),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling preview: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDatasetID extracts the dataset ID from a URI like
// discovery://datasets/{datasetId}/preview.
func extractDatasetID(uri string) string {
	const prefix = uriScheme + "datasets/"
	const suffix = "/preview"

	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return ""
	}

	id := strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
	if id == "" || strings.Contains(id, "/") {
		return ""
	}
	unescaped, err := url.PathUnescape(id)
	if err != nil {
		return ""
	}
	return unescaped
}
