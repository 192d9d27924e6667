package tools

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/athapong/plasticity-go/pkg/graph"
	"github.com/athapong/plasticity-go/pkg/graph/processors"
	"github.com/athapong/plasticity-go/services"
	"github.com/athapong/plasticity-go/util"
)

// maxFetchBytes caps how much of a page is read.
const maxFetchBytes = 10 << 20

func RegisterFetchTool(s *server.MCPServer) {
	tool := mcp.NewTool("get_web_knowledge_graph",
		mcp.WithDescription("Fetches an HTTP/HTTPS URL (HTML, PDF or plain text), analyses its text with Sapien Core and returns the entities and relationships found as a knowledge graph in JSON."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The complete HTTP/HTTPS URL to fetch content from (e.g., https://example.com)"),
		),
	)

	s.AddTool(tool, util.ErrorGuard(util.AdaptArgumentsHandler(fetchHandler)))
}

func fetchHandler(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	url, ok := stringArg(arguments, "url")
	if !ok {
		return mcp.NewToolResultError("url must be a string"), nil
	}

	doc, err := fetchDocument(ctx, services.DefaultHttpClient(), url)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	pipeline := graph.NewPipeline(nil)
	pipeline.AddProcessor(processors.NewHTMLProcessor())
	pipeline.AddProcessor(processors.NewPDFProcessor())
	pipeline.AddProcessor(processors.NewSapienProcessor(services.DefaultSapienService().Core, true, nil))

	if err := pipeline.Process(ctx, doc); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to analyse %s: %v", url, err)), nil
	}

	generator := graph.NewKnowledgeGraphGenerator()
	if err := generator.AddDocument(doc); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(generator.Generate())
}

func fetchDocument(ctx context.Context, client *http.Client, url string) (*graph.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %s", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %s", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %s", err)
	}

	contentType := graph.ContentTypeHTML
	if mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil {
		switch mediaType {
		case graph.ContentTypePDF, graph.ContentTypeText:
			contentType = mediaType
		}
	}

	return &graph.Document{
		ID:          uuid.New().String(),
		Content:     string(body),
		ContentType: contentType,
		Metadata:    map[string]interface{}{"url": url},
	}, nil
}
