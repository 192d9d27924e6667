package tools

import (
	"context"
	"fmt"
	"os"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/athapong/plasticity-go/util"
)

// ToolGroup is a name accepted in ENABLE_TOOLS.
type ToolGroup struct {
	Name        string
	Description string
	Register    func(*server.MCPServer)
}

// ToolGroups lists every tool group the server can expose.
var ToolGroups = []ToolGroup{
	{"sapien_core", "Text analysis: tokens, parts of speech, lemmas, dependencies, relation graph, named entities, NER replacement", RegisterSapienCoreTool},
	{"sapien_names", "Name classification", RegisterSapienNamesTool},
	{"sapien_transform", "Word inflection", RegisterSapienTransformTool},
	{"cortex_category", "Person / Place / Thing categorisation", RegisterCortexCategoryTool},
	{"coref", "Pronoun resolution across a conversation", RegisterCorefTools},
	{"fetch", "Knowledge graph extraction from web pages", RegisterFetchTool},
}

// EnabledTools parses a comma separated ENABLE_TOOLS value. An empty value
// enables everything and yields a nil set.
func EnabledTools(value string) mapset.Set[string] {
	enabled := mapset.NewSet[string]()
	for _, name := range strings.Split(value, ",") {
		if name = strings.TrimSpace(name); name != "" {
			enabled.Add(name)
		}
	}
	if enabled.Cardinality() == 0 {
		return nil
	}
	return enabled
}

func isEnabled(enabled mapset.Set[string], name string) bool {
	return enabled == nil || enabled.Contains(name)
}

// RegisterEnabledTools registers every group enabled by ENABLE_TOOLS and
// returns their names.
func RegisterEnabledTools(s *server.MCPServer) []string {
	enabled := EnabledTools(os.Getenv("ENABLE_TOOLS"))

	var registered []string
	for _, group := range ToolGroups {
		if isEnabled(enabled, group.Name) {
			group.Register(s)
			registered = append(registered, group.Name)
		}
	}
	return registered
}

func RegisterToolManagerTool(s *server.MCPServer) {
	tool := mcp.NewTool("tool_manager",
		mcp.WithDescription("Manage MCP tools - list them, or enable or disable a tool group for the next server start"),
		mcp.WithString("action", mcp.Required(), mcp.Description("Action to perform: list, enable, disable")),
		mcp.WithString("tool_name", mcp.Description("Tool name to enable/disable")),
	)

	s.AddTool(tool, util.ErrorGuard(util.AdaptArgumentsHandler(toolManagerHandler)))
}

func toolManagerHandler(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	action, ok := stringArg(arguments, "action")
	if !ok {
		return mcp.NewToolResultError("action must be a string"), nil
	}

	enabled := EnabledTools(os.Getenv("ENABLE_TOOLS"))

	switch action {
	case "list":
		var response strings.Builder
		response.WriteString("Available tools:\n")
		for _, t := range ToolGroups {
			status := "disabled"
			if isEnabled(enabled, t.Name) {
				status = "enabled"
			}
			fmt.Fprintf(&response, "- %s (%s) [%s]\n", t.Name, t.Description, status)
		}
		if enabled == nil {
			response.WriteString("\nAll tools are enabled (ENABLE_TOOLS is empty)\n")
		}
		return mcp.NewToolResultText(response.String()), nil

	case "enable", "disable":
		toolName, ok := stringArg(arguments, "tool_name")
		if !ok {
			return mcp.NewToolResultError("tool_name is required for enable/disable actions"), nil
		}
		if !knownTool(toolName) {
			return mcp.NewToolResultError(fmt.Sprintf("unknown tool: %s", toolName)), nil
		}

		if enabled == nil {
			enabled = mapset.NewSet[string]()
			for _, t := range ToolGroups {
				enabled.Add(t.Name)
			}
		}
		if action == "enable" {
			enabled.Add(toolName)
		} else {
			enabled.Remove(toolName)
		}

		names := make([]string, 0, enabled.Cardinality())
		for _, t := range ToolGroups {
			if enabled.Contains(t.Name) {
				names = append(names, t.Name)
			}
		}
		if len(names) == 0 {
			// an empty value would enable everything
			names = append(names, "none")
		}
		os.Setenv("ENABLE_TOOLS", strings.Join(names, ","))

		return mcp.NewToolResultText(fmt.Sprintf("Successfully %sd tool: %s", action, toolName)), nil

	default:
		return mcp.NewToolResultError("Invalid action. Use 'list', 'enable', or 'disable'"), nil
	}
}

func knownTool(name string) bool {
	for _, t := range ToolGroups {
		if t.Name == name {
			return true
		}
	}
	return false
}
