package mcp

import (
	"context"
	"encoding/json"
	"time"

	"dssrules/internal/rules"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	ToolGetRules  = "get_dss_rules"
	ToolListRules = "list_available_rules"
)

// getRulesSchema is written by hand because rule_files accepts an array,
// a string or null, which the typed tool options cannot express.
const getRulesSchema = `{
  "type": "object",
  "properties": {
    "rule_files": {
      "anyOf": [
        {"type": "array", "items": {"type": "string"}},
        {"type": "string"},
        {"type": "null"}
      ],
      "default": null,
      "description": "List of DSS rule files to retrieve. Omit, pass [], or null to load the default bootstrap trilogy.",
      "examples": [
        {"rule_files": []},
        {"rule_files": ["guidelines/04-validation-rules.mdc"]},
        {"rule_files": "guidelines/04-validation-rules.mdc,workflows/01-quick-tasks.mdc"},
        {"rule_files": "guidelines/04-validation-rules.mdc"}
      ],
      "activation_triggers": ["first user message", "rules missing", "agent bootstrap"]
    },
    "context": {
      "type": "string",
      "default": "",
      "description": "Task context to suggest additional relevant rules: 'code', 'documentation', 'validation', 'tasks', 'github', 'maintenance', 'templates'"
    },
    "include_suggestions": {
      "type": "boolean",
      "default": true,
      "description": "Whether to include context-based rule suggestions"
    }
  }
}`

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewToolWithRawSchema(
			ToolGetRules,
			"Retrieve DSS rule files with intelligent context-based suggestions for progressive agent guidance.",
			json.RawMessage(getRulesSchema),
		),
		s.handleGetRules,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(ToolListRules,
			mcp.WithDescription("List all available DSS rule files organized by category for discovery and navigation."),
			mcp.WithString("category",
				mcp.Description("Rule category to list: 'workflows', 'guidelines', 'config', 'all'"),
				mcp.DefaultString(rules.CategoryAll),
			),
			mcp.WithBoolean("include_descriptions",
				mcp.Description("Whether to include file descriptions from frontmatter"),
				mcp.DefaultBool(true),
			),
		),
		s.handleListRules,
	)

	s.logger.Debug("Registered tools", "tools", []string{ToolGetRules, ToolListRules})
}

// handleGetRules never returns an error: every problem with the request
// is explained inside the returned text.
func (s *Server) handleGetRules(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.calls.Lock()
	defer s.calls.Unlock()
	defer s.logger.LogPerformance(ToolGetRules, time.Now())

	request := rules.ParseRequest(req.GetArguments()["rule_files"])
	taskContext := req.GetString("context", "")
	includeSuggestions := req.GetBool("include_suggestions", true)

	s.logger.Debug("Handling tool call",
		"tool", ToolGetRules,
		"ruleFilesKind", request.Kind,
		"context", taskContext,
		"includeSuggestions", includeSuggestions,
	)

	return mcp.NewToolResultText(s.service.GetRules(request, taskContext, includeSuggestions)), nil
}

func (s *Server) handleListRules(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.calls.Lock()
	defer s.calls.Unlock()

	category := req.GetString("category", rules.CategoryAll)
	includeDescriptions := req.GetBool("include_descriptions", true)

	s.logger.Debug("Handling tool call", "tool", ToolListRules, "category", category)

	return mcp.NewToolResultText(s.service.ListRules(category, includeDescriptions)), nil
}
