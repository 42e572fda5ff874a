package rules

import (
	"slices"
	"strings"
)

// SuggestionRule maps a context keyword to the rules it brings in.
type SuggestionRule struct {
	Keyword string
	Rules   []string
}

// SuggestionTable is an ordered keyword table. Order is part of its
// contract: Suggest uses the first keyword found in the context.
type SuggestionTable []SuggestionRule

// DefaultSuggestions is the context keyword table.
var DefaultSuggestions = SuggestionTable{
	{Keyword: "code", Rules: []string{"workflows/02-code-modification.mdc", "guidelines/11-documentation-standards.mdc"}},
	{Keyword: "documentation", Rules: []string{"workflows/03-documentation-driven.mdc", "guidelines/07-folder-readme-policy.mdc"}},
	{Keyword: "validation", Rules: []string{"guidelines/04-validation-rules.mdc", "guidelines/09-error-recovery.mdc"}},
	{Keyword: "tasks", Rules: []string{"workflows/04-task-decomposition.mdc", "guidelines/05-tag-conventions.mdc"}},
	{Keyword: "github", Rules: []string{"workflows/06-github-issues-integration.mdc", "guidelines/08-github-issue-labels.mdc"}},
	{Keyword: "maintenance", Rules: []string{"guidelines/01-dss-maintenance.mdc", "guidelines/06-backlink-conventions.mdc"}},
	{Keyword: "templates", Rules: []string{"guidelines/00-dss-templates.mdc", "guidelines/03-naming-conventions.mdc"}},
}

// Suggest returns the rules of the first keyword that occurs, case
// insensitively, anywhere in context. It returns nil for an empty context
// or when nothing matches. The returned slice is a copy.
func (t SuggestionTable) Suggest(context string) []string {
	if context == "" {
		return nil
	}

	lower := strings.ToLower(context)
	for _, rule := range t {
		if strings.Contains(lower, rule.Keyword) {
			return slices.Clone(rule.Rules)
		}
	}
	return nil
}

// Keywords lists the table's keywords in order
func (t SuggestionTable) Keywords() []string {
	keywords := make([]string, len(t))
	for i, rule := range t {
		keywords[i] = rule.Keyword
	}
	return keywords
}
