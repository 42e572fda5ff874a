package rules

import (
	"path/filepath"
	"testing"

	"dssrules/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrieve_DefaultsToBootstrap(t *testing.T) {
	svc, _ := newTestService(t, writeRules(t, bootstrapFixture()))

	requests := map[string]Request{
		"absent":              AbsentRequest(),
		"empty string":        StringRequest(""),
		"empty array literal": StringRequest("[]"),
		"empty list":          ListRequest([]string{}),
		"decoded empty array": ParseRequest([]any{}),
	}

	for name, req := range requests {
		t.Run(name, func(t *testing.T) {
			report := svc.Retrieve(req, "", true)

			assert.Equal(t, BootstrapRules, identifiers(report.Results))
			assert.True(t, report.Selection.Valid)
			assert.Len(t, report.Loaded(), 3)
		})
	}
}

func TestRetrieve_EmptyListHasNoWarnings(t *testing.T) {
	svc, _ := newTestService(t, writeRules(t, bootstrapFixture()))

	out := svc.GetRules(ListRequest([]string{}), "", true)

	assert.NotContains(t, out, "## Warnings")
	assert.NotContains(t, out, "## Error")
}

func TestRetrieve_InvalidShapesFallBack(t *testing.T) {
	svc, _ := newTestService(t, writeRules(t, bootstrapFixture()))

	requests := map[string]Request{
		"mixed list": ParseRequest([]any{"a.mdc", 7.0}),
		"number":     ParseRequest(7.0),
		"word":       StringRequest("nonsense"),
	}

	for name, req := range requests {
		t.Run(name, func(t *testing.T) {
			report := svc.Retrieve(req, "", false)

			assert.False(t, report.Selection.Valid)
			assert.Nil(t, report.Selection.Identifiers)
			assert.Equal(t, BootstrapRules, identifiers(report.Results))

			out := report.Render()
			assert.Contains(t, out, "## Error\n")
			assert.Contains(t, out, "**Note**: Using default bootstrap trilogy")
		})
	}
}

func TestRetrieve_ExplicitSelection(t *testing.T) {
	svc, _ := newTestService(t, writeRules(t, bootstrapFixture()))

	report := svc.Retrieve(StringRequest("guidelines/04-validation-rules.mdc"), "", true)

	assert.Equal(t, []string{"guidelines/04-validation-rules.mdc"}, identifiers(report.Results))
	assert.Equal(t, "validation without heading\n", report.Results[0].Content)
}

func TestRetrieve_BlankCommaListLoadsNothing(t *testing.T) {
	svc, served := newTestService(t, writeRules(t, bootstrapFixture()))

	report := svc.Retrieve(StringRequest(", ,"), "", false)

	assert.True(t, report.Selection.Valid)
	assert.NotNil(t, report.Selection.Identifiers)
	assert.Empty(t, report.Results)
	assert.True(t, served.Load())

	out := report.Render()
	assert.Contains(t, out, "Parsed comma-separated string into array: []")
	assert.Contains(t, out, "No rule files could be loaded")
	assert.NotContains(t, out, "Using default bootstrap trilogy")
	assert.NotContains(t, out, "## File:")
}

func TestRetrieve_SuggestionsAppendedAfterBase(t *testing.T) {
	svc, _ := newTestService(t, writeRules(t, bootstrapFixture()))

	report := svc.Retrieve(AbsentRequest(), "please review my CODE changes", true)

	codeRules := []string{"workflows/02-code-modification.mdc", "guidelines/11-documentation-standards.mdc"}
	assert.Equal(t, codeRules, report.Suggestions)
	assert.Equal(t, append(append([]string{}, BootstrapRules...), codeRules...), identifiers(report.Results))

	out := report.Render()
	assert.Contains(t, out, "**Context**: please review my CODE changes\n")
	assert.Contains(t, out, "**Context-based suggestions included**: workflows/02-code-modification.mdc, guidelines/11-documentation-standards.mdc\n")
}

func TestRetrieve_SuggestionsDisabled(t *testing.T) {
	svc, _ := newTestService(t, writeRules(t, bootstrapFixture()))

	report := svc.Retrieve(AbsentRequest(), "code", false)

	assert.Empty(t, report.Suggestions)
	assert.Equal(t, BootstrapRules, identifiers(report.Results))
	assert.Contains(t, report.Render(), "**Context**: code\n")
}

func TestRetrieve_DuplicatesNotRemoved(t *testing.T) {
	svc, _ := newTestService(t, writeRules(t, bootstrapFixture()))

	report := svc.Retrieve(ListRequest([]string{"workflows/02-code-modification.mdc"}), "code", true)

	assert.Equal(t, []string{
		"workflows/02-code-modification.mdc",
		"workflows/02-code-modification.mdc",
		"guidelines/11-documentation-standards.mdc",
	}, identifiers(report.Results))
	assert.Len(t, report.Loaded(), 3)
}

func TestRetrieve_PartialSuccess(t *testing.T) {
	svc, _ := newTestService(t, writeRules(t, bootstrapFixture()))

	out := svc.GetRules(ListRequest([]string{"00-dss-core.mdc", "nope.mdc"}), "", true)

	assert.Contains(t, out, "## File: 00-dss-core.mdc")
	assert.Contains(t, out, "## Missing Files")
	assert.Contains(t, out, "- nope.mdc (not found)")
	assert.NotContains(t, out, "No rule files could be loaded")
}

func TestRetrieve_MarksServed(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing-root")
	svc, served := newTestService(t, dir)

	assert.False(t, svc.Served())

	out := svc.GetRules(AbsentRequest(), "", true)

	assert.True(t, served.Load(), "flag is set regardless of outcome")
	assert.True(t, svc.Served())
	assert.Contains(t, out, "No rule files could be loaded")
}

func TestNewService_Options(t *testing.T) {
	dir := writeRules(t, map[string]string{"one.mdc": "1", "hint.mdc": "h"})
	logger, _ := logging.NewTestLogger()

	svc := NewService(dir, nil, logger,
		WithBootstrap([]string{"one.mdc"}),
		WithSuggestions(SuggestionTable{{Keyword: "hint", Rules: []string{"hint.mdc"}}}),
	)

	report := svc.Retrieve(AbsentRequest(), "a HINT please", true)
	assert.Equal(t, []string{"one.mdc", "hint.mdc"}, identifiers(report.Results))
	assert.Equal(t, dir, svc.Root())
	assert.True(t, svc.Served(), "a nil flag is replaced by a private one")
}

func TestListRules_RoundTrip(t *testing.T) {
	svc, _ := newTestService(t, writeRules(t, bootstrapFixture()))

	categories, err := svc.catalog.Categories(CategoryAll, false)
	require.NoError(t, err)
	require.NotEmpty(t, categories)

	for _, cat := range categories {
		for _, entry := range cat.Entries {
			report := svc.Retrieve(ListRequest([]string{entry.Identifier}), "", false)
			require.Len(t, report.Results, 1)
			assert.Equal(t, Loaded, report.Results[0].Status, "listed identifier %s should load", entry.Identifier)
		}
	}
}

func TestListRules_Idempotent(t *testing.T) {
	svc, _ := newTestService(t, writeRules(t, bootstrapFixture()))

	first := svc.ListRules(CategoryAll, true)
	second := svc.ListRules(CategoryAll, true)

	assert.Equal(t, first, second)
	assert.Equal(t, first, svc.ListRules("", true), "empty category means all")
}
