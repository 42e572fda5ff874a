package rules

import (
	"fmt"
	"strings"
)

// Report collects everything one retrieval produced.
type Report struct {
	Selection   Selection
	Context     string
	Suggestions []string
	Results     []LoadResult
}

// UsedDefaults reports whether the bootstrap set replaced an invalid request.
func (r Report) UsedDefaults() bool {
	return !r.Selection.Valid
}

// Loaded returns the results that produced content, in request order.
func (r Report) Loaded() []LoadResult {
	return r.filter(func(res LoadResult) bool { return res.Status == Loaded })
}

// Missing returns the results that did not produce content, in request order.
func (r Report) Missing() []LoadResult {
	return r.filter(func(res LoadResult) bool { return res.Status != Loaded })
}

func (r Report) filter(keep func(LoadResult) bool) []LoadResult {
	var out []LoadResult
	for _, res := range r.Results {
		if keep(res) {
			out = append(out, res)
		}
	}
	return out
}

// Render formats the report as markdown. Section order is fixed: warnings,
// validation error, defaults note, title with context, document contents,
// missing files, and a notice when nothing loaded. Empty sections are left
// out; the output is never empty.
func (r Report) Render() string {
	var b strings.Builder

	if len(r.Selection.Warnings) > 0 {
		b.WriteString("## Warnings\n")
		for _, w := range r.Selection.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	if r.Selection.Err != nil {
		b.WriteString("## Error\n")
		fmt.Fprintf(&b, "%s\n\n", r.Selection.Err)
	}

	if r.UsedDefaults() {
		b.WriteString("**Note**: Using default bootstrap trilogy due to parameter validation issues.\n\n")
	}

	b.WriteString("# DSS Rules Retrieved\n\n")

	if r.Context != "" {
		fmt.Fprintf(&b, "**Context**: %s\n", r.Context)
		if len(r.Suggestions) > 0 {
			fmt.Fprintf(&b, "**Context-based suggestions included**: %s\n", strings.Join(r.Suggestions, ", "))
		}
		b.WriteString("\n")
	}

	loaded := r.Loaded()
	if len(loaded) > 0 {
		blocks := make([]string, len(loaded))
		for i, res := range loaded {
			blocks[i] = fmt.Sprintf("## File: %s\n\n%s\n", res.Identifier, res.Content)
		}
		b.WriteString("---\n\n")
		b.WriteString(strings.Join(blocks, "\n---\n\n"))
	}

	if missing := r.Missing(); len(missing) > 0 {
		b.WriteString("\n\n## Missing Files\nThe following files could not be loaded:\n")
		for _, res := range missing {
			fmt.Fprintf(&b, "- %s (%s)\n", res.Identifier, res.Reason())
		}
	}

	if len(loaded) == 0 {
		b.WriteString("No rule files could be loaded. Check that .cursor/rules directory exists.")
	}

	return b.String()
}
