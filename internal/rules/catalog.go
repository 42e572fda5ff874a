package rules

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"dssrules/internal/logging"
	"dssrules/pkg/fileops"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CategoryAll selects every standard category in ListRules.
const CategoryAll = "all"

// standardCategories are scanned, in order, for CategoryAll. "." is the
// rules root itself.
var standardCategories = []string{".", "workflows", "guidelines", "config"}

const noDescription = "No description available"

// RuleFrontmatter is the leading YAML block of a rule document
type RuleFrontmatter struct {
	Description string `yaml:"description"`
	Globs       any    `yaml:"globs,omitempty"`
	AlwaysApply bool   `yaml:"alwaysApply,omitempty"`
}

// Category is one listed group of rule documents.
type Category struct {
	Title   string
	Entries []CatalogEntry
}

// CatalogEntry is one listed rule document.
type CatalogEntry struct {
	Identifier  string
	Description string
}

// Catalog enumerates the rule documents available under a root directory.
type Catalog struct {
	root        string
	suggestions SuggestionTable
	logger      *logging.AppLogger
}

// NewCatalog creates a Catalog over dir. The suggestion table is listed in
// the usage section of the rendered output.
func NewCatalog(dir string, suggestions SuggestionTable, logger *logging.AppLogger) *Catalog {
	return &Catalog{root: dir, suggestions: suggestions, logger: logger}
}

// Categories returns the populated categories matching category.
// Directories that do not exist, or hold no rule documents, are omitted.
func (c *Catalog) Categories(category string, withDescriptions bool) ([]Category, error) {
	root, err := fileops.OpenRoot(c.root)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	dirs := []string{category}
	if category == CategoryAll {
		dirs = standardCategories
	}

	var out []Category
	for _, dir := range dirs {
		files, err := fileops.ListFiles(root, dir, isRuleDocument)
		if err != nil {
			c.logger.Debug("Skipping category", "category", dir, "error", err)
			continue
		}
		if len(files) == 0 {
			continue
		}

		cat := Category{Title: categoryTitle(dir)}
		for _, id := range files {
			entry := CatalogEntry{Identifier: id}
			if withDescriptions {
				entry.Description = describe(root, id)
			}
			cat.Entries = append(cat.Entries, entry)
		}
		out = append(out, cat)
	}
	return out, nil
}

// Render returns the markdown listing for category.
func (c *Catalog) Render(category string, withDescriptions bool) string {
	categories, err := c.Categories(category, withDescriptions)
	if err != nil {
		c.logger.Warn("Rules directory not available", "root", c.root, "error", err)
		return "❌ DSS rules directory (.cursor/rules) not found."
	}

	var b strings.Builder
	b.WriteString("# Available DSS Rules\n\n")

	for _, cat := range categories {
		fmt.Fprintf(&b, "## %s\n\n", cat.Title)
		for _, entry := range cat.Entries {
			if withDescriptions {
				fmt.Fprintf(&b, "- **%s** - %s\n", entry.Identifier, entry.Description)
			} else {
				fmt.Fprintf(&b, "- %s\n", entry.Identifier)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## Usage Suggestions\n\n")
	b.WriteString("**Bootstrap**: Start with `get_dss_rules()` (default) to load core rules\n")
	b.WriteString("**Context-aware**: Use context parameter for smart suggestions:\n")
	for _, rule := range c.suggestions {
		shown := rule.Rules
		if len(shown) > 2 {
			shown = shown[:2]
		}
		fmt.Fprintf(&b, "- `%s` → %s...\n", rule.Keyword, strings.Join(shown, ", "))
	}

	return b.String()
}

func isRuleDocument(name string) bool {
	return strings.HasSuffix(name, DocumentExt)
}

func categoryTitle(dir string) string {
	if dir == "." {
		return "Core Rules"
	}
	return cases.Title(language.Und).String(dir)
}

// describe extracts a one-line description of a rule document: the
// frontmatter description, else the first level-one heading.
func describe(root *os.Root, id string) string {
	content, err := fileops.ReadText(root, id)
	if err != nil {
		return noDescription
	}

	var matter RuleFrontmatter
	body, err := frontmatter.Parse(strings.NewReader(content), &matter)
	if err == nil {
		if d := strings.TrimSpace(matter.Description); d != "" {
			return d
		}
		content = string(body)
	} else if d := scanDescription(content); d != "" {
		// Cursor frontmatter often carries unquoted globs that are not valid YAML.
		return d
	}

	if h := firstHeading(content); h != "" {
		return h
	}
	return noDescription
}

// scanDescription finds a "description:" line inside a leading "---" block
// without parsing the block as YAML.
func scanDescription(content string) string {
	scanner := bufio.NewScanner(strings.NewReader(content))
	inBlock := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			if inBlock {
				return ""
			}
			inBlock = true
			continue
		}
		if inBlock {
			if after, ok := strings.CutPrefix(line, "description:"); ok {
				return strings.TrimSpace(after)
			}
		}
	}
	return ""
}

func firstHeading(content string) string {
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		if after, ok := strings.CutPrefix(scanner.Text(), "# "); ok {
			return strings.TrimSpace(after)
		}
	}
	return ""
}
