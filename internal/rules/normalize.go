package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"dssrules/internal/logging"
)

// DocumentExt is the file suffix of rule documents.
const DocumentExt = ".mdc"

// Selection is the normalized form of a Request.
//
// Identifiers == nil means "use the bootstrap set", whether or not the
// request was valid. When Valid is false, Identifiers is always nil and Err
// explains what shape was expected.
type Selection struct {
	Valid       bool
	Identifiers []string
	Warnings    []string
	Err         error
}

// Normalize turns a Request into a Selection. It performs no I/O.
func Normalize(req Request) Selection {
	logging.Debug("Normalizing rule_files", "kind", req.Kind, "value", describeRequest(req))

	switch req.Kind {
	case RequestAbsent:
		return Selection{Valid: true}

	case RequestList:
		return Selection{Valid: true, Identifiers: req.List}

	case RequestString:
		return parseString(req.Text)

	case RequestMixedList:
		return Selection{
			Err: errors.New("Expected array of strings, but received array with non-string items. " +
				"Examples: [], ['guidelines/04-validation-rules.mdc']"),
		}

	default:
		return Selection{
			Err: fmt.Errorf("Expected array of strings or null for rule_files parameter, but received %s: '%s'. "+
				"Please provide either: null (omit the parameter), [] (empty array), "+
				"an array of rule file paths like ['guidelines/04-validation-rules.mdc'], "+
				"a comma-separated string like 'guidelines/04-validation-rules.mdc,workflows/01-quick-tasks.mdc', "+
				"or a single file path like 'guidelines/04-validation-rules.mdc'",
				typeName(req.Raw), formatValue(req.Raw)),
		}
	}
}

// parseString detects which list shape a string was meant to express.
func parseString(input string) Selection {
	trimmed := strings.TrimSpace(input)

	switch {
	case trimmed == "":
		return Selection{
			Valid:    true,
			Warnings: []string{"Empty string provided, using null"},
		}

	case trimmed == "[]":
		logging.Debug("Detected string '[]', treating as request for bootstrap trilogy")
		return Selection{
			Valid:    true,
			Warnings: []string{"String '[]' interpreted as empty array, using null (bootstrap trilogy)"},
		}

	case strings.Contains(trimmed, ","):
		items := make([]string, 0)
		for _, part := range strings.Split(trimmed, ",") {
			if p := strings.TrimSpace(part); p != "" {
				items = append(items, p)
			}
		}
		return Selection{
			Valid:       true,
			Identifiers: items,
			Warnings:    []string{fmt.Sprintf("Parsed comma-separated string into array: [%s]", strings.Join(items, ", "))},
		}

	case strings.ContainsAny(trimmed, `/\`) || strings.Contains(trimmed, DocumentExt):
		return Selection{
			Valid:       true,
			Identifiers: []string{trimmed},
			Warnings:    []string{fmt.Sprintf("Wrapped single file path in array: ['%s']", trimmed)},
		}

	default:
		return Selection{
			Warnings: []string{"Falling back to bootstrap trilogy due to malformed input"},
			Err:      fmt.Errorf("Unable to parse string input: '%s'. Expected comma-separated paths or single file path.", trimmed),
		}
	}
}

func describeRequest(req Request) string {
	switch req.Kind {
	case RequestAbsent:
		return "null"
	case RequestList:
		return formatValue(req.List)
	case RequestString:
		return fmt.Sprintf("%q", req.Text)
	default:
		return formatValue(req.Raw)
	}
}

// formatValue renders v as compact JSON, falling back to fmt for values
// JSON cannot encode.
func formatValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
