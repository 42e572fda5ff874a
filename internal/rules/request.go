package rules

import "fmt"

// RequestKind identifies which shape the caller used for rule_files.
type RequestKind int

const (
	// RequestAbsent means no value (missing argument or JSON null).
	RequestAbsent RequestKind = iota
	// RequestList is a list whose elements are all strings.
	RequestList
	// RequestString is a single string, parsed further by Normalize.
	RequestString
	// RequestMixedList is a list holding at least one non-string element.
	RequestMixedList
	// RequestOther is any other JSON value: number, boolean, object.
	RequestOther
)

// String returns a short name for the kind, used in logs
func (k RequestKind) String() string {
	switch k {
	case RequestAbsent:
		return "absent"
	case RequestList:
		return "list"
	case RequestString:
		return "string"
	case RequestMixedList:
		return "mixed list"
	case RequestOther:
		return "other"
	default:
		return "unknown"
	}
}

// Request is the caller-supplied rule_files value, classified once at the
// transport boundary. Only the field matching Kind is meaningful; Raw keeps
// the original value of RequestMixedList and RequestOther for diagnostics.
type Request struct {
	Kind RequestKind
	List []string
	Text string
	Raw  any
}

// AbsentRequest asks for the bootstrap set.
func AbsentRequest() Request {
	return Request{Kind: RequestAbsent}
}

// ListRequest asks for the given identifiers verbatim.
func ListRequest(ids []string) Request {
	return Request{Kind: RequestList, List: ids}
}

// StringRequest carries a single string to be shape-detected.
func StringRequest(s string) Request {
	return Request{Kind: RequestString, Text: s}
}

// ParseRequest classifies a JSON-decoded value (as produced by
// encoding/json into an any) into a Request.
func ParseRequest(v any) Request {
	switch val := v.(type) {
	case nil:
		return AbsentRequest()
	case string:
		return StringRequest(val)
	case []string:
		return ListRequest(val)
	case []any:
		ids := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return Request{Kind: RequestMixedList, Raw: v}
			}
			ids = append(ids, s)
		}
		return ListRequest(ids)
	default:
		return Request{Kind: RequestOther, Raw: v}
	}
}

// typeName names a JSON-decoded value's type the way a caller writing JSON
// would recognize it.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32:
		return "number"
	case string:
		return "string"
	case []any, []string:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
