// Package mcp exposes DSS rule retrieval as a Model Context Protocol (MCP)
// server using mcp-go.
//
// Two tools are registered:
//
//   - get_dss_rules loads rule documents, defaulting to the bootstrap
//     trilogy, and appends context-based suggestions.
//   - list_available_rules lists the rule documents by category.
//
// # Arguments
//
// The rule_files argument of get_dss_rules is deliberately loose: an array
// of strings, a single path, a comma-separated string, "[]", or null are all
// accepted. The decoded JSON value is classified with rules.ParseRequest
// before it reaches the rules package, and malformed values turn into
// warnings in the response rather than JSON-RPC errors.
//
// # Usage
//
// The server is started as a subprocess by an MCP-capable assistant:
//
//	dssrules serve
//
// It reads JSON-RPC requests from stdin and writes responses to stdout until
// it receives EOF or is terminated. Logs go to stderr.
//
// # References
//
// - MCP Specification: https://modelcontextprotocol.io/specification
// - mcp-go Library: https://github.com/mark3labs/mcp-go
package mcp
