// Package rules implements context-aware retrieval of DSS rule documents.
//
// A retrieval goes through four steps:
//
//  1. Normalize turns the loosely typed rule_files value (a Request) into a
//     Selection: a canonical identifier list, or nil for "use the bootstrap
//     set", plus warnings and a shape error when the value could not be read.
//  2. SuggestionTable.Suggest maps a free-text context to extra identifiers.
//     The first keyword contained in the context wins; categories never mix.
//  3. Loader.Load reads each identifier beneath the rules root, keeping hits,
//     missing files and read errors apart. Duplicates are loaded twice.
//  4. Report.Render assembles the markdown answer.
//
// Service ties the steps together and never fails: malformed input, missing
// documents and unreadable files all end up as text inside the report.
//
// # Identifiers
//
// An identifier is a slash-separated path relative to the rules root, such
// as "workflows/00-workflow-selection.mdc". Reads are confined to the root
// with os.Root, so identifiers that escape it are reported as read errors.
//
// # Listing
//
// Catalog enumerates the *.mdc documents of the root and its standard
// category directories, with descriptions taken from the frontmatter
// "description" field or the first heading.
package rules
