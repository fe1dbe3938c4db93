// Package report renders generation run reports.
//
// Three formats are available:
//   - SimpleWriter: plain text for the terminal (default)
//   - JSONWriter: machine-readable output, optionally indented
//   - MarkdownWriter: tables and a mermaid pie chart for sharing
//
// Reports include the first accepted candidates as examples. They are
// meant for the operator's eyes and are never passed to the logger.
package report
