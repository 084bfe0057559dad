// Package report renders job reports and job history.
//
// Three formats are available: human-readable text (SimpleWriter), JSON
// (JSONWriter) and GitHub-flavored Markdown (MarkdownWriter). All of them
// implement Writer.
package report
