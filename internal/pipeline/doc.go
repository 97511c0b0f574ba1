// Package pipeline implements the markdown-to-HTML rendering pipeline.
//
// Two engines share the same contract (HTMLConverter):
//   - EditorConverter: a line classifier followed by a single grouping pass,
//     reproducing the editor's dialect (tables, task lists, [TOC] markers,
//     {header} images, links opening in a new tab)
//   - GoldmarkConverter: CommonMark + GFM via goldmark, with the same image
//     table resolution, heading slugs and [TOC] block
//
// Both engines resolve image references against an in-memory image table
// and derive the table of contents from the normalized source text.
// Standalone document wrapping and relative path rewriting for PDF output
// live here as well; PDF printing itself is handled by the root package.
package pipeline
