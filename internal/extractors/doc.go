// Package extractors turns uploaded files into plain text.
//
// The registry dispatches on file extension to a format-specific
// extractor. Subpackages implement the individual formats:
//
//   - plaintext: .txt files, decoded as UTF-8 with replacement
//   - markdown: .md files, decoded as UTF-8 with replacement
//   - pdf: .pdf files, extracted page by page via pdftotext
package extractors
