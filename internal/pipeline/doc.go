// Package pipeline implements the Markdown-to-HTML stages of a conversion.
//
// Stages, in the order the converter runs them:
//   - Source preprocessing (BOM, line endings, blank-line runs)
//   - Markdown to HTML fragment via goldmark
//   - [TOC] marker replacement
//   - Relative link rebasing when the output lives elsewhere
//   - Page assembly from the template set and stylesheet
//
// PDF printing is handled by the root mdconvert package through a browser
// binary. The pipeline only produces HTML.
package pipeline
