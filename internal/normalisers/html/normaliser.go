// Package html extracts readable text from HTML payloads.
package html

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/annex-labs/annex-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML files.
type Normaliser struct{}

// New creates an HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

var (
	scriptTags    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTags     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	headTags      = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	comments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockClosers  = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	brTags        = regexp.MustCompile(`(?i)<(br|hr)\s*/?>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// Normalise strips tags, drops script/style/head blocks, decodes
// entities and collapses whitespace. Block boundaries become newlines.
func (n *Normaliser) Normalise(_ context.Context, raw []byte) (string, error) {
	content := string(raw)

	content = scriptTags.ReplaceAllString(content, "")
	content = styleTags.ReplaceAllString(content, "")
	content = headTags.ReplaceAllString(content, "")
	content = comments.ReplaceAllString(content, "")
	content = blockClosers.ReplaceAllString(content, "\n")
	content = brTags.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n"), nil
}

// Extensions returns the handled file extensions.
func (n *Normaliser) Extensions() []string {
	return []string{".html", ".htm", ".xhtml"}
}

// TypeName returns the document type recorded in metadata.
func (n *Normaliser) TypeName() string {
	return "html"
}
