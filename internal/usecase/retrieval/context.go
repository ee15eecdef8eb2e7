package retrieval

import (
	"fmt"
	"strings"

	domdoc "github.com/helio-cloud/ragcore/internal/domain/document"
)

// maxDocContextChars bounds the content of one document inside the
// assembled context block.
const maxDocContextChars = 1500

const truncationMarker = "... [truncated]"

const contextPreamble = "Use the following knowledge base documents to answer the question. " +
	"Prioritize information from these documents and cite the document title when you use it. " +
	"If the documents do not contain relevant information, say so explicitly instead of guessing.\n\n"

const contextPostamble = "\nAnswer based on the documents above whenever possible."

const blockSeparator = "\n\n---\n\n"

// assembleContext renders ranked documents into a single prompt-context
// string. Empty input yields an empty string so no context block is
// attached to the prompt at all.
func assembleContext(docs []domdoc.Document) string {
	if len(docs) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(docs))
	for i := range docs {
		blocks = append(blocks, formatBlock(i+1, &docs[i]))
	}

	var b strings.Builder
	b.WriteString(contextPreamble)
	b.WriteString(strings.Join(blocks, blockSeparator))
	b.WriteString(contextPostamble)
	return b.String()
}

func formatBlock(n int, doc *domdoc.Document) string {
	content := truncateContent(doc.Content())

	var b strings.Builder
	fmt.Fprintf(&b, "[Document %d: %s]\n%s", n, doc.Title(), content)
	if tags := doc.Tags(); len(tags) > 0 {
		fmt.Fprintf(&b, "\nTags: %s", strings.Join(tags, ", "))
	}
	return b.String()
}

// truncateContent caps content at maxDocContextChars characters. The cut
// lands on a rune boundary so multibyte content stays valid UTF-8.
func truncateContent(s string) string {
	if len(s) <= maxDocContextChars {
		return s
	}
	runes := 0
	for i := range s {
		if runes == maxDocContextChars {
			return s[:i] + truncationMarker
		}
		runes++
	}
	return s
}
