package document

import (
	"fmt"
	"regexp"
	"time"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxContentSize is the maximum document content size in bytes.
const MaxContentSize = 163840 // 160KB

// Document is the knowledge base document aggregate (immutable value object).
// Retrieval consumes documents read-only; only the management service
// creates, updates, or soft-deletes them.
type Document struct {
	id        string
	title     string
	content   string
	tags      []string
	orgID     string
	active    bool
	createdAt time.Time
}

// New validates and creates an active Document.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. Title and content: non-empty,
// content max 160KB. orgID may be empty for ungrouped documents.
func New(id, title, content string, tags []string, orgID string) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("document ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Document{}, fmt.Errorf("document ID must be alphanumeric with underscores and hyphens")
	}
	if title == "" {
		return Document{}, fmt.Errorf("title is required")
	}
	if content == "" {
		return Document{}, fmt.Errorf("content is required")
	}
	if len(content) > MaxContentSize {
		return Document{}, fmt.Errorf("content too large (max %d bytes)", MaxContentSize)
	}

	return Document{
		id:        id,
		title:     title,
		content:   content,
		tags:      cloneTags(tags),
		orgID:     orgID,
		active:    true,
		createdAt: time.Now().UTC(),
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(
	id, title, content string, tags []string, orgID string,
	active bool, createdAt time.Time,
) Document {
	return Document{
		id: id, title: title, content: content, tags: tags,
		orgID: orgID, active: active, createdAt: createdAt,
	}
}

// Value receivers throughout: accessors must chain off function results,
// which are not addressable.

// ID returns the document identifier.
func (d Document) ID() string { return d.id }

// Title returns the document title.
func (d Document) Title() string { return d.title }

// Content returns the document text body.
func (d Document) Content() string { return d.content }

// Tags returns the document tags.
func (d Document) Tags() []string { return d.tags }

// OrganizationID returns the owning tenant ID, empty for ungrouped documents.
func (d Document) OrganizationID() string { return d.orgID }

// IsActive reports whether the document is visible to retrieval.
func (d Document) IsActive() bool { return d.active }

// CreatedAt returns the creation timestamp.
func (d Document) CreatedAt() time.Time { return d.createdAt }

// Deactivated returns a soft-deleted copy.
func (d Document) Deactivated() Document {
	d.active = false
	d.tags = cloneTags(d.tags)
	return d
}

// WithContent returns a copy with a replaced title, content, and tags.
func (d Document) WithContent(title, content string, tags []string) Document {
	d.title = title
	d.content = content
	d.tags = cloneTags(tags)
	return d
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	c := make([]string, len(tags))
	copy(c, tags)
	return c
}
