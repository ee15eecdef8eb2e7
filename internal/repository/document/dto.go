package document

import (
	"encoding/json"
	"fmt"
	"time"

	domdoc "github.com/helio-cloud/ragcore/internal/domain/document"
)

// jsonDoc is the Redis JSON representation of a document.
type jsonDoc struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags,omitempty"`
	Org       string   `json:"org"`
	Active    bool     `json:"active"`
	CreatedAt int64    `json:"created_at"`
}

func buildJSONDoc(doc *domdoc.Document) jsonDoc {
	return jsonDoc{
		Title:     doc.Title(),
		Content:   doc.Content(),
		Tags:      doc.Tags(),
		Org:       doc.OrganizationID(),
		Active:    doc.IsActive(),
		CreatedAt: doc.CreatedAt().Unix(),
	}
}

func (j *jsonDoc) toDomain(id string) domdoc.Document {
	return domdoc.Reconstruct(
		id, j.Title, j.Content, j.Tags, j.Org,
		j.Active, time.Unix(j.CreatedAt, 0).UTC(),
	)
}

// parseJSONGetResult parses a JSON.GET "$" response, which wraps the
// document in a one-element array.
func parseJSONGetResult(id string, raw []byte) (domdoc.Document, error) {
	var docs []jsonDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		// Some paths return the bare object instead of an array.
		var single jsonDoc
		if err2 := json.Unmarshal(raw, &single); err2 != nil {
			return domdoc.Document{}, fmt.Errorf("unmarshal document %s: %w", id, err)
		}
		return single.toDomain(id), nil
	}
	if len(docs) == 0 {
		return domdoc.Document{}, fmt.Errorf("empty document payload for %s", id)
	}
	return docs[0].toDomain(id), nil
}

// parseSearchField parses the "$" return field of an FT.SEARCH entry,
// which carries the document as a bare JSON object.
func parseSearchField(id, jsonStr string) domdoc.Document {
	if jsonStr == "" {
		return domdoc.Reconstruct(id, "", "", nil, "", false, time.Time{})
	}
	var j jsonDoc
	if err := json.Unmarshal([]byte(jsonStr), &j); err != nil {
		return domdoc.Reconstruct(id, "", "", nil, "", false, time.Time{})
	}
	return j.toDomain(id)
}
