package ragcore

import (
	"fmt"
	"reflect"
)

const tagKey = "ragcore"

// schemaMeta holds parsed struct tag metadata, cached per Index.
type schemaMeta struct {
	typ reflect.Type // struct type for reconstruction
	ptr bool         // T is a pointer to the struct type

	// Field index in the struct for each role.
	idIdx      int
	titleIdx   int
	contentIdx int
	tagsIdx    int // -1 if not present
}

// parseSchema reflects on T and extracts ragcore struct tag metadata.
func parseSchema[T any]() (*schemaMeta, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	ptr := t.Kind() == reflect.Pointer
	if ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("ragcore: type %s is not a struct", t)
	}

	meta := &schemaMeta{
		typ: t, ptr: ptr, idIdx: -1, titleIdx: -1, contentIdx: -1, tagsIdx: -1,
	}

	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}
		if err := applyTag(meta, i, f, tag); err != nil {
			return nil, err
		}
	}

	return validateSchema(meta, t)
}

// applyTag processes a single struct field's ragcore tag.
func applyTag(meta *schemaMeta, idx int, f reflect.StructField, tag string) error {
	set := func(slot *int) error {
		if *slot != -1 {
			return fmt.Errorf("ragcore: duplicate %q tag on field %s", tag, f.Name)
		}
		*slot = idx
		return nil
	}

	switch tag {
	case "id":
		if f.Type.Kind() != reflect.String {
			return fmt.Errorf("ragcore: id field %s must be a string", f.Name)
		}
		return set(&meta.idIdx)
	case "title":
		if f.Type.Kind() != reflect.String {
			return fmt.Errorf("ragcore: title field %s must be a string", f.Name)
		}
		return set(&meta.titleIdx)
	case "content":
		if f.Type.Kind() != reflect.String {
			return fmt.Errorf("ragcore: content field %s must be a string", f.Name)
		}
		return set(&meta.contentIdx)
	case "tags":
		if f.Type.Kind() != reflect.Slice || f.Type.Elem().Kind() != reflect.String {
			return fmt.Errorf("ragcore: tags field %s must be a []string", f.Name)
		}
		return set(&meta.tagsIdx)
	default:
		return fmt.Errorf("ragcore: unknown tag %q on field %s", tag, f.Name)
	}
}

func validateSchema(meta *schemaMeta, t reflect.Type) (*schemaMeta, error) {
	if meta.idIdx == -1 {
		return nil, fmt.Errorf("ragcore: no field with `ragcore:\"id\"` tag in %s", t)
	}
	if meta.titleIdx == -1 {
		return nil, fmt.Errorf("ragcore: no field with `ragcore:\"title\"` tag in %s", t)
	}
	if meta.contentIdx == -1 {
		return nil, fmt.Errorf("ragcore: no field with `ragcore:\"content\"` tag in %s", t)
	}
	return meta, nil
}

// toDocument converts a typed struct to Document using schema metadata.
// A nil pointer item converts to the zero Document, which the document
// service rejects with a validation error.
func (m *schemaMeta) toDocument(item any) Document {
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return Document{}
		}
		v = v.Elem()
	}

	doc := Document{
		ID:      v.Field(m.idIdx).String(),
		Title:   v.Field(m.titleIdx).String(),
		Content: v.Field(m.contentIdx).String(),
	}
	if m.tagsIdx != -1 {
		if tags, ok := v.Field(m.tagsIdx).Interface().([]string); ok {
			doc.Tags = tags
		}
	}
	return doc
}

// fromDocument converts a Document back to a typed struct using schema metadata.
func (m *schemaMeta) fromDocument(doc Document) any {
	v := reflect.New(m.typ).Elem()

	v.Field(m.idIdx).SetString(doc.ID)
	v.Field(m.titleIdx).SetString(doc.Title)
	v.Field(m.contentIdx).SetString(doc.Content)
	if m.tagsIdx != -1 && doc.Tags != nil {
		v.Field(m.tagsIdx).Set(reflect.ValueOf(doc.Tags))
	}
	if m.ptr {
		return v.Addr().Interface()
	}
	return v.Interface()
}
