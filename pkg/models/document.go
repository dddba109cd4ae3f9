package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ValueShape describes the payload shape a category is expected to produce
type ValueShape string

const (
	ShapeText    ValueShape = "text"
	ShapeList    ValueShape = "list"
	ShapeMapping ValueShape = "mapping"
)

// Category describes one facet of a design system with its own
// extraction instruction. The catalog of categories is fixed at process start.
type Category struct {
	ID          string     `json:"id"`
	Label       string     `json:"label"`
	Instruction string     `json:"instruction"`
	Shape       ValueShape `json:"shape"`
	Group       string     `json:"group"`
}

// CategoryStatus represents the resolution status of a category result
type CategoryStatus string

const (
	StatusOK          CategoryStatus = "ok"
	StatusUnavailable CategoryStatus = "unavailable"
	StatusError       CategoryStatus = "error"
)

// CategoryResult is the outcome of extracting one category in one stage.
// Results are never mutated after creation; later stages produce new
// instances that the merger reconciles.
type CategoryResult struct {
	CategoryID string          `json:"category_id"`
	Status     CategoryStatus  `json:"status"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Diagnostic string          `json:"diagnostic,omitempty"`
}

// BatchRole determines merge precedence. The merger keys on role only,
// never on category names.
type BatchRole string

const (
	RolePrimary    BatchRole = "primary"
	RoleSegment    BatchRole = "segment"
	RoleValidation BatchRole = "validation"
)

// Segment labels in positional order, top of the page first.
var SegmentLabels = []string{"top", "upper-quarter", "half", "bottom"}

// ResultBatch is one batch of category results from a single pass.
type ResultBatch struct {
	Role    BatchRole        `json:"role"`
	Segment string           `json:"segment,omitempty"`
	Results []CategoryResult `json:"results"`
}

// Get returns the result for a category ID, or nil if the batch has none.
func (b *ResultBatch) Get(categoryID string) *CategoryResult {
	for i := range b.Results {
		if b.Results[i].CategoryID == categoryID {
			return &b.Results[i]
		}
	}
	return nil
}

// Document is the canonical analysis output: exactly one resolved
// CategoryResult per catalog category. Immutable once emitted.
type Document struct {
	URL        string           `json:"url,omitempty"`
	Categories []Category       `json:"-"`
	Results    []CategoryResult `json:"results"`
	Incomplete bool             `json:"incomplete,omitempty"`
}

// Result returns the resolved result for a category ID.
func (d *Document) Result(categoryID string) *CategoryResult {
	for i := range d.Results {
		if d.Results[i].CategoryID == categoryID {
			return &d.Results[i]
		}
	}
	return nil
}

// MarshalJSON serializes the document as a mapping keyed by category ID,
// in fixed catalog order, with an explicit status marker for every category.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if d.URL != "" {
		buf.WriteString(`"url":`)
		writeJSONString(&buf, d.URL)
		buf.WriteByte(',')
	}
	if d.Incomplete {
		buf.WriteString(`"incomplete":true,`)
	}
	buf.WriteString(`"categories":{`)
	for i := range d.Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		cat := &d.Categories[i]
		writeJSONString(&buf, cat.ID)
		buf.WriteByte(':')
		entry := categoryEntry{Label: cat.Label, Status: StatusUnavailable}
		if r := d.Result(cat.ID); r != nil {
			entry.Status = r.Status
			entry.Value = r.Payload
			entry.Diagnostic = r.Diagnostic
		}
		data, err := json.Marshal(entry)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

type categoryEntry struct {
	Label      string          `json:"label"`
	Status     CategoryStatus  `json:"status"`
	Value      json.RawMessage `json:"value,omitempty"`
	Diagnostic string          `json:"diagnostic,omitempty"`
}

// UnmarshalJSON reads a serialized document back into its in-memory form.
// Category order follows the serialized object, which MarshalJSON emits in
// catalog order. Only ID and label survive the round trip; extraction
// instructions are not part of the wire form.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("document: %w", err)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		switch keyTok.(string) {
		case "url":
			if err := dec.Decode(&d.URL); err != nil {
				return err
			}
		case "incomplete":
			if err := dec.Decode(&d.Incomplete); err != nil {
				return err
			}
		case "categories":
			if err := d.decodeCategories(dec); err != nil {
				return err
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Document) decodeCategories(dec *json.Decoder) error {
	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("categories: %w", err)
	}
	for dec.More() {
		idTok, err := dec.Token()
		if err != nil {
			return err
		}
		id := idTok.(string)
		var entry categoryEntry
		if err := dec.Decode(&entry); err != nil {
			return err
		}
		d.Categories = append(d.Categories, Category{ID: id, Label: entry.Label})
		d.Results = append(d.Results, CategoryResult{
			CategoryID: id,
			Status:     entry.Status,
			Payload:    entry.Value,
			Diagnostic: entry.Diagnostic,
		})
	}
	_, err := dec.Token()
	return err
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	data, _ := json.Marshal(s)
	buf.Write(data)
}
