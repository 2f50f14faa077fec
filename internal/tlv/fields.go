package tlv

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Fields is a tag -> value mapping that remembers first-seen order.
// Setting an existing tag replaces its value but keeps its position.
type Fields struct {
	order  []Tag
	values map[Tag]string
}

// NewFields creates an empty mapping
func NewFields() *Fields {
	return &Fields{values: make(map[Tag]string)}
}

// Set stores value under tag
func (f *Fields) Set(tag Tag, value string) {
	if f.values == nil {
		f.values = make(map[Tag]string)
	}
	if _, ok := f.values[tag]; !ok {
		f.order = append(f.order, tag)
	}
	f.values[tag] = value
}

// Get returns the value for tag
func (f *Fields) Get(tag Tag) (string, bool) {
	v, ok := f.values[tag]
	return v, ok
}

// Value returns the value for tag or "" when absent
func (f *Fields) Value(tag Tag) string {
	return f.values[tag]
}

// Tags returns tags in first-seen order
func (f *Fields) Tags() []Tag {
	out := make([]Tag, len(f.order))
	copy(out, f.order)
	return out
}

// Len returns the number of distinct tags
func (f *Fields) Len() int {
	return len(f.order)
}

// Map returns an unordered copy
func (f *Fields) Map() map[Tag]string {
	out := make(map[Tag]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// MarshalJSON renders a JSON object keyed by tag number, in first-seen order
func (f *Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, tag := range f.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(int(tag))))
		buf.WriteByte(':')
		v, err := json.Marshal(f.values[tag])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
