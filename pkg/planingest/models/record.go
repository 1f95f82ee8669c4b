package models

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Field is one header/value pair of a Record.
type Field struct {
	Name  string
	Value Value
	// Col is the 1-based sheet column, or 0 for derived fields.
	Col int
}

// Record is one spreadsheet row keyed by resolved header text. Field order
// follows the columns. Setting an existing name overwrites the value in place,
// so a duplicated header keeps the later column's value at the earlier position.
type Record struct {
	// Row is the 1-based sheet row the record came from.
	Row    int
	fields []Field
	index  map[string]int
}

// NewRecord returns an empty record for the given sheet row.
func NewRecord(row int) Record {
	return Record{Row: row, index: make(map[string]int)}
}

// Set stores v under name, keeping the column of an existing field.
func (r *Record) Set(name string, v Value) {
	if i, ok := r.index[name]; ok {
		r.fields[i].Value = v
		return
	}
	r.SetCell(name, 0, v)
}

// SetCell stores v under name and records the sheet column it came from.
func (r *Record) SetCell(name string, col int, v Value) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[name]; ok {
		r.fields[i].Value = v
		r.fields[i].Col = col
		return
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, Field{Name: name, Value: v, Col: col})
}

// Col returns the sheet column of name, or 0 when unknown.
func (r Record) Col(name string) int {
	if i, ok := r.index[name]; ok {
		return r.fields[i].Col
	}
	return 0
}

// Get returns the value stored under name, or null when absent.
func (r Record) Get(name string) Value {
	if i, ok := r.index[name]; ok {
		return r.fields[i].Value
	}
	return Null()
}

// Has reports whether name is a field of r, null or not.
func (r Record) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r.fields) }

// Fields returns the fields in column order. The slice must not be modified.
func (r Record) Fields() []Field { return r.fields }

// Clone returns a deep copy that can be modified independently.
func (r Record) Clone() Record {
	out := Record{
		Row:    r.Row,
		fields: make([]Field, len(r.fields)),
		index:  make(map[string]int, len(r.index)),
	}
	copy(out.fields, r.fields)
	for k, v := range r.index {
		out.index[k] = v
	}
	return out
}

// Map returns the record as a plain map of header to Go value.
func (r Record) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(r.fields))
	for _, f := range r.fields {
		m[f.Name] = f.Value.Interface()
	}
	return m
}

// MarshalJSON writes the record as a JSON object in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes the record as a mapping node in column order.
func (r Record) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range r.fields {
		var k, v yaml.Node
		if err := k.Encode(f.Name); err != nil {
			return nil, err
		}
		val, err := f.Value.MarshalYAML()
		if err != nil {
			return nil, err
		}
		if err := v.Encode(val); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &k, &v)
	}
	return node, nil
}
