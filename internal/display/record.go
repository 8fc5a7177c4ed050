package display

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Field is a single key/value pair used to build a Record.
type Field struct {
	Key   string
	Value any
}

// F is shorthand for a Field literal.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Record is one row of named values. Keys keep their insertion order, which
// is the order they are offered to the column resolver.
type Record struct {
	fields *orderedmap.OrderedMap[string, any]
}

// NewRecord creates a record holding the given fields in order. A repeated
// key keeps its first position and takes the last value.
func NewRecord(fields ...Field) *Record {
	r := &Record{fields: orderedmap.New[string, any]()}
	for _, f := range fields {
		r.fields.Set(f.Key, f.Value)
	}
	return r
}

// Set adds or replaces a value. New keys are appended after existing ones.
func (r *Record) Set(key string, value any) *Record {
	r.init()
	r.fields.Set(key, value)
	return r
}

// Get returns the value stored under key and whether the key is present.
// A present key may hold a nil value.
func (r *Record) Get(key string) (any, bool) {
	if r == nil || r.fields == nil {
		return nil, false
	}
	return r.fields.Get(key)
}

// Has reports whether key is present.
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Keys returns the record keys in insertion order.
func (r *Record) Keys() []string {
	if r == nil || r.fields == nil {
		return nil
	}
	keys := make([]string, 0, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of keys.
func (r *Record) Len() int {
	if r == nil || r.fields == nil {
		return 0
	}
	return r.fields.Len()
}

// MarshalJSON encodes the record as a JSON object with keys in order.
func (r *Record) MarshalJSON() ([]byte, error) {
	r.init()
	return json.Marshal(r.fields)
}

// UnmarshalJSON decodes a JSON object keeping the order of its keys.
func (r *Record) UnmarshalJSON(data []byte) error {
	fields := orderedmap.New[string, any]()
	if err := json.Unmarshal(data, fields); err != nil {
		return err
	}
	r.fields = fields
	return nil
}

func (r *Record) init() {
	if r.fields == nil {
		r.fields = orderedmap.New[string, any]()
	}
}
