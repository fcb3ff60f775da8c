package restclient

import (
	"bytes"
	"encoding/json"
)

// Param is a single query parameter.
type Param struct {
	Key   string `json:"key" yaml:"key" toml:"key"`
	Value string `json:"value" yaml:"value" toml:"value"`
}

// Filter is an ordered set of query parameters. Declaration order is the
// order they appear in the query string.
type Filter []Param

// MarshalJSON renders the filter as a JSON object, keys in declaration order.
func (f Filter) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RequestOptions carries the per-call request inputs. ID becomes an extra
// path segment, Filter becomes the query string, and Extra fields go into
// the body of write requests. Write requests serialize the whole value,
// ID and Filter included when set, so a body payload can carry both
// alongside their path/query use.
type RequestOptions struct {
	ID     string
	Filter Filter
	Extra  map[string]any
}

// MarshalJSON flattens Extra to the top level and folds in id/filter when present.
func (o RequestOptions) MarshalJSON() ([]byte, error) {
	merged := make(map[string]any, len(o.Extra)+2)
	for k, v := range o.Extra {
		merged[k] = v
	}
	if o.ID != "" {
		merged["id"] = o.ID
	}
	if len(o.Filter) > 0 {
		merged["filter"] = o.Filter
	}
	return json.Marshal(merged)
}
