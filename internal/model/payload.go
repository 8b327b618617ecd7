package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PayloadKind tags the variant held by a Payload.
type PayloadKind string

const (
	// PayloadText holds a JSON string verbatim, e.g. a data URL.
	PayloadText PayloadKind = "text"
	// PayloadJSON holds any other JSON value as compact JSON text.
	PayloadJSON PayloadKind = "json"
)

// Payload is the embedded file content of a DocumentRef. Clients send an
// arbitrary JSON value; the variant keeps it round-trippable through JSON,
// BSON and SQL.
type Payload struct {
	Kind  PayloadKind `bson:"kind"`
	Value string      `bson:"value"`
}

// TextPayload wraps a string value.
func TextPayload(s string) Payload {
	return Payload{Kind: PayloadText, Value: s}
}

// IsZero reports whether no payload was supplied.
func (p Payload) IsZero() bool {
	return p.Kind == ""
}

func (p Payload) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case "":
		return []byte("null"), nil
	case PayloadText:
		return json.Marshal(p.Value)
	case PayloadJSON:
		if !json.Valid([]byte(p.Value)) {
			return nil, fmt.Errorf("payload holds invalid json")
		}
		return []byte(p.Value), nil
	default:
		return nil, fmt.Errorf("unknown payload kind %q", p.Kind)
	}
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = Payload{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = TextPayload(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*p = Payload{Kind: PayloadJSON, Value: buf.String()}
	return nil
}
