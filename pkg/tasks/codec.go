package tasks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Document is the wrapped JSON form of a task list: {"tasks": [...]}.
type Document struct {
	Tasks []Task `json:"tasks" toml:"tasks"`
}

// DecodeJSON reads a task list from r. Both a bare JSON array and a
// [Document] object are accepted.
func DecodeJSON(r io.Reader) ([]Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("decode: empty input")
	}

	if data[0] == '[' {
		var ts []Task
		if err := json.Unmarshal(data, &ts); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		return ts, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc.Tasks, nil
}

// MarshalJSON encodes ts as an indented [Document].
func MarshalJSON(ts []Task) ([]byte, error) {
	if ts == nil {
		ts = []Task{}
	}
	return json.MarshalIndent(Document{Tasks: ts}, "", "  ")
}
