package sequence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeJSON reads one sequence document.
func DecodeJSON(data []byte) (*Sequence, error) {
	var q Sequence
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&q); err != nil {
		return nil, fmt.Errorf("decode sequence: %w", err)
	}
	return &q, nil
}

// DecodeYAML reads one sequence document written in YAML. The document is
// converted to JSON first so puzzle variants are decoded by one codec.
func DecodeYAML(data []byte) (*Sequence, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert yaml: %w", err)
	}
	return DecodeJSON(raw)
}

// DecodeFile reads a sequence from path, choosing the decoder by extension.
func DecodeFile(path string) (*Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return DecodeJSON(data)
	}
}

// DecodeDocuments reads either one sequence or a library array of them.
// The format is picked from the extension of name.
func DecodeDocuments(name string, data []byte) ([]*Sequence, error) {
	raw := data
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("convert yaml: %w", err)
		}
		raw = converted
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		q, err := DecodeJSON(trimmed)
		if err != nil {
			return nil, err
		}
		return []*Sequence{q}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("decode library: %w", err)
	}
	out := make([]*Sequence, 0, len(items))
	for i, item := range items {
		q, err := DecodeJSON(item)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, q)
	}
	return out, nil
}
