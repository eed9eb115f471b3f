package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeCollection parses a data document. An empty document decodes to an empty collection.
func DecodeCollection(data []byte) (Collection, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Collection{}, nil
	}

	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode data document: %w", err)
	}
	if c == nil {
		c = Collection{}
	}
	return c, nil
}

// EncodeCollection renders c as a data document.
func EncodeCollection(c Collection) ([]byte, error) {
	if c == nil {
		c = Collection{}
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode data document: %w", err)
	}
	return data, nil
}
