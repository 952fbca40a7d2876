package diagram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Description Serialization API
// =============================================================================

// Marshal converts a Description to pretty-printed JSON bytes.
func Marshal(d Description) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes JSON bytes to a Description and validates it.
func Unmarshal(data []byte) (Description, error) {
	return readFrom(bytes.NewReader(data))
}

// Write writes a Description as JSON to an io.Writer.
func Write(d Description, w io.Writer) error {
	return writeTo(d, w)
}

// Read decodes a JSON description from an io.Reader and validates it.
// Use ReadFile for files or pass bytes.NewReader for in-memory data.
func Read(r io.Reader) (Description, error) {
	return readFrom(r)
}

// WriteFile writes a Description to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(d Description, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(d, f)
}

// ReadFile reads a JSON file and returns the decoded Description.
// Returns validation errors for malformed descriptions or referential
// integrity violations.
func ReadFile(path string) (Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return Description{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readFrom(f)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTo(d Description, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readFrom(r io.Reader) (Description, error) {
	var d Description
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Description{}, fmt.Errorf("decode: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Description{}, err
	}
	return d, nil
}
