package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Report Serialization API
// =============================================================================

// MarshalReport converts a report to indented JSON bytes.
func MarshalReport(r Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeReportTo(r, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport writes a report as JSON to an io.Writer.
func WriteReport(r Report, w io.Writer) error {
	return writeReportTo(r, w)
}

// WriteReportFile writes a report to a JSON file.
func WriteReportFile(r Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeReportTo(r, f)
}

// ReadReport decodes a JSON report from an io.Reader.
func ReadReport(r io.Reader) (Report, error) {
	var rep Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return Report{}, fmt.Errorf("decode: %w", err)
	}
	return rep, nil
}

// ReadReportFile reads a JSON report file.
func ReadReportFile(path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadReport(f)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeReportTo(r Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
