package cli

import (
	"fmt"
	"os"
	"sort"
)

// artifactWriteParams groups the inputs of writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes each rendered format to disk in request order.
// An output of "-" sends a single artifact to stdout.
func writeArtifacts(p artifactWriteParams) error {
	if len(p.artifacts) == 0 {
		return nil
	}
	formats := p.formats
	if len(formats) == 0 {
		for f := range p.artifacts {
			formats = append(formats, f)
		}
		sort.Strings(formats)
	}

	if p.output == "-" {
		if len(formats) != 1 {
			return fmt.Errorf("stdout output requires exactly one format, got %d", len(formats))
		}
		_, err := os.Stdout.Write(p.artifacts[formats[0]])
		return err
	}

	for _, format := range formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := outputPath(p.output, p.input, format, formats)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
