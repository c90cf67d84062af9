package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/ultimate-research/eff-lib/internal/logger"
	"github.com/ultimate-research/eff-lib/pkg/effdata"
)

// convert dispatches on the input extension: .json inputs are encoded
// back to a binary container, everything else is decoded to JSON.
func convert(log logger.Logger, input, output, resource string) error {
	if strings.EqualFold(filepath.Ext(input), ".json") {
		return convertToBinary(log, input, output, resource)
	}
	return convertToJSON(log, input, output, resource)
}

// convertToJSON decodes a binary container, writes the interchange JSON
// and drops the resource payload into a sibling file.
func convertToJSON(log logger.Logger, input, output, resource string) error {
	output, resource = textOutputPaths(input, output, resource)

	data, err := effdata.Open(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	log.Info("wrote JSON", "path", output, "handles", len(data.Handles))

	if data.ResourceData == nil {
		log.Debug("container has no resource payload")
		return nil
	}
	if err := data.WriteResourceFile(resource); err != nil {
		return fmt.Errorf("write %s: %w", resource, err)
	}
	log.Info("wrote resource payload", "path", resource, "bytes", len(data.ResourceData))
	return nil
}

// convertToBinary encodes interchange JSON back into a container,
// picking up the resource payload from its sibling file. A missing
// sibling simply means the container is written without a payload.
func convertToBinary(log logger.Logger, input, output, resource string) error {
	output, resource = binaryOutputPaths(input, output, resource)

	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	var data effdata.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}

	blob, err := os.ReadFile(resource)
	switch {
	case err == nil:
		data.ResourceData = blob
		log.Info("attached resource payload", "path", resource, "bytes", len(blob))
	case errors.Is(err, os.ErrNotExist):
		log.Warn("resource file not found, writing container without payload", "path", resource)
	default:
		return fmt.Errorf("read %s: %w", resource, err)
	}

	if err := data.WriteFile(output); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	log.Info("wrote container", "path", output, "handles", len(data.Handles))
	return nil
}
