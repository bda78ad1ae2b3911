package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/wonny/allocator/internal/contracts"
)

// loadRequest reads a portfolio request from path, or from stdin when path is "-".
func loadRequest(path string, stdin io.Reader) (*contracts.PortfolioRequest, error) {
	if path == "" {
		return nil, fmt.Errorf("--input is required")
	}
	if path == "-" {
		return contracts.DecodeRequest(stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	return contracts.DecodeRequest(f)
}

// writeJSON writes v as indented JSON to path, or to stdout when path is "" or "-".
func writeJSON(path string, stdout io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	data = append(data, '\n')

	if path == "" || path == "-" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
