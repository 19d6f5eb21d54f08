package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// readInput reads the named file, or stdin when name is empty or "-".
func readInput(in io.Reader, name string) ([]byte, error) {
	if name == "" || name == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
