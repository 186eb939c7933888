package helpers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

const maxLineSize = 4 * 1024 * 1024

// ReadJSONL decodes one T per non-blank line of filePath.
func ReadJSONL[T any](filePath string) ([]T, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close() //nolint:errcheck

	return DecodeJSONL[T](file)
}

// DecodeJSONL decodes one T per non-blank line of r.
func DecodeJSONL[T any](r io.Reader) ([]T, error) {
	var results []T
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var item T
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal line %d", lineNo)
		}
		results = append(results, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scanner error")
	}

	return results, nil
}

// ReadJSONOrJSONL accepts either a top-level JSON array of T or JSONL.
func ReadJSONOrJSONL[T any](filePath string) ([]T, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var results []T
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal json array")
		}
		return results, nil
	}

	return DecodeJSONL[T](bytes.NewReader(trimmed))
}
