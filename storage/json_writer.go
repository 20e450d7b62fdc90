package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// JSONWriter emits the run's single JSON document to out, and to a file
// too when path is set.
type JSONWriter struct {
	out  io.Writer
	path string
}

func NewJSONWriter(out io.Writer, path string) *JSONWriter {
	if out == nil {
		out = os.Stdout
	}
	return &JSONWriter{out: out, path: path}
}

// Encode renders doc as one line of UTF-8 JSON without HTML escaping.
func Encode(doc interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return buf.Bytes(), nil
}

// Write always tries out first; the file copy is best effort and its error
// is returned after the document has been written.
func (w *JSONWriter) Write(doc interface{}) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}

	if _, err := w.out.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if w.path == "" {
		return nil
	}

	// Create output directory if needed (e.g. "output/" folder)
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("could not create output dir: %w", err)
	}
	if err := os.WriteFile(w.path, data, 0644); err != nil {
		return fmt.Errorf("could not write %s: %w", w.path, err)
	}
	return nil
}
