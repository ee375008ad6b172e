// Package load reads logical model documents from YAML and validates their
// structure and referential integrity before they are compiled.
package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/lmgen"
	"github.com/syssam/lmgen/schema"
)

// Parse decodes a logical model document. Map order of the document is
// preserved. Only decoding errors are reported; use Validate to check the
// structure of the result.
func Parse(data []byte) (*schema.Model, error) {
	m := &schema.Model{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(m); err != nil {
		if errors.Is(err, io.EOF) {
			return m, nil
		}
		return nil, &lmgen.StructuralError{Path: "/", Message: "invalid YAML document", Cause: err}
	}
	return m, nil
}

// File reads and decodes the logical model stored at path.
func File(path string) (*schema.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: read %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, &Error{File: path, Errs: []error{err}}
	}
	return m, nil
}

// Load reads, decodes and validates the logical model stored at path.
// Validation findings are returned in the result; the error is non-nil
// when the file cannot be read or decoded.
func Load(path string) (*schema.Model, *Result, error) {
	m, err := File(path)
	if err != nil {
		return nil, nil, err
	}
	res := Validate(m)
	res.File = path
	return m, res, nil
}

// Files expands the given paths into the list of model files to process.
// Directories contribute their direct *.yaml and *.yml children in name
// order; regular files are kept as given. A file reached more than once is
// listed once.
func Files(paths ...string) ([]string, error) {
	var (
		files []string
		seen  = make(map[string]bool)
	)
	add := func(path string) {
		if key := filepath.Clean(path); !seen[key] {
			seen[key] = true
			files = append(files, path)
		}
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("load: read dir %s: %w", p, err)
		}
		for _, e := range entries {
			if !e.IsDir() && IsModelFile(e.Name()) {
				add(filepath.Join(p, e.Name()))
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("load: no model files found in %s", strings.Join(paths, ", "))
	}
	return files, nil
}

// IsModelFile reports if name has a YAML extension.
func IsModelFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Error is returned for a model file that failed to decode or validate.
type Error struct {
	File string
	Errs []error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("load: ")
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(": ")
	}
	switch len(e.Errs) {
	case 0:
		b.WriteString("invalid model")
	case 1:
		b.WriteString(Message(e.Errs[0]))
	default:
		fmt.Fprintf(&b, "%d errors:", len(e.Errs))
		for _, err := range e.Errs {
			b.WriteString("\n  ")
			b.WriteString(Message(err))
		}
	}
	return b.String()
}

// Unwrap returns the collected errors.
func (e *Error) Unwrap() []error {
	return e.Errs
}

// Message formats err the way the validation report prints it.
func Message(err error) string {
	var (
		se *lmgen.StructuralError
		re *lmgen.ReferentialError
	)
	switch {
	case errors.As(err, &re):
		return fmt.Sprintf("[Integrity] Broken Link in [%s]: relationship '%s' targets missing entity '%s'", re.Entity, re.Relationship, re.Target)
	case errors.As(err, &se):
		msg := se.Message
		if se.Cause != nil {
			msg += ": " + se.Cause.Error()
		}
		return fmt.Sprintf("[Schema] Path: %s | Message: %s", se.Path, msg)
	default:
		return err.Error()
	}
}
