// Package emitter serializes a finished frequency table into the artifacts
// consumed by firmware and tooling.
package emitter

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"

	"github.com/spf13/afero"

	"github.com/llm-d/pll-table-generator/internal/utils/atomicfile"
	"github.com/llm-d/pll-table-generator/pkg/core"
)

// ErrEmptyTable is returned when asked to emit a table without entries.
var ErrEmptyTable = errors.New("refusing to emit an empty table")

// Format is an enumeration of the supported output formats.
type Format string

// enumeration of Format
const (
	FormatCHeader Format = "c-header"
	FormatYAML    Format = "yaml"
)

// ParseFormat converts a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatCHeader, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want %q or %q)", s, FormatCHeader, FormatYAML)
	}
}

// Options names the symbols of the generated C header.
type Options struct {
	HeaderGuard string
	SizeMacro   string
	TypeName    string
	TableName   string
}

// DefaultOptions returns the symbol names firmware expects.
func DefaultOptions() Options {
	return Options{
		HeaderGuard: "PLL_TABLE_H",
		SizeMacro:   "PLL_TABLE_SIZE",
		TypeName:    "pll_entry_t",
		TableName:   "pll_table",
	}
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks that every symbol is a valid C identifier.
func (o Options) Validate() error {
	for _, sym := range []struct{ field, value string }{
		{"header guard", o.HeaderGuard},
		{"size macro", o.SizeMacro},
		{"type name", o.TypeName},
		{"table name", o.TableName},
	} {
		if !identifier.MatchString(sym.value) {
			return fmt.Errorf("invalid %s %q: not a C identifier", sym.field, sym.value)
		}
	}
	return nil
}

// Encoder renders a sorted table to w.
type Encoder interface {
	Encode(w io.Writer, table core.Table) error
}

// NewEncoder is a factory that creates the Encoder for format.
func NewEncoder(format Format, opts Options) (Encoder, error) {
	switch format {
	case FormatCHeader:
		if err := opts.Validate(); err != nil {
			return nil, err
		}
		return &cHeaderEncoder{opts: opts}, nil
	case FormatYAML:
		return &yamlEncoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %q", format)
	}
}

// Emitter writes tables to a single destination path.
type Emitter struct {
	fs      afero.Fs
	path    string
	encoder Encoder
}

// NewEmitter creates an Emitter writing format to path through fs.
func NewEmitter(fs afero.Fs, path string, format Format, opts Options) (*Emitter, error) {
	if path == "" {
		return nil, errors.New("output path must not be empty")
	}
	enc, err := NewEncoder(format, opts)
	if err != nil {
		return nil, err
	}
	return &Emitter{fs: fs, path: path, encoder: enc}, nil
}

// Path returns the destination of the emitted artifact.
func (e *Emitter) Path() string {
	return e.path
}

// Emit sorts a copy of table by frequency and atomically replaces the
// destination with its rendering.
func (e *Emitter) Emit(table core.Table) error {
	if len(table) == 0 {
		return ErrEmptyTable
	}
	sorted := slices.Clone(table)
	sorted.Sort()
	return atomicfile.WriteFile(e.fs, e.path, 0o644, func(w io.Writer) error {
		return e.encoder.Encode(w, sorted)
	})
}
