package emitter

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/llm-d/pll-table-generator/pkg/core"
)

// Document is the YAML rendering of a table.
type Document struct {
	Entries   int        `yaml:"entries"`
	SizeBytes int        `yaml:"sizeBytes"`
	Table     core.Table `yaml:"table"`
}

type yamlEncoder struct{}

func (yamlEncoder) Encode(w io.Writer, table core.Table) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Document{
		Entries:   len(table),
		SizeBytes: table.SizeBytes(),
		Table:     table,
	}); err != nil {
		return err
	}
	return enc.Close()
}
