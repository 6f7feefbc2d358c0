package emitter

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/llm-d/pll-table-generator/pkg/core"
)

type cHeaderEncoder struct {
	opts Options
}

// Encode writes a self-contained C header declaring the table as a const array.
// Each record carries its VCO frequency as a trailing comment.
func (c *cHeaderEncoder) Encode(w io.Writer, table core.Table) error {
	o := c.opts
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "#ifndef %s\n#define %s\n\n", o.HeaderGuard, o.HeaderGuard)
	buf.WriteString("#include <stdint.h>\n\n")
	fmt.Fprintf(&buf, "#define %s %d\n\n", o.SizeMacro, len(table))
	buf.WriteString("typedef struct {\n")
	buf.WriteString("    float freq;\n")
	buf.WriteString("    uint8_t fb_divider;\n")
	buf.WriteString("    uint8_t refdiv;\n")
	buf.WriteString("    uint8_t postdiv1;\n")
	buf.WriteString("    uint8_t postdiv2;\n")
	fmt.Fprintf(&buf, "} %s;\n\n", o.TypeName)

	fmt.Fprintf(&buf, "const %s %s[%s] = {\n", o.TypeName, o.TableName, o.SizeMacro)
	for i, e := range table {
		comma := ","
		if i == len(table)-1 {
			comma = ""
		}
		d := e.Dividers
		fmt.Fprintf(&buf, "    {%sf, %d, %d, %d, %d}%s /* vcoFreq: %s */\n",
			strconv.FormatFloat(e.Freq, 'f', 6, 64),
			d.FeedbackDiv, d.RefDiv, d.PostDiv1, d.PostDiv2,
			comma,
			strconv.FormatFloat(e.VCOFreq, 'f', -1, 64))
	}
	buf.WriteString("};\n\n")
	fmt.Fprintf(&buf, "#endif // %s\n", o.HeaderGuard)

	_, err := buf.WriteTo(w)
	return err
}
