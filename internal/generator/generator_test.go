package generator

import (
	"bytes"
	"context"
	"strings"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"

	"github.com/llm-d/pll-table-generator/internal/config"
	"github.com/llm-d/pll-table-generator/internal/emitter"
	"github.com/llm-d/pll-table-generator/internal/logging"
	"github.com/llm-d/pll-table-generator/internal/metrics"
	"github.com/llm-d/pll-table-generator/pkg/core"
)

var _ = Describe("Generator", func() {
	var (
		fs  afero.Fs
		ctx context.Context
	)

	newGenerator := func(params core.Params, path string, recorder *metrics.Recorder) *Generator {
		e, err := emitter.NewEmitter(fs, path, emitter.FormatCHeader, emitter.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		g, err := New(params, e, recorder)
		Expect(err).NotTo(HaveOccurred())
		return g
	}

	standard := func() core.Params {
		p := config.DefaultProfile()
		return p.Params()
	}

	BeforeEach(func() {
		fs = afero.NewMemMapFs()
		ctx = logr.NewContext(context.Background(), GinkgoLogr)
	})

	Context("with the standard profile", func() {
		var (
			result   *Result
			recorder *metrics.Recorder
		)

		BeforeEach(func() {
			recorder = metrics.NewRecorder(config.StandardProfileName)
			var err error
			result, err = newGenerator(standard(), "/out/pll_table.h", recorder).Run(ctx)
			Expect(err).NotTo(HaveOccurred())
		})

		It("accounts for every candidate", func() {
			Expect(result.Fractions).To(Equal(2 * 28 * 80))
			Expect(result.Candidates).To(Equal(result.Entries + len(result.Unreachable)))
			Expect(result.Entries).To(Equal(len(result.Table)))
			Expect(result.Unreachable).NotTo(BeEmpty())
			Expect(result.Evictions).To(BeNumerically(">", 0))
		})

		It("produces a verified table", func() {
			Expect(result.Table.Validate(standard())).To(Succeed())
			for _, e := range result.Table {
				Expect(e.Dividers.RefDiv).To(Equal(2))
			}
		})

		It("serves firmware lookups", func() {
			e, ok := result.Table.Lookup(500)
			Expect(ok).To(BeTrue())
			Expect(e.Dividers).To(Equal(core.DividerSet{FeedbackDiv: 160, RefDiv: 2, PostDiv1: 2, PostDiv2: 2}))
			Expect(e.VCOFreq).To(Equal(2000.0))

			e, ok = result.Table.Lookup(700)
			Expect(ok).To(BeTrue())
			Expect(e.Dividers).To(Equal(core.DividerSet{FeedbackDiv: 168, RefDiv: 2, PostDiv1: 3, PostDiv2: 1}))

			_, ok = result.Table.Lookup(1)
			Expect(ok).To(BeFalse())
		})

		It("omits frequencies that need too fast a VCO", func() {
			unreachable := core.NewFraction(163, 7)
			for _, e := range result.Table {
				Expect(core.NewFraction(e.Dividers.FeedbackDiv, e.Dividers.Divisor())).NotTo(Equal(unreachable))
			}
			Expect(result.Unreachable).To(ContainElement(HaveField("Fraction", unreachable)))
		})

		It("writes the C header", func() {
			raw, err := afero.ReadFile(fs, "/out/pll_table.h")
			Expect(err).NotTo(HaveOccurred())
			header := string(raw)
			Expect(header).To(HavePrefix("#ifndef PLL_TABLE_H\n"))
			Expect(header).To(ContainSubstring("#define PLL_TABLE_SIZE %d\n", result.Entries))
			Expect(header).To(ContainSubstring("    {500.000000f, 160, 2, 2, 2}, /* vcoFreq: 2000 */\n"))
			Expect(header).To(HaveSuffix("};\n\n#endif // PLL_TABLE_H\n"))
		})

		It("records run metrics", func() {
			Expect(testutil.ToFloat64(recorder.FractionsEnumerated)).To(Equal(float64(result.Fractions)))
			Expect(testutil.ToFloat64(recorder.CandidateFrequencies)).To(Equal(float64(result.Candidates)))
			Expect(testutil.ToFloat64(recorder.Evictions)).To(Equal(float64(result.Evictions)))
			Expect(testutil.ToFloat64(recorder.Unreachable)).To(Equal(float64(len(result.Unreachable))))
			Expect(testutil.ToFloat64(recorder.TableEntries)).To(Equal(float64(result.Entries)))
			Expect(testutil.ToFloat64(recorder.TableSizeBytes)).To(Equal(float64(result.Entries * core.EntrySizeBytes)))
		})
	})

	It("is byte-for-byte reproducible", func() {
		_, err := newGenerator(standard(), "/a/pll_table.h", nil).Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		_, err = newGenerator(standard(), "/b/pll_table.h", nil).Run(ctx)
		Expect(err).NotTo(HaveOccurred())

		a, err := afero.ReadFile(fs, "/a/pll_table.h")
		Expect(err).NotTo(HaveOccurred())
		b, err := afero.ReadFile(fs, "/b/pll_table.h")
		Expect(err).NotTo(HaveOccurred())
		Expect(bytes.Equal(a, b)).To(BeTrue())
	})

	It("reaches more frequencies with the extended profile", func() {
		std, err := newGenerator(standard(), "/std.h", nil).Run(ctx)
		Expect(err).NotTo(HaveOccurred())

		profiles := config.BuiltinProfiles()
		extended, err := profiles.GetProfile(config.ExtendedProfileName)
		Expect(err).NotTo(HaveOccurred())
		ext, err := newGenerator(extended.Params(), "/ext.h", nil).Run(ctx)
		Expect(err).NotTo(HaveOccurred())

		Expect(ext.Candidates).To(Equal(std.Candidates))
		Expect(ext.Entries).To(BeNumerically(">", std.Entries))

		f := core.NewFraction(163, 7)
		e, ok := ext.Table.Lookup(float32(f.Value(25)))
		Expect(ok).To(BeTrue())
		Expect(e.Dividers).To(Equal(core.DividerSet{FeedbackDiv: 163, RefDiv: 1, PostDiv1: 7, PostDiv2: 1}))
	})

	It("logs evictions at debug verbosity", func() {
		var buf bytes.Buffer
		logger, err := logging.NewLogger(logging.Options{Verbosity: logging.DEBUG, Writer: &buf})
		Expect(err).NotTo(HaveOccurred())

		_, err = newGenerator(standard(), "/pll_table.h", nil).Run(logging.IntoContext(context.Background(), logger))
		Expect(err).NotTo(HaveOccurred())

		out := buf.String()
		Expect(out).To(ContainSubstring("Found "))
		Expect(out).To(ContainSubstring(" unique frequencies"))
		Expect(out).To(ContainSubstring(
			"Evicting entry 700.000000 MHz: fb=224, refdiv=2, postdiv1=2, postdiv2=2, vcoFreq=2800.000000 MHz"))
		Expect(out).To(MatchRegexp(`Generated /pll_table\.h with \d+ entries \(\d+\.\d{2} KB\)`))
	})

	It("logs every selection at trace verbosity", func() {
		var buf bytes.Buffer
		logger, err := logging.NewLogger(logging.Options{Verbosity: logging.TRACE, Format: logging.FormatJSON, Writer: &buf})
		Expect(err).NotTo(HaveOccurred())

		result, err := newGenerator(standard(), "/pll_table.h", nil).Run(logging.IntoContext(context.Background(), logger))
		Expect(err).NotTo(HaveOccurred())
		Expect(strings.Count(buf.String(), `"msg":"Selected dividers"`)).To(Equal(result.Entries))
	})

	It("keeps eviction lines out of info output", func() {
		var buf bytes.Buffer
		logger, err := logging.NewLogger(logging.Options{Verbosity: logging.INFO, Writer: &buf})
		Expect(err).NotTo(HaveOccurred())

		_, err = newGenerator(standard(), "/pll_table.h", nil).Run(logging.IntoContext(context.Background(), logger))
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).NotTo(ContainSubstring("Evicting entry"))
		Expect(buf.String()).To(ContainSubstring("Generated /pll_table.h"))
	})

	It("rejects degenerate params", func() {
		p := standard()
		p.RefDivValues = nil
		e, err := emitter.NewEmitter(fs, "/pll_table.h", emitter.FormatCHeader, emitter.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		_, err = New(p, e, nil)
		Expect(err).To(MatchError(core.ErrEmptyParameterSpace))

		_, err = New(standard(), nil, nil)
		Expect(err).To(HaveOccurred())
	})

	It("writes nothing when no frequency is reachable", func() {
		p := standard()
		p.VCOMax = 100
		_, err := newGenerator(p, "/pll_table.h", nil).Run(ctx)
		Expect(err).To(MatchError(emitter.ErrEmptyTable))

		exists, err := afero.Exists(fs, "/pll_table.h")
		Expect(err).NotTo(HaveOccurred())
		Expect(exists).To(BeFalse())
	})

	It("writes nothing when the destination is read-only", func() {
		fs = afero.NewReadOnlyFs(afero.NewMemMapFs())
		_, err := newGenerator(standard(), "/pll_table.h", nil).Run(ctx)
		Expect(err).To(HaveOccurred())

		exists, _ := afero.Exists(fs, "/pll_table.h")
		Expect(exists).To(BeFalse())
	})
})
