package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/markovangelo/internal/markov"
	"github.com/jmylchreest/markovangelo/internal/remix"
	"github.com/jmylchreest/markovangelo/internal/seed"
)

const defaultTop = 10

type inspectOptions struct {
	sourceOptions

	format string
	top    int
}

func newInspectCmd(g *globalOptions) *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect [flags] <source>...",
		Short: "Show statistics for the model trained on the sources",
		Long: `Train the same model remix would and report on it without painting an image:
how many contexts it holds, how many successors each context has, how
predictable the next colour is, and which colours dominate.

Sources are quantised with a content-derived seed, so the report is stable
for the same inputs.

Examples:
  markovangelo inspect photo.jpg
  markovangelo inspect -n 3 -c 16 -f json ./wallpapers`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			switch opts.format {
			case "text", "json":
			default:
				return fmt.Errorf("invalid format: %s (valid: text, json)", opts.format)
			}
			if opts.top < 0 {
				return fmt.Errorf("--top must not be negative, got %d", opts.top)
			}

			loader, err := opts.loader()
			if err != nil {
				return err
			}
			paths, images, err := loadSources(cmd.Context(), loader, args, g.logger)
			if err != nil {
				return err
			}
			seedValue, err := seed.CalculateContentSeed(images...)
			if err != nil {
				return fmt.Errorf("failed to calculate seed: %w", err)
			}
			grids, err := quantizeSources(images, opts.quantizer(seedValue), g.logger)
			if err != nil {
				return err
			}

			model, err := remix.Train(grids, opts.ngramSize, opts.legacyBoundary)
			if err != nil {
				return err
			}
			st := model.Stats(opts.top)

			if opts.format == "json" {
				return writeStatsJSON(cmd.OutOrStdout(), st, paths)
			}
			writeStatsText(cmd.OutOrStdout(), st, paths)
			return nil
		},
	}

	opts.sourceOptions.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format (text, json)")
	cmd.Flags().IntVarP(&opts.top, "top", "t", defaultTop, "number of most frequent colours to list")

	return cmd
}

// tokenHex renders a token the way go-colorful formats colours.
func tokenHex(t markov.Token) string {
	r, g, b := t.RGB()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hex()
}

func share(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}

func writeStatsText(w io.Writer, st markov.Stats, sources []string) {
	fmt.Fprintf(w, "Sources:          %d\n", len(sources))
	for _, s := range sources {
		fmt.Fprintf(w, "  %s\n", s)
	}
	fmt.Fprintf(w, "N-gram size:      %d\n", st.NgramSize)
	fmt.Fprintf(w, "Tokens:           %d\n", st.Tokens)
	fmt.Fprintf(w, "Contexts:         %d\n", st.Contexts)
	fmt.Fprintf(w, "Distinct colours: %d\n", st.DistinctTokens)
	fmt.Fprintf(w, "Fan-out:          mean %.2f, max %d\n", st.MeanFanOut, st.MaxFanOut)
	fmt.Fprintf(w, "Mean entropy:     %.3f bits\n", st.MeanEntropy)

	if len(st.Top) == 0 {
		return
	}
	fmt.Fprintln(w)

	table := NewTable([]string{"COLOUR", "COUNT", "SHARE"})
	table.SetAlignRight(1)
	table.SetAlignRight(2)
	for _, s := range st.Top {
		table.AddRow([]string{
			tokenHex(s.Token),
			strconv.Itoa(s.Count),
			fmt.Sprintf("%.2f%%", 100*share(s.Count, st.Tokens)),
		})
	}
	fmt.Fprint(w, table.Render())
}

type colourJSON struct {
	Hex   string  `json:"hex"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

type statsJSON struct {
	Sources        []string     `json:"sources"`
	NgramSize      int          `json:"ngram_size"`
	Tokens         int          `json:"tokens"`
	Contexts       int          `json:"contexts"`
	DistinctTokens int          `json:"distinct_colours"`
	MeanFanOut     float64      `json:"mean_fan_out"`
	MaxFanOut      int          `json:"max_fan_out"`
	MeanEntropy    float64      `json:"mean_entropy_bits"`
	Top            []colourJSON `json:"top"`
}

func writeStatsJSON(w io.Writer, st markov.Stats, sources []string) error {
	out := statsJSON{
		Sources:        sources,
		NgramSize:      st.NgramSize,
		Tokens:         st.Tokens,
		Contexts:       st.Contexts,
		DistinctTokens: st.DistinctTokens,
		MeanFanOut:     st.MeanFanOut,
		MaxFanOut:      st.MaxFanOut,
		MeanEntropy:    st.MeanEntropy,
		Top:            make([]colourJSON, 0, len(st.Top)),
	}
	for _, s := range st.Top {
		out.Top = append(out.Top, colourJSON{
			Hex:   tokenHex(s.Token),
			Count: s.Count,
			Share: share(s.Count, st.Tokens),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
