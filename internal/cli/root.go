// Package cli provides the command-line interface for markovangelo.
package cli

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/markovangelo/internal/version"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	verbose bool
	quiet   bool
	logger  hclog.Logger
}

// NewRootCmd builds the markovangelo command tree.
func NewRootCmd() *cobra.Command {
	g := &globalOptions{logger: hclog.NewNullLogger()}

	rootCmd := &cobra.Command{
		Use:   "markovangelo",
		Short: "Remix images with Markov chains",
		Long: `markovangelo learns how colours sit next to each other in one or more
source images and paints a new image from that model.

Each pixel's colour is recorded next to each of its six neighbours, an
n-gram Markov chain is trained on the resulting colour stream, and the
sampled colours are laid out in brightness order around a focal point.`,
		Version:      version.Short(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			g.logger = newLogger(cmd.ErrOrStderr(), g.verbose, g.quiet)
			return applyEnvDefaults(cmd.Flags(), lookupEnv)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&g.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newRemixCmd(g))
	rootCmd.AddCommand(newInspectCmd(g))

	return rootCmd
}

// newLogger builds the logger shared by all commands. Verbose lowers the level
// to debug and quiet raises it to errors only.
func newLogger(w io.Writer, verbose, quiet bool) hclog.Logger {
	level := hclog.Info
	switch {
	case verbose:
		level = hclog.Debug
	case quiet:
		level = hclog.Error
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "markovangelo",
		Output: w,
		Level:  level,
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
