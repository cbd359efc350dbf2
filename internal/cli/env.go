package cli

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// Environment variables that supply flag defaults.
const (
	EnvNgramSize = "MARKOVANGELO_NGRAM_SIZE"
	EnvOutputDir = "MARKOVANGELO_OUTPUT_DIR"
	EnvColours   = "MARKOVANGELO_COLOURS"
	EnvAlgorithm = "MARKOVANGELO_ALGORITHM"
)

// envFlags maps each environment variable to the flag whose default it replaces.
var envFlags = []struct {
	env  string
	flag string
}{
	{EnvNgramSize, "ngram-size"},
	{EnvOutputDir, "output-dir"},
	{EnvColours, "colours"},
	{EnvAlgorithm, "algorithm"},
}

var lookupEnv = os.LookupEnv

// applyEnvDefaults copies environment values into flags the user did not set
// explicitly. Values go through the flag's own parser, so a malformed number
// is reported against the variable that carried it.
func applyEnvDefaults(flags *pflag.FlagSet, lookup func(string) (string, bool)) error {
	for _, ef := range envFlags {
		f := flags.Lookup(ef.flag)
		if f == nil || f.Changed {
			continue
		}
		value, ok := lookup(ef.env)
		if !ok || value == "" {
			continue
		}
		if err := f.Value.Set(value); err != nil {
			return fmt.Errorf("invalid %s=%q: %w", ef.env, value, err)
		}
	}
	return nil
}
