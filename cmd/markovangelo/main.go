// markovangelo - Markov chain image remixer
//
// markovangelo learns the colour adjacency of source images with an n-gram
// Markov chain and paints new images from it.
package main

import (
	"os"

	"github.com/jmylchreest/markovangelo/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
