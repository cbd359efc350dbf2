package markov

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Stats summarises a Model.
type Stats struct {
	NgramSize      int         `json:"ngram_size"`
	Sources        int         `json:"sources"`
	Tokens         int         `json:"tokens"`
	Contexts       int         `json:"contexts"`
	DistinctTokens int         `json:"distinct_tokens"`
	MeanFanOut     float64     `json:"mean_fan_out"`
	MaxFanOut      int         `json:"max_fan_out"`
	MeanEntropy    float64     `json:"mean_entropy_bits"`
	Top            []Successor `json:"top"`
}

// Stats computes summary statistics for the model, listing up to top of the
// most frequent tokens.
//
// MeanEntropy is the successor entropy in bits averaged over contexts, each
// context weighted by how often it was visited during training.
func (m *Model) Stats(top int) Stats {
	st := Stats{
		NgramSize: m.n,
		Sources:   m.sources,
		Tokens:    m.tokens,
		Contexts:  len(m.table),
	}
	if len(m.table) == 0 {
		return st
	}

	fanOut := make([]float64, 0, len(m.table))
	entropy := make([]float64, 0, len(m.table))
	weights := make([]float64, 0, len(m.table))
	freq := make(map[Token]int)

	// Sorted contexts keep the float sums in a fixed order.
	for _, c := range m.Contexts() {
		succ := m.table[string(c)]
		p := make([]float64, len(succ.counts))
		for i, c := range succ.counts {
			p[i] = float64(c) / float64(succ.total)
			freq[succ.tokens[i]] += c
		}
		fanOut = append(fanOut, float64(len(succ.tokens)))
		entropy = append(entropy, stat.Entropy(p)/math.Ln2)
		weights = append(weights, float64(succ.total))
		st.MaxFanOut = max(st.MaxFanOut, len(succ.tokens))
	}

	st.MeanFanOut = stat.Mean(fanOut, nil)
	st.MeanEntropy = stat.Mean(entropy, weights)
	st.DistinctTokens = len(freq)

	all := make([]Successor, 0, len(freq))
	for t, c := range freq {
		all = append(all, Successor{Token: t, Count: c})
	}
	slices.SortFunc(all, func(a, b Successor) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Token, b.Token)
	})
	if top >= 0 && top < len(all) {
		all = all[:top]
	}
	st.Top = all
	return st
}
