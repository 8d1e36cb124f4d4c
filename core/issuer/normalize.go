package issuer

import "strings"

// Normalization lists the literal decorations stripped from a requested
// domain before it is used as the CSR common name and order domain.
// It is not URL parsing: only the exact strings listed are removed.
type Normalization struct {
	Schemes      []string
	PortSuffixes []string
}

// DefaultNormalization strips an "https://" scheme and the ":3001" port suffix.
var DefaultNormalization = Normalization{
	Schemes:      []string{"https://"},
	PortSuffixes: []string{":3001"},
}

// NormalizeDomain removes the first matching scheme prefix and the first
// matching port suffix from input.
func NormalizeDomain(input string, n Normalization) string {
	d := strings.TrimSpace(input)
	for _, s := range n.Schemes {
		if s == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(d, s); ok {
			d = rest
			break
		}
	}
	for _, p := range n.PortSuffixes {
		if p == "" {
			continue
		}
		if rest, ok := strings.CutSuffix(d, p); ok {
			d = rest
			break
		}
	}
	return d
}
