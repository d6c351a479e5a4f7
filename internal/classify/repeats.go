package classify

import "strings"

// IsHomopolymer reports runs of one base such as AAA or CCCC (length >= 3)
func IsHomopolymer(seq string) bool {
	if len(seq) < 3 {
		return false
	}
	for i := 1; i < len(seq); i++ {
		if seq[i] != seq[0] {
			return false
		}
	}
	return true
}

// IsDinucleotideRepeat reports sequences such as ACAC or GTGTG: the first two
// bases repeated to the full length, with one trailing partial unit allowed.
func IsDinucleotideRepeat(seq string) bool {
	if len(seq) < 4 {
		return false
	}
	unit := seq[:2]
	expected := strings.Repeat(unit, len(seq)/2) + unit[:len(seq)%2]
	return seq == expected
}

// LooksLikeSTRArtifact flags a call when the reference or any alternate allele
// is a homopolymer or dinucleotide repeat. It looks at allele text only, not at
// the surrounding genome, so it is a crude stand-in for a tandem repeat filter.
func LooksLikeSTRArtifact(ref, alt string) bool {
	alleles := append([]string{ref}, strings.Split(alt, ",")...)
	for _, allele := range alleles {
		allele = strings.ToUpper(allele)
		if IsHomopolymer(allele) || IsDinucleotideRepeat(allele) {
			return true
		}
	}
	return false
}
