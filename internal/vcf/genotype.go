package vcf

import (
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"
)

// Allele depth keys in lookup order. CLCAD2 is written by Qiagen CLC; AD is the
// standard VCF key.
var alleleDepthKeys = []string{"CLCAD2", "AD"}

// Genotype holds the sample sub-fields used for filtering
type Genotype struct {
	GT           null.String
	Depth        null.Int    // DP: total filtered read depth
	AlleleDepths null.String // Raw allele depth list: ref,alt1,alt2,...
	AltDepthMax  null.Int    // Highest alternate allele depth
	VAF          null.Float  // AltDepthMax / Depth
}

// DecodeGenotype pairs the colon-delimited FORMAT keys with the sample values.
// A sub-field that cannot be parsed leaves the whole result empty rather than
// failing the line.
func DecodeGenotype(format, sample string) Genotype {
	fields := zipFields(format, sample)

	var g Genotype
	if gt, ok := fields["GT"]; ok {
		g.GT = null.StringFrom(gt)
	}

	if dp, ok := fields["DP"]; ok && dp != "." {
		depth, err := strconv.ParseInt(dp, 10, 64)
		if err != nil {
			return Genotype{}
		}
		g.Depth = null.IntFrom(depth)
	}

	ad, ok := alleleDepths(fields)
	if !ok {
		return g
	}
	g.AlleleDepths = null.StringFrom(ad)
	if ad == "." {
		return g
	}

	altMax, ok, err := maxAltDepth(ad)
	if err != nil {
		return Genotype{}
	}
	if !ok {
		return g
	}
	g.AltDepthMax = null.IntFrom(altMax)

	if g.Depth.Valid && g.Depth.Int64 > 0 {
		g.VAF = null.FloatFrom(float64(altMax) / float64(g.Depth.Int64))
	}
	return g
}

func zipFields(format, sample string) map[string]string {
	if format == "" || sample == "" {
		return map[string]string{}
	}
	keys := strings.Split(format, ":")
	values := strings.Split(sample, ":")

	n := len(keys)
	if len(values) < n {
		n = len(values)
	}
	fields := make(map[string]string, n)
	for i := 0; i < n; i++ {
		fields[keys[i]] = values[i]
	}
	return fields
}

func alleleDepths(fields map[string]string) (string, bool) {
	for _, key := range alleleDepthKeys {
		if v, ok := fields[key]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// maxAltDepth returns the highest numeric alternate depth. The first list entry
// is the reference depth; non-numeric alternate entries such as "." are ignored.
func maxAltDepth(ad string) (int64, bool, error) {
	var parts []string
	for _, p := range strings.Split(ad, ",") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return 0, false, nil
	}

	var (
		best  int64
		found bool
	)
	for _, p := range parts[1:] {
		if !isDigits(p) {
			continue
		}
		depth, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return 0, false, err
		}
		if !found || depth > best {
			best = depth
			found = true
		}
	}
	return best, found, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
