package model

import (
	"strconv"

	"gopkg.in/guregu/null.v3"
)

// VariantRecord is one VCF data line resolved against its header.
// Numeric fields are nullable: unparsable or missing values stay invalid.
type VariantRecord struct {
	Sample      string      `json:"sample"`
	Chrom       string      `json:"chrom"`
	Pos         int64       `json:"pos"`
	Ref         string      `json:"ref"`
	Alt         string      `json:"alt"` // Raw ALT column, may hold several comma-separated alleles
	Qual        null.Float  `json:"qual"`
	Filter      string      `json:"filter"`
	Genotype    null.String `json:"gt"`
	Depth       null.Int    `json:"dp"`
	AltDepthMax null.Int    `json:"ad_alt_max"`
	VAF         null.Float  `json:"vaf"`
}

// Locus returns the variant in chrom:pos ref>alt notation
func (v VariantRecord) Locus() string {
	return v.Chrom + ":" + strconv.FormatInt(v.Pos, 10) + " " + v.Ref + ">" + v.Alt
}

// Reason is the code explaining why a variant was kept or dropped
type Reason string

const (
	ReasonFilterNotPass Reason = "FILTER!=PASS"
	ReasonQualMissing   Reason = "QUAL_missing"
	ReasonDepthMissing  Reason = "DP_missing"
	ReasonAltADMissing  Reason = "AD_alt_missing"
	ReasonVAFMissing    Reason = "VAF_missing"
	ReasonQualBelowMin  Reason = "QUAL<min"
	ReasonDepthBelowMin Reason = "DP<min"
	ReasonAltBelowMin   Reason = "ALT<min"
	ReasonVAFBelowMin   Reason = "VAF<min"
	ReasonSTRArtifact   Reason = "STR_artifact"
	ReasonOK            Reason = "OK"
)

// ClassificationResult tags a record with the keep/drop decision
type ClassificationResult struct {
	Record VariantRecord `json:"record"`
	Kept   bool          `json:"kept"`
	Reason Reason        `json:"reason"`
}
