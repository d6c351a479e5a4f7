// Package classify decides which variants count towards the mutational burden.
package classify

import (
	"github.com/ppiankov/tmbreport/internal/model"
)

// rule fails a record for one reason. Rules run in order and the first failure wins.
type rule struct {
	reason model.Reason
	fails  func(v model.VariantRecord) bool
}

// Classifier applies the panel thresholds to variant records
type Classifier struct {
	panel model.PanelConfig
	rules []rule
}

// NewClassifier builds the ordered rule list for a panel
func NewClassifier(panel model.PanelConfig) *Classifier {
	c := &Classifier{panel: panel}

	// 1. FILTER status
	if panel.RequirePass {
		c.rules = append(c.rules, rule{model.ReasonFilterNotPass, func(v model.VariantRecord) bool {
			return v.Filter != "." && v.Filter != "PASS"
		}})
	}

	// 2. Required fields present
	c.rules = append(c.rules,
		rule{model.ReasonQualMissing, func(v model.VariantRecord) bool { return !v.Qual.Valid }},
		rule{model.ReasonDepthMissing, func(v model.VariantRecord) bool { return !v.Depth.Valid }},
		rule{model.ReasonAltADMissing, func(v model.VariantRecord) bool { return !v.AltDepthMax.Valid }},
		rule{model.ReasonVAFMissing, func(v model.VariantRecord) bool { return !v.VAF.Valid }},
	)

	// 3. Thresholds
	c.rules = append(c.rules,
		rule{model.ReasonQualBelowMin, func(v model.VariantRecord) bool { return v.Qual.Float64 < panel.QualMin }},
		rule{model.ReasonDepthBelowMin, func(v model.VariantRecord) bool { return v.Depth.Int64 < int64(panel.DPMin) }},
		rule{model.ReasonAltBelowMin, func(v model.VariantRecord) bool { return v.AltDepthMax.Int64 < int64(panel.AltMin) }},
		rule{model.ReasonVAFBelowMin, func(v model.VariantRecord) bool { return v.VAF.Float64 < panel.VAFMin }},
	)

	// 4. Repeat artifacts
	if panel.DropSTRArtifacts {
		c.rules = append(c.rules, rule{model.ReasonSTRArtifact, func(v model.VariantRecord) bool {
			return LooksLikeSTRArtifact(v.Ref, v.Alt)
		}})
	}

	return c
}

// Panel returns the settings the classifier was built with
func (c *Classifier) Panel() model.PanelConfig {
	return c.panel
}

// Classify returns the keep/drop decision for one record
func (c *Classifier) Classify(v model.VariantRecord) model.ClassificationResult {
	for _, r := range c.rules {
		if r.fails(v) {
			return model.ClassificationResult{Record: v, Kept: false, Reason: r.reason}
		}
	}
	return model.ClassificationResult{Record: v, Kept: true, Reason: model.ReasonOK}
}

// ClassifyAll classifies every record, splitting kept from dropped in input order
func (c *Classifier) ClassifyAll(records []model.VariantRecord) (kept, dropped []model.ClassificationResult) {
	for _, v := range records {
		res := c.Classify(v)
		if res.Kept {
			kept = append(kept, res)
		} else {
			dropped = append(dropped, res)
		}
	}
	return kept, dropped
}

// CountReasons tallies dropped results by reason
func CountReasons(results []model.ClassificationResult) map[model.Reason]int {
	counts := make(map[model.Reason]int)
	for _, r := range results {
		counts[r.Reason]++
	}
	return counts
}
