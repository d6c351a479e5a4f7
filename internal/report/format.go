package report

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/tmbreport/internal/score"
	"gopkg.in/guregu/null.v3"
)

// FormatNullInt renders an absent value as an empty string
func FormatNullInt(n null.Int) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatInt(n.Int64, 10)
}

// FormatNullFloat renders an absent value as an empty string and otherwise
// uses prec decimals (-1 for the shortest exact form)
func FormatNullFloat(n null.Float, prec int) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Float64, 'f', prec, 64)
}

// FormatTMB renders a burden with prec decimals, or "" when not computable
func FormatTMB(tmb float64, prec int) string {
	if !score.Computable(tmb) {
		return ""
	}
	return strconv.FormatFloat(tmb, 'f', prec, 64)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

const maxNameBytes = 100

// SanitizeFilename makes a sample name safe to use as a file name
func SanitizeFilename(s string) string {
	s = filenameReplacer.Replace(strings.TrimSpace(s))
	if s == "" || s == "." || s == ".." {
		s = "sample"
	}
	if len(s) > maxNameBytes {
		s = s[:maxNameBytes]
		for !utf8.ValidString(s) {
			s = s[:len(s)-1]
		}
	}
	return s
}

// ReportFileName returns the per-sample text report name
func ReportFileName(sample string) string {
	return SanitizeFilename(sample) + reportSuffix
}

// numberedReportFileName is used when another input of the same run already
// wrote ReportFileName(sample); n starts at 2
func numberedReportFileName(sample string, n int) string {
	return SanitizeFilename(sample) + "_" + strconv.Itoa(n) + reportSuffix
}

const reportSuffix = "_TMB_report.txt"
