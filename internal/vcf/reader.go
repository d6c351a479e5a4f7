// Package vcf streams variant records out of tab-delimited VCF text.
//
// The reader is forgiving about data lines: a line with the wrong
// number of fields or an unusable position is skipped and counted, never
// reported as an error. Only a missing file or an unusable header fails.
package vcf

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ppiankov/tmbreport/internal/model"
	"gopkg.in/guregu/null.v3"
)

const (
	headerPrefix = "#CHROM"
	formatColumn = "FORMAT"
)

// maxLineBytes bounds a single VCF line; multi-sample lines can be long.
// Longer data lines are skipped like any other malformed line.
var maxLineBytes = 16 << 20

// RequiredColumns must all appear in the #CHROM header line
var RequiredColumns = []string{"CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER"}

// Reader yields VariantRecords one line at a time. It is not restartable.
type Reader struct {
	br      *bufio.Reader
	header  []string
	columns map[string]int

	sample    string
	formatCol int // -1 when the file has no FORMAT column
	sampleCol int // -1 when the file has no sample column

	lines   int
	skipped int
}

// NewReader reads up to and including the header line. fallbackSample names
// the records when the header carries no sample column.
func NewReader(r io.Reader, fallbackSample string) (*Reader, error) {
	rd := &Reader{
		br:        bufio.NewReaderSize(r, 64*1024),
		sample:    fallbackSample,
		formatCol: -1,
		sampleCol: -1,
	}
	if err := rd.readHeader(); err != nil {
		return nil, err
	}
	return rd, nil
}

func (r *Reader) readHeader() error {
	for {
		line, tooLong, err := r.readLine()
		if err == io.EOF {
			return &FormatError{Reason: "header line (#CHROM ...) not found"}
		}
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}
		if tooLong || !strings.HasPrefix(line, headerPrefix) {
			// ## meta lines and anything before the header
			continue
		}
		return r.parseHeader(line)
	}
}

// readLine returns the next line without its terminator. A line longer than
// maxLineBytes is consumed up to its newline and returned empty with tooLong set.
func (r *Reader) readLine() (line string, tooLong bool, err error) {
	var buf []byte
	for {
		chunk, err := r.br.ReadSlice('\n')
		if !tooLong {
			if len(buf)+len(chunk) > maxLineBytes {
				tooLong, buf = true, nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err == io.EOF && (len(buf) > 0 || tooLong) {
			// last line without a trailing newline
			break
		}
		if err != nil {
			return "", false, err
		}
		break
	}

	r.lines++
	return strings.TrimRight(string(buf), "\r\n"), tooLong, nil
}

func (r *Reader) parseHeader(line string) error {
	r.header = strings.Split(strings.TrimPrefix(line, "#"), "\t")
	r.columns = make(map[string]int, len(r.header))
	for i, name := range r.header {
		r.columns[name] = i
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := r.columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &FormatError{Reason: "missing required columns: " + strings.Join(missing, ", ")}
	}

	// A sample column exists only when something follows FORMAT; the last
	// column names the sample.
	if idx, ok := r.columns[formatColumn]; ok && len(r.header) > idx+1 {
		r.formatCol = idx
		r.sampleCol = len(r.header) - 1
		r.sample = r.header[r.sampleCol]
	}
	return nil
}

// Sample returns the sample name used for every record of this file
func (r *Reader) Sample() string {
	return r.sample
}

// Header returns the column names, without the leading '#'
func (r *Reader) Header() []string {
	return r.header
}

// HasSample reports whether the file carries FORMAT and sample columns
func (r *Reader) HasSample() bool {
	return r.sampleCol >= 0
}

// Skipped returns how many data lines were dropped as malformed so far
func (r *Reader) Skipped() int {
	return r.skipped
}

// Next returns the next well-formed record, or io.EOF once the input is exhausted
func (r *Reader) Next() (model.VariantRecord, error) {
	for {
		line, tooLong, err := r.readLine()
		if err == io.EOF {
			return model.VariantRecord{}, io.EOF
		}
		if err != nil {
			return model.VariantRecord{}, fmt.Errorf("read line %d: %w", r.lines+1, err)
		}
		if tooLong {
			r.skipped++
			continue
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rec, ok := r.parseRecord(line)
		if !ok {
			r.skipped++
			continue
		}
		return rec, nil
	}
}

// ReadAll drains the reader
func (r *Reader) ReadAll() ([]model.VariantRecord, error) {
	var records []model.VariantRecord
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

func (r *Reader) parseRecord(line string) (model.VariantRecord, bool) {
	fields := strings.Split(line, "\t")
	if len(fields) != len(r.header) {
		return model.VariantRecord{}, false
	}

	pos, err := strconv.ParseInt(fields[r.columns["POS"]], 10, 64)
	if err != nil || pos <= 0 {
		return model.VariantRecord{}, false
	}

	rec := model.VariantRecord{
		Sample: r.sample,
		Chrom:  fields[r.columns["CHROM"]],
		Pos:    pos,
		Ref:    fields[r.columns["REF"]],
		Alt:    fields[r.columns["ALT"]],
		Qual:   parseQual(fields[r.columns["QUAL"]]),
		Filter: fields[r.columns["FILTER"]],
	}

	if r.sampleCol >= 0 {
		gt := DecodeGenotype(fields[r.formatCol], fields[r.sampleCol])
		rec.Genotype = gt.GT
		rec.Depth = gt.Depth
		rec.AltDepthMax = gt.AltDepthMax
		rec.VAF = gt.VAF
	}

	return rec, true
}

// parseQual treats ".", NaN and anything unparsable as absent
func parseQual(s string) null.Float {
	q, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(q) {
		return null.Float{}
	}
	return null.FloatFrom(q)
}
