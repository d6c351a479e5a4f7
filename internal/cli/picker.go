package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// errNoSelection is returned when the interactive picker yields no inputs
var errNoSelection = errors.New("no VCF files selected")

// errNoInputs is returned when no inputs were given and no terminal is attached
var errNoInputs = errors.New("no input VCF files given (pass paths, --vcf or --list)")

// selection is what the picker collected
type selection struct {
	Inputs []string
	OutDir string
}

// interactive reports whether the picker can talk to a user
func interactive(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// pickInputs prompts for VCF files or folders, one or more per line (comma
// separated, so paths may contain spaces) until an empty line, then for an
// output folder.
func pickInputs(in io.Reader, out io.Writer, defaultDir string) (*selection, error) {
	sc := bufio.NewScanner(in)
	sel := &selection{OutDir: defaultDir}

	fmt.Fprintf(out, "Select VCF files or folders (empty line to finish):\n")
	for {
		fmt.Fprintf(out, "  > ")
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			break
		}
		for _, field := range strings.Split(line, ",") {
			if field = strings.TrimSpace(field); field != "" {
				sel.Inputs = append(sel.Inputs, field)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read selection: %w", err)
	}
	if len(sel.Inputs) == 0 {
		return nil, errNoSelection
	}

	fmt.Fprintf(out, "Output folder [%s]: ", defaultDir)
	if sc.Scan() {
		if dir := strings.TrimSpace(sc.Text()); dir != "" {
			sel.OutDir = dir
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read output folder: %w", err)
	}

	return sel, nil
}
