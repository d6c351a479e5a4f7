package worker

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultPatterns are the file name globs picked up when walking a directory
var DefaultPatterns = []string{"*.vcf", "*.vcf.gz"}

// Discoverer expands command-line inputs into VCF paths
type Discoverer struct {
	fs       afero.Fs
	patterns []string
	skipped  []string
}

// NewDiscoverer creates a discoverer over fs; nil means the OS filesystem
func NewDiscoverer(fs afero.Fs, patterns []string) *Discoverer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	return &Discoverer{fs: fs, patterns: patterns}
}

// Expand resolves inputs in order. Directories are walked recursively for
// matching files (lexical order), anything else passes through unchanged so
// that missing files surface later as per-file errors. Duplicates are dropped.
//
// A walk error never fails the expansion: an unreadable subdirectory is left
// out and recorded in Skipped, an unreadable input directory passes through
// like a missing file. Only an invalid pattern is an error.
func (d *Discoverer) Expand(inputs []string) ([]string, error) {
	for _, p := range d.patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
	}

	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, input := range inputs {
		info, err := d.fs.Stat(input)
		if err != nil || !info.IsDir() {
			add(input)
			continue
		}

		err = afero.Walk(d.fs, input, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				switch {
				case path == input:
					add(path)
				case info != nil && info.IsDir():
					d.skipped = append(d.skipped, path)
				default:
					// unreadable entry: keep a matching file so it gets an error row
					if d.matches(filepath.Base(path)) {
						add(path)
					}
					return nil
				}
				return filepath.SkipDir
			}
			if !info.IsDir() && d.matches(info.Name()) {
				add(path)
			}
			return nil
		})
		if err != nil && err != filepath.SkipDir {
			d.skipped = append(d.skipped, input)
		}
	}

	return paths, nil
}

// Skipped returns the directories left out of the last expansions because
// they could not be read
func (d *Discoverer) Skipped() []string {
	return d.skipped
}

func (d *Discoverer) matches(name string) bool {
	for _, p := range d.patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}
