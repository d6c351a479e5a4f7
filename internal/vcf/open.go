package vcf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
)

var gzipMagic = []byte{0x1f, 0x8b}

// File is a Reader bound to an open file on disk
type File struct {
	*Reader
	closers []io.Closer
}

// Open opens a plain or gzip/bgzip compressed VCF and reads its header.
// The file base name is used as sample name when the header names none.
func Open(path string) (_ *File, err error) {
	osFile, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open vcf: %w", err)
	}

	f := &File{closers: []io.Closer{osFile}}
	defer func() {
		if err != nil {
			_ = f.Close()
		}
	}()

	src, err := maybeDecompress(bufio.NewReader(osFile), f)
	if err != nil {
		return nil, fmt.Errorf("open vcf %s: %w", path, err)
	}

	rd, err := NewReader(src, filepath.Base(path))
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Path = path
			return nil, fe
		}
		return nil, err
	}
	f.Reader = rd

	return f, nil
}

// maybeDecompress sniffs the gzip magic bytes; anything else is read as plain text
func maybeDecompress(br *bufio.Reader, f *File) (io.Reader, error) {
	head, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if !bytes.Equal(head, gzipMagic) {
		return br, nil
	}

	gz, err := gzip.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	f.closers = append(f.closers, gz)
	return gz, nil
}

// Close releases the decompressor and the underlying file
func (f *File) Close() error {
	var firstErr error
	for i := len(f.closers) - 1; i >= 0; i-- {
		if err := f.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.closers = nil
	return firstErr
}
