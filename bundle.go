// Package bundle concatenates a curated list of source files into a single
// text document, so that they can be reviewed or pasted into another tool in
// one go.
//
// Each file that exists and ends in a recognized suffix becomes a block: a
// header naming the path, the raw file contents, and a separator:
//
//	### File Location: src/app.ts ###
//
//	<contents of src/app.ts>
//
//	---
//
// Paths that don't qualify are reported on standard output and skipped:
//
//	err := bundle.Aggregate([]string{"src/app.ts", "README.md"}, "combined.txt")
//
// prints:
//
//	Invalid or missing file: README.md
//	Selected TS and TSX file contents have been written to combined.txt
//
// The underlying streams are ordinary pipes, so blocks can also be produced
// from a list of paths on a pipe and sent to any sink:
//
//	bundle.Stdin().Bundle(".go").Stdout()
package bundle

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Separator follows the contents of every block.
const Separator = "\n\n---\n\n"

// DefaultSuffixes are the suffixes recognized when none are given.
var DefaultSuffixes = []string{".ts", ".tsx"}

var (
	// ErrMissing indicates that a path does not refer to an existing
	// filesystem entry.
	ErrMissing = errors.New("missing file")

	// ErrUnrecognizedSuffix indicates that a path does not end in any of the
	// recognized suffixes.
	ErrUnrecognizedSuffix = errors.New("unrecognized suffix")
)

// Aggregate writes one block for every valid path in paths to the file
// outputPath, using DefaultSuffixes and reporting to os.Stdout. See
// (*Aggregator).Aggregate.
func Aggregate(paths []string, outputPath string) error {
	return New().Aggregate(paths, outputPath)
}

// Aggregator turns an ordered list of paths into blocks.
type Aggregator struct {
	suffixes []string
	stdout   io.Writer
}

// New returns an Aggregator recognizing the given suffixes, or DefaultSuffixes
// if there are none. Diagnostics go to os.Stdout.
func New(suffixes ...string) *Aggregator {
	if len(suffixes) == 0 {
		suffixes = DefaultSuffixes
	}
	return &Aggregator{
		suffixes: append([]string(nil), suffixes...),
		stdout:   os.Stdout,
	}
}

// WithStdout directs diagnostics and the confirmation message to w instead of
// os.Stdout.
func (a *Aggregator) WithStdout(w io.Writer) *Aggregator {
	a.stdout = w
	return a
}

// Suffixes returns a copy of the recognized suffixes.
func (a *Aggregator) Suffixes() []string {
	return append([]string(nil), a.suffixes...)
}

// Check reports whether path is eligible for a block. It returns an error
// wrapping ErrMissing if the path cannot be stat'ed, or ErrUnrecognizedSuffix
// if it doesn't end in a recognized suffix.
func (a *Aggregator) Check(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMissing, path, err)
	}
	for _, s := range a.suffixes {
		if strings.HasSuffix(path, s) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnrecognizedSuffix, path)
}

// Blocks checks each path in order, writing a diagnostic for every invalid
// one, and returns a pipe containing the blocks for the valid ones. Source
// files are not opened until their block is read; a failure to read one sets
// the error status of whichever sink is draining the pipe.
func (a *Aggregator) Blocks(paths []string) *Pipe {
	return a.blocks(paths, nil)
}

// blocks is Blocks, except that a path referring to the same file as output is
// given empty contents: the output was truncated when the run started, and
// reading it while it is being written would never reach EOF.
func (a *Aggregator) blocks(paths []string, output os.FileInfo) *Pipe {
	p := NewPipe().WithStdout(a.stdout)
	b := &blockReader{}
	var parts []io.Reader
	for _, path := range paths {
		if err := a.Check(path); err != nil {
			fmt.Fprintf(p.output(), "Invalid or missing file: %s\n", path)
			continue
		}
		if output != nil && sameFile(path, output) {
			parts = append(parts, strings.NewReader(Header(path)), strings.NewReader(Separator))
			continue
		}
		src := &sourceFile{path: path}
		b.sources = append(b.sources, src)
		parts = append(parts,
			strings.NewReader(Header(path)),
			src,
			strings.NewReader(Separator),
		)
	}
	b.Reader = io.MultiReader(parts...)
	return p.WithReader(b)
}

// Aggregate creates or truncates outputPath, writes the blocks for paths to
// it, and then prints a confirmation message naming outputPath. The output
// file is closed on every path out of Aggregate.
//
// Invalid paths are skipped with a diagnostic. A read error on a path that
// passed the check ends the run: the error is returned, the output keeps
// whatever had been written, and no confirmation is printed.
func (a *Aggregator) Aggregate(paths []string, outputPath string) (err error) {
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output: %w", cerr)
		}
	}()
	info, err := out.Stat()
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if _, err := a.blocks(paths, info).WriteTo(out); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Selected %s file contents have been written to %s\n", Label(a.suffixes), outputPath)
	return nil
}

// Header returns the header line, plus the blank line after it, that starts
// the block for path.
func Header(path string) string {
	return "### File Location: " + path + " ###\n\n"
}

// Label describes a list of suffixes for humans: ".ts" and ".tsx" become
// "TS and TSX".
func Label(suffixes []string) string {
	names := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		names = append(names, strings.ToUpper(strings.TrimPrefix(s, ".")))
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}

func sameFile(path string, fi os.FileInfo) bool {
	info, err := os.Stat(path)
	return err == nil && os.SameFile(info, fi)
}

// sourceFile opens its path on the first Read.
type sourceFile struct {
	path   string
	f      *os.File
	closed bool
}

func (s *sourceFile) Read(b []byte) (int, error) {
	if s.closed {
		return 0, fmt.Errorf("reading %s: %w", s.path, os.ErrClosed)
	}
	if s.f == nil {
		f, err := os.Open(s.path)
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", s.path, err)
		}
		s.f = f
	}
	n, err := s.f.Read(b)
	if err == io.EOF {
		s.Close()
		return n, io.EOF
	}
	if err != nil {
		return n, fmt.Errorf("reading %s: %w", s.path, err)
	}
	return n, nil
}

func (s *sourceFile) Close() error {
	s.closed = true
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// blockReader reads the blocks in sequence and, when closed, closes any
// source file still open.
type blockReader struct {
	io.Reader
	sources []*sourceFile
}

func (b *blockReader) Close() error {
	var first error
	for _, s := range b.sources {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
