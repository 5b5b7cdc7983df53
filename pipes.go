package bundle

import (
	"io"
	"os"
)

// Pipe represents a stream of bytes with an associated ReadAutoCloser, a
// sticky error status, and a writer for diagnostics.
type Pipe struct {
	Reader ReadAutoCloser
	err    error
	stdout io.Writer
}

// NewPipe returns a pointer to a new empty pipe whose diagnostics go to
// os.Stdout.
func NewPipe() *Pipe {
	return &Pipe{
		Reader: ReadAutoCloser{},
		err:    nil,
		stdout: os.Stdout,
	}
}

// Close closes the pipe's associated reader. This is always safe to do, because
// pipes created from a non-closable source will have an `io.NopCloser` to call.
func (p *Pipe) Close() error {
	if p == nil {
		return nil
	}
	return p.Reader.Close()
}

// Error returns the last error returned by any pipe operation, or nil otherwise.
func (p *Pipe) Error() error {
	if p == nil {
		return nil
	}
	return p.err
}

// Read reads up to len(b) bytes from the data source into b. It returns the
// number of bytes read and any error encountered. At end of file, or on a nil
// pipe, Read returns 0, io.EOF.
func (p *Pipe) Read(b []byte) (int, error) {
	if p == nil {
		return 0, io.EOF
	}
	return p.Reader.Read(b)
}

// SetError sets the pipe's error status to the specified error. A non-nil
// error also closes the pipe's reader.
func (p *Pipe) SetError(err error) {
	if p != nil {
		if err != nil {
			p.Close()
		}
		p.err = err
	}
}

// WithError sets the pipe's error status to the specified error and returns the
// modified pipe.
func (p *Pipe) WithError(err error) *Pipe {
	p.SetError(err)
	return p
}

// WithReader takes an io.Reader, and associates the pipe with that reader. If
// necessary, the reader will be automatically closed once it has been
// completely read.
func (p *Pipe) WithReader(r io.Reader) *Pipe {
	if p == nil {
		return nil
	}
	p.Reader = NewReadAutoCloser(r)
	return p
}

// WithStdout takes an io.Writer, and associates the pipe's standard output with
// that writer, instead of the default os.Stdout. Diagnostics produced by
// filters such as Bundle are written there too. This is primarily useful for
// testing.
func (p *Pipe) WithStdout(w io.Writer) *Pipe {
	if p == nil {
		return nil
	}
	p.stdout = w
	return p
}

// output returns the writer for the pipe's standard output, falling back to
// os.Stdout for zero pipes.
func (p *Pipe) output() io.Writer {
	if p == nil || p.stdout == nil {
		return os.Stdout
	}
	return p.stdout
}
