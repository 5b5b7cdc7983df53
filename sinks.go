package bundle

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Slice returns the contents of the pipe as a slice of strings, one element per
// line, or an error. If there is an error reading the pipe, the pipe's error
// status is also set.
func (p *Pipe) Slice() ([]string, error) {
	if p == nil {
		return nil, nil
	}
	if p.Error() != nil {
		return nil, p.Error()
	}
	result := []string{}
	p.EachLine(func(line string, out *strings.Builder) {
		result = append(result, line)
	})
	return result, p.Error()
}

// Stdout writes the contents of the pipe to its standard output (os.Stdout,
// unless changed with WithStdout). It returns the number of bytes successfully
// written, plus a non-nil error if the write failed or if there was an error
// reading from the pipe. If the pipe has error status, Stdout returns zero plus
// the existing error.
func (p *Pipe) Stdout() (int, error) {
	n, err := p.WriteTo(p.output())
	return int(n), err
}

// String returns the contents of the pipe as a string, or an error, and closes
// the pipe after reading. If there is an error reading, the pipe's error status
// is also set.
func (p *Pipe) String() (string, error) {
	var b strings.Builder
	if _, err := p.WriteTo(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteFile writes the contents of the pipe to the specified file, creating it
// or truncating any previous contents. It returns the number of bytes
// successfully written, or an error. If there is an error reading or writing,
// the pipe's error status is also set.
func (p *Pipe) WriteFile(name string) (_ int64, err error) {
	if p == nil {
		return 0, nil
	}
	if p.Error() != nil {
		return 0, p.Error()
	}
	out, err := os.Create(name)
	if err != nil {
		p.SetError(err)
		return 0, err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			p.SetError(cerr)
			err = fmt.Errorf("closing %s: %w", name, cerr)
		}
	}()
	return p.WriteTo(out)
}

// WriteTo copies the contents of the pipe to w, and closes the pipe after
// reading. It returns the number of bytes written and the first error from
// either side. On error, the pipe's error status is also set.
func (p *Pipe) WriteTo(w io.Writer) (int64, error) {
	if p == nil {
		return 0, nil
	}
	if p.Error() != nil {
		return 0, p.Error()
	}
	defer p.Close()
	n, err := io.Copy(w, p.Reader)
	if err != nil {
		p.SetError(err)
		return n, err
	}
	return n, nil
}
