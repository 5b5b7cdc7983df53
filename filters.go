package bundle

import (
	"bufio"
	"regexp"
	"strings"
)

// Bundle reads a list of paths from the pipe, one per line, and returns a pipe
// containing one block for each path that exists and ends in one of the given
// suffixes (DefaultSuffixes if none are given). Invalid paths are reported on
// the pipe's standard output and skipped. See (*Aggregator).Blocks.
func (p *Pipe) Bundle(suffixes ...string) *Pipe {
	if p == nil || p.Error() != nil {
		return p
	}
	paths, err := p.Slice()
	if err != nil {
		return p
	}
	return New(suffixes...).WithStdout(p.output()).Blocks(paths)
}

// EachLine calls the specified function for each line of input, passing it the
// line as a string, and a *strings.Builder to write its output to. The return
// value from EachLine is a pipe containing the contents of the strings.Builder.
// If process sets the pipe's error status, EachLine stops and returns the pipe.
func (p *Pipe) EachLine(process func(string, *strings.Builder)) *Pipe {
	if p == nil || p.Error() != nil {
		return p
	}
	scanner := bufio.NewScanner(p.Reader)
	output := strings.Builder{}
	for scanner.Scan() {
		process(scanner.Text(), &output)
		if p.Error() != nil {
			return p
		}
	}
	err := scanner.Err()
	if err != nil {
		p.SetError(err)
		return p
	}
	return Echo(output.String()).WithStdout(p.output())
}

// RejectRegexp reads from the pipe, and returns a new pipe containing only
// lines which don't match the specified compiled regular expression. If there
// is an error reading the pipe, the pipe's error status is also set.
func (p *Pipe) RejectRegexp(re *regexp.Regexp) *Pipe {
	return p.EachLine(func(line string, out *strings.Builder) {
		if !re.MatchString(line) {
			out.WriteString(line)
			out.WriteRune('\n')
		}
	})
}
