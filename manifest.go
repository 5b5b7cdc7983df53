package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/itchyny/gojq"
	"gopkg.in/yaml.v3"
	"mvdan.cc/sh/v3/shell"
)

// Format identifies the syntax of a manifest.
type Format int

const (
	// Text manifests hold one path per line. Blank lines and lines starting
	// with '#' are ignored, and $VAR references are expanded.
	Text Format = iota
	// JSON manifests are queried with a jq expression.
	JSON
	// YAML manifests are queried with a jq expression, like JSON ones.
	YAML
)

// DefaultQuery selects the paths from a JSON or YAML manifest which is either a
// list of paths, or a mapping with a "paths" list.
const DefaultQuery = `if type == "array" then .[] else .paths[] end`

// ErrNotPath indicates that a manifest query produced something other than a
// string.
var ErrNotPath = errors.New("query result is not a path")

var ignoredLine = regexp.MustCompile(`^\s*(#.*)?$`)

// FormatOf guesses a manifest's format from its file extension.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return JSON
	case ".yaml", ".yml":
		return YAML
	}
	return Text
}

type manifestConfig struct {
	query string
	env   func(string) string
}

// ManifestOption customizes how a manifest is read.
type ManifestOption func(*manifestConfig)

// WithQuery sets the jq query used to select paths from JSON and YAML
// manifests. It has no effect on text manifests.
func WithQuery(q string) ManifestOption {
	return func(c *manifestConfig) {
		c.query = q
	}
}

// WithEnv sets the function used to resolve $VAR references in text manifests,
// instead of os.Getenv.
func WithEnv(env func(string) string) ManifestOption {
	return func(c *manifestConfig) {
		c.env = env
	}
}

// LoadManifest reads the ordered list of paths from the named manifest, whose
// format is given by FormatOf.
func LoadManifest(name string, opts ...ManifestOption) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}
	defer f.Close()
	paths, err := ReadManifest(f, FormatOf(name), opts...)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", name, err)
	}
	return paths, nil
}

// ReadManifest reads the ordered list of paths from a manifest in the given
// format. Paths are returned as written (after expansion, for text manifests);
// relative paths are not resolved.
func ReadManifest(r io.Reader, format Format, opts ...ManifestOption) ([]string, error) {
	cfg := manifestConfig{
		query: DefaultQuery,
		env:   os.Getenv,
	}
	for _, o := range opts {
		o(&cfg)
	}
	switch format {
	case JSON, YAML:
		return queryManifest(r, format, cfg.query)
	}
	return textManifest(r, cfg.env)
}

func textManifest(r io.Reader, env func(string) string) ([]string, error) {
	p := NewPipe().WithReader(r).RejectRegexp(ignoredLine)
	return p.EachLine(func(line string, out *strings.Builder) {
		path, err := shell.Expand(strings.TrimSpace(line), env)
		if err != nil {
			p.SetError(fmt.Errorf("expanding %q: %w", line, err))
			return
		}
		out.WriteString(path)
		out.WriteRune('\n')
	}).Slice()
}

func queryManifest(r io.Reader, format Format, q string) ([]string, error) {
	query, err := gojq.Parse(q)
	if err != nil {
		return nil, fmt.Errorf("parsing query %q: %w", q, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("compiling query %q: %w", q, err)
	}
	var doc interface{}
	if format == YAML {
		err = yaml.NewDecoder(r).Decode(&doc)
	} else {
		err = json.NewDecoder(r).Decode(&doc)
	}
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	paths := []string{}
	iter := code.Run(doc)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("query %q: %w", q, err)
		}
		path, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("query %q: %w: %v", q, ErrNotPath, v)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
