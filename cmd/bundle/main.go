// Command bundle concatenates a list of TypeScript sources into one file, each
// under a header naming its path.
//
// With no arguments it bundles the built-in list of files into combined.txt.
// Paths can instead be given as arguments, or listed in a manifest:
//
//	bundle -o review.txt src/app.ts src/page.tsx
//	bundle -m files.txt
//	bundle -m tsconfig.json -q '.files[]'
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iverfinne/bundle"
)

const defaultOutput = "combined.txt"

var defaultPaths = []string{
	"/workspaces/personal-web/iverfinne.no/app/api/posts/route.ts",
	"/workspaces/personal-web/iverfinne.no/app/layout.tsx",
	"/workspaces/personal-web/iverfinne.no/app/page.tsx",
	"/workspaces/personal-web/iverfinne.no/components/WebDesignKeys.tsx",
	"/workspaces/personal-web/iverfinne.no/components/markdown-renderer.tsx",
	"/workspaces/personal-web/iverfinne.no/components/mdx-blog-wrapper.tsx",
	"/workspaces/personal-web/iverfinne.no/components/mdx-blog.tsx",
	"/workspaces/personal-web/iverfinne.no/components/outgoing-link.tsx",
	"/workspaces/personal-web/iverfinne.no/components/sphere-viewer.tsx",
	"/workspaces/personal-web/iverfinne.no/components/ui/badge.tsx",
	"/workspaces/personal-web/iverfinne.no/components/ui/button.tsx",
	"/workspaces/personal-web/iverfinne.no/components/ui/card.tsx",
	"/workspaces/personal-web/iverfinne.no/components/ui/input.tsx",
	"/workspaces/personal-web/iverfinne.no/lib/mdx-utils.ts",
	"/workspaces/personal-web/iverfinne.no/tailwind.config.ts",
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run returns 0 after a completed run, 1 if an I/O error stopped it, and 2
// for bad usage or an unreadable manifest.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bundle", flag.ContinueOnError)
	fs.SetOutput(stderr)
	output := fs.String("o", defaultOutput, "write the bundle to `file`")
	exts := fs.String("ext", strings.Join(bundle.DefaultSuffixes, ","), "comma-separated list of recognized `suffixes`")
	manifest := fs.String("m", "", "read paths from manifest `file` (text, .json or .yaml); - reads a text manifest from stdin")
	query := fs.String("q", bundle.DefaultQuery, "jq `query` selecting paths from a JSON or YAML manifest")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: bundle [flags] [path ...]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	paths, err := inputPaths(*manifest, *query, fs.Args(), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "bundle: %v\n", err)
		return 2
	}
	err = bundle.New(splitSuffixes(*exts)...).WithStdout(stdout).Aggregate(paths, *output)
	if err != nil {
		fmt.Fprintf(stderr, "bundle: %v\n", err)
		return 1
	}
	return 0
}

// inputPaths returns the manifest's paths followed by args, or defaultPaths if
// neither was given.
func inputPaths(manifest, query string, args []string, stdin io.Reader) ([]string, error) {
	if manifest == "" && len(args) == 0 {
		return defaultPaths, nil
	}
	var paths []string
	switch manifest {
	case "":
	case "-":
		listed, err := bundle.ReadManifest(stdin, bundle.Text)
		if err != nil {
			return nil, fmt.Errorf("manifest on stdin: %w", err)
		}
		paths = listed
	default:
		listed, err := bundle.LoadManifest(manifest, bundle.WithQuery(query))
		if err != nil {
			return nil, err
		}
		paths = listed
	}
	return append(paths, args...), nil
}

func splitSuffixes(list string) []string {
	var suffixes []string
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			suffixes = append(suffixes, s)
		}
	}
	return suffixes
}
