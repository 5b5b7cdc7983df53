package bundle

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// doFiltersOnPipe calls every kind of filter method on the supplied pipe and
// tries to trigger a panic.
func doFiltersOnPipe(t *testing.T, p *Pipe, kind string) {
	var action string
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("panic: %s on %s pipe", action, kind)
		}
	}()
	action = "EachLine()"
	output, err := p.EachLine(func(string, *strings.Builder) {}).String()
	if err != nil {
		t.Error(err)
	}
	if output != "" {
		t.Errorf("want zero output from %s on %s pipe, but got %q", action, kind, output)
	}
	action = "RejectRegexp()"
	output, err = p.RejectRegexp(regexp.MustCompile(`.`)).String()
	if err != nil {
		t.Error(err)
	}
	if output != "" {
		t.Errorf("want zero output from %s on %s pipe, but got %q", action, kind, output)
	}
	action = "Bundle()"
	output, err = p.WithStdout(new(bytes.Buffer)).Bundle().String()
	if err != nil {
		t.Error(err)
	}
	if output != "" {
		t.Errorf("want zero output from %s on %s pipe, but got %q", action, kind, output)
	}
}

func TestNilPipeFilters(t *testing.T) {
	t.Parallel()
	doFiltersOnPipe(t, nil, "nil")
}

func TestZeroPipeFilters(t *testing.T) {
	t.Parallel()
	doFiltersOnPipe(t, &Pipe{}, "zero")
}

func TestEachLine(t *testing.T) {
	t.Parallel()
	p := File("testdata/test.txt")
	q := p.EachLine(func(line string, out *strings.Builder) {
		out.WriteString("> " + line + "\n")
	})
	want := "> This is the first line in the file.\n> Hello, world.\n> This is another line in the file.\n"
	got, err := q.String()
	if err != nil {
		t.Fatal(err)
	}
	if want != got {
		t.Error(cmp.Diff(want, got))
	}
}

func TestEachLineStopsWhenProcessSetsError(t *testing.T) {
	t.Parallel()
	p := Echo("a\nb\nc\n")
	var seen []string
	stop := errors.New("stop")
	q := p.EachLine(func(line string, out *strings.Builder) {
		seen = append(seen, line)
		if line == "b" {
			p.SetError(stop)
		}
	})
	if q != p {
		t.Error("want EachLine to return the erroneous pipe")
	}
	if !errors.Is(q.Error(), stop) {
		t.Errorf("want %v, got %v", stop, q.Error())
	}
	if !cmp.Equal([]string{"a", "b"}, seen) {
		t.Error(cmp.Diff([]string{"a", "b"}, seen))
	}
}

func TestRejectRegexp(t *testing.T) {
	t.Parallel()
	got, err := File("testdata/test.txt").RejectRegexp(regexp.MustCompile(`^This`)).String()
	if err != nil {
		t.Fatal(err)
	}
	want := "Hello, world.\n"
	if want != got {
		t.Error(cmp.Diff(want, got))
	}
}

func TestBundleReadsPathsFromPipe(t *testing.T) {
	t.Parallel()
	diag := new(bytes.Buffer)
	got, err := Slice([]string{
		"testdata/src/greet.tsx",
		"testdata/src/readme.md",
		"testdata/src/hello.ts",
	}).WithStdout(diag).Bundle().String()
	if err != nil {
		t.Fatal(err)
	}
	want := Header("testdata/src/greet.tsx") + "export const Greet = () => <p>hi</p>;\n" + Separator +
		Header("testdata/src/hello.ts") + "console.log(\"hello\");\n" + Separator
	if want != got {
		t.Error(cmp.Diff(want, got))
	}
	wantDiag := "Invalid or missing file: testdata/src/readme.md\n"
	if wantDiag != diag.String() {
		t.Error(cmp.Diff(wantDiag, diag.String()))
	}
}

func TestBundleWithSuffixes(t *testing.T) {
	t.Parallel()
	diag := new(bytes.Buffer)
	got, err := Slice([]string{"testdata/src/hello.ts", "testdata/src/readme.md"}).
		WithStdout(diag).
		Bundle(".md").
		String()
	if err != nil {
		t.Fatal(err)
	}
	want := Header("testdata/src/readme.md") + "# Notes\n" + Separator
	if want != got {
		t.Error(cmp.Diff(want, got))
	}
	wantDiag := "Invalid or missing file: testdata/src/hello.ts\n"
	if wantDiag != diag.String() {
		t.Error(cmp.Diff(wantDiag, diag.String()))
	}
}
