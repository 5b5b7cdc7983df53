package bundle_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/iverfinne/bundle"
)

func TestReadAutoCloser(t *testing.T) {
	t.Parallel()
	want, err := os.ReadFile("testdata/hello.txt")
	if err != nil {
		t.Fatal(err)
	}
	input, err := os.Open("testdata/hello.txt")
	if err != nil {
		t.Fatal(err)
	}
	acr := bundle.NewReadAutoCloser(input)
	got, err := io.ReadAll(acr)
	if err != nil {
		t.Error(err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("want %q, got %q", want, got)
	}
	_, err = io.ReadAll(acr)
	if err == nil {
		t.Error("input not closed after reading")
	}
}

type brokenReader struct {
	closed bool
}

func (b *brokenReader) Read([]byte) (int, error) {
	return 0, errors.New("broken")
}

func (b *brokenReader) Close() error {
	b.closed = true
	return nil
}

func TestReadAutoCloserClosesOnError(t *testing.T) {
	t.Parallel()
	r := &brokenReader{}
	_, err := io.ReadAll(bundle.NewReadAutoCloser(r))
	if err == nil {
		t.Fatal("want error from broken reader")
	}
	if !r.closed {
		t.Error("want reader closed after error")
	}
}

func TestReadAutoCloserWrapsNonClosers(t *testing.T) {
	t.Parallel()
	acr := bundle.NewReadAutoCloser(bytes.NewReader([]byte("x")))
	if err := acr.Close(); err != nil {
		t.Error(err)
	}
	var zero bundle.ReadAutoCloser
	if n, err := zero.Read(make([]byte, 1)); n != 0 || err != io.EOF {
		t.Errorf("want 0, io.EOF from zero ReadAutoCloser, got %d, %v", n, err)
	}
}
