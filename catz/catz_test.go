package catz

import (
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

const sample = "randomized_id,lat,lng,alt,spd,azm\n1,51.1,71.4,350,3.2,10\n1,51.2,71.5,350,4.1,20\n"

func TestOpenSource_Plain(t *testing.T) {
	p := filepath.Join(t.TempDir(), "plain.csv")
	if err := os.WriteFile(p, []byte(sample), 0600); err != nil {
		t.Fatal(err)
	}
	r, err := OpenSource(p)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if r.Path() != p {
		t.Errorf("unexpected path %s", r.Path())
	}
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != sample {
		t.Errorf("unexpected content %q", string(b))
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
}

func TestOpenSource_GZ(t *testing.T) {
	p := filepath.Join(t.TempDir(), "traces.csv.gz")
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	gzw := gzip.NewWriter(f)
	if _, err := gzw.Write([]byte(sample)); err != nil {
		t.Fatal(err)
	}
	if err := gzw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := OpenSource(p)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	n, err := LineCount(r)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected 3 lines, got %d", n)
	}
}

func TestOpenSource_Missing(t *testing.T) {
	_, err := OpenSource(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
	_, err = OpenSource(filepath.Join(t.TempDir(), "nope.csv.gz"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestOpenSource_NotGzip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "liar.gz")
	if err := os.WriteFile(p, []byte(sample), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenSource(p); err == nil {
		t.Fatal("expected gzip header error")
	}
}
