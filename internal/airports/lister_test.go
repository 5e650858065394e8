package airports

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jclinedev/hiddencity/internal/domain"
)

func TestFileListerParsesCodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "airports.txt")
	body := "ATL\nDFW\n\n# comment\n  DEN  \nORD\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	codes, err := NewFileLister(path).ListAirports(context.Background())
	if err != nil {
		t.Fatalf("ListAirports: %v", err)
	}
	if want := []string{"ATL", "DFW", "DEN", "ORD"}; !reflect.DeepEqual(codes, want) {
		t.Errorf("codes = %v, want %v", codes, want)
	}
}

func TestFileListerMissingFile(t *testing.T) {
	if _, err := NewFileLister(filepath.Join(t.TempDir(), "nope.txt")).ListAirports(context.Background()); err == nil {
		t.Fatal("want error")
	}
}

type fakeStore struct {
	codes []string
	err   error
}

func (f *fakeStore) ListCodes(context.Context) ([]string, error)          { return f.codes, f.err }
func (f *fakeStore) UpsertAirports(context.Context, []domain.Airport) error { return nil }

func TestStoreLister(t *testing.T) {
	lister := NewStoreLister(&fakeStore{codes: []string{"ATL", "LAX"}})
	codes, err := lister.ListAirports(context.Background())
	if err != nil {
		t.Fatalf("ListAirports: %v", err)
	}
	if want := []string{"ATL", "LAX"}; !reflect.DeepEqual(codes, want) {
		t.Errorf("codes = %v, want %v", codes, want)
	}

	lister = NewStoreLister(&fakeStore{err: errors.New("down")})
	if _, err := lister.ListAirports(context.Background()); err == nil {
		t.Fatal("want error")
	}
}
