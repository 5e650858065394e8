// Package airports implements the candidate list providers: a plain file of
// airport codes for overrides, and the Postgres-backed reference list for
// normal operation.
package airports

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jclinedev/hiddencity/internal/domain"
)

// FileLister reads newline-delimited airport codes from a file. Blank lines
// and lines starting with '#' are ignored.
type FileLister struct {
	path string
}

// NewFileLister creates a FileLister for the given path.
func NewFileLister(path string) *FileLister {
	return &FileLister{path: filepath.Clean(path)}
}

// ListAirports returns the codes in file order.
func (f *FileLister) ListAirports(_ context.Context) ([]string, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("airports: open %s: %w", f.path, err)
	}
	defer file.Close()

	var codes []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		codes = append(codes, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("airports: read %s: %w", f.path, err)
	}
	return codes, nil
}

// StoreLister serves the reference list from the airport store, busiest
// airports first.
type StoreLister struct {
	store domain.AirportStore
}

// NewStoreLister creates a StoreLister backed by store.
func NewStoreLister(store domain.AirportStore) *StoreLister {
	return &StoreLister{store: store}
}

// ListAirports returns the stored codes in rank order.
func (s *StoreLister) ListAirports(ctx context.Context) ([]string, error) {
	codes, err := s.store.ListCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("airports: list from store: %w", err)
	}
	return codes, nil
}
