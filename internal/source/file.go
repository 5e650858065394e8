package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jclinedev/hiddencity/internal/domain"
)

// FileSource reads offer batches from a JSON file instead of the network.
// The file maps "ORIGIN-DESTINATION" route keys to offer arrays:
//
//	{"routes": {"JFK-SLC": [{"price_text": "$59.00", ...}]}}
//
// A route absent from the file yields an empty batch.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for the given path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: filepath.Clean(path)}
}

type offersFile struct {
	Routes map[string][]domain.RawOffer `json:"routes"`
}

// FetchOffers loads the batch for q from the file.
func (f *FileSource) FetchOffers(_ context.Context, q domain.RouteQuery) ([]domain.RawOffer, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("source: read offers file: %w", err)
	}

	var decoded offersFile
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("source: decode offers file: %w", err)
	}

	return decoded.Routes[q.Origin+"-"+q.Destination], nil
}
