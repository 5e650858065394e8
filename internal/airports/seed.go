package airports

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jclinedev/hiddencity/internal/domain"
)

// LoadSeedList reads airport reference entries from a file, one per line as
// "CODE,Name" (the name is optional). Rank is the line's position in the
// file, so the file is written busiest first. Blank lines and lines starting
// with '#' are ignored.
func LoadSeedList(path string) ([]domain.Airport, error) {
	path = filepath.Clean(path)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("airports: open seed %s: %w", path, err)
	}
	defer file.Close()

	var list []domain.Airport
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		code, name, _ := strings.Cut(line, ",")
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		list = append(list, domain.Airport{
			Code: code,
			Name: strings.TrimSpace(name),
			Rank: len(list) + 1,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("airports: read seed %s: %w", path, err)
	}
	return list, nil
}
