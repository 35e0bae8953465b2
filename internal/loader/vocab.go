package loader

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

// LoadVocabulary reads the canonical event-type list, one name per line.
// Blank lines are skipped; order is preserved because it breaks fuzzy-match
// ties.
func LoadVocabulary(path string) (domain.Vocabulary, error) {
	rc, err := openMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var vocab domain.Vocabulary
	scanner := bufio.NewScanner(rc)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		vocab = append(vocab, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if len(vocab) == 0 {
		return nil, fmt.Errorf("%s: no vocabulary entries", path)
	}
	return vocab, nil
}
