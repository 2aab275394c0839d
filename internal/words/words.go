package words

import (
	"bufio"
	"math/rand"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Fallback is served whenever no corpus can be loaded. Matches the sample
// list the frontend was originally developed against.
var Fallback = []string{"component", "reactivitat", "javascript", "framework", "template"}

const minWordsPerPlayer = 20

// Source yields the full word corpus. Loaded once at startup, read-only after.
type Source interface {
	Load() ([]string, error)
}

// FileSource reads one word per line from a plain text file.
// Blank lines and surrounding whitespace are ignored.
type FileSource struct {
	Path string
}

func (s FileSource) Load() ([]string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var corpus []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		w := strings.TrimSpace(scanner.Text())
		if w != "" {
			corpus = append(corpus, w)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return corpus, nil
}

// MustLoad loads the corpus from src, substituting Fallback if the source is
// nil, errors out, or comes back empty. Never fails: a broken corpus must not
// keep the server from starting.
func MustLoad(src Source, logger *zap.Logger) []string {
	if src == nil {
		return Fallback
	}
	corpus, err := src.Load()
	if err != nil {
		logger.Warn("could not load word corpus, using fallback list", zap.Error(err))
		return Fallback
	}
	if len(corpus) == 0 {
		logger.Warn("word corpus is empty, using fallback list")
		return Fallback
	}
	return corpus
}

// Assign shuffles the corpus and deals every player an equally sized window.
//
// Each player i receives shuffled[(j+i) mod N] for j in [0, wordsPerPlayer),
// where wordsPerPlayer = max(20, N/P). Offsetting the windows keeps early
// words distinct between players even when the corpus is small enough that
// windows overlap.
func Assign(corpus []string, playerIDs []string, rng *rand.Rand) map[string][]string {
	if len(playerIDs) == 0 {
		return map[string][]string{}
	}
	if len(corpus) == 0 {
		corpus = Fallback
	}

	shuffled := make([]string, len(corpus))
	copy(shuffled, corpus)
	rng.Shuffle(len(shuffled), func(a, b int) {
		shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
	})

	perPlayer := len(shuffled) / len(playerIDs)
	if perPlayer < minWordsPerPlayer {
		perPlayer = minWordsPerPlayer
	}

	assignment := make(map[string][]string, len(playerIDs))
	for i, id := range playerIDs {
		list := make([]string, perPlayer)
		for j := 0; j < perPlayer; j++ {
			list[j] = shuffled[(j+i)%len(shuffled)]
		}
		assignment[id] = list
	}
	return assignment
}
