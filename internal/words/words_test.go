package words

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func corpusOfSize(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = string(rune('a'+i%26)) + string(rune('0'+i%10))
	}
	return out
}

func TestAssign_EveryPlayerGetsSameLength(t *testing.T) {
	cases := []struct {
		name       string
		corpusSize int
		players    int
		wantLen    int
	}{
		{"large corpus", 100, 3, 33},
		{"small corpus pads to minimum", 10, 2, 20},
		{"corpus smaller than minimum", 3, 4, 20},
		{"exact split", 40, 2, 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ids := make([]string, tc.players)
			for i := range ids {
				ids[i] = string(rune('A' + i))
			}
			rng := rand.New(rand.NewSource(1))
			got := Assign(corpusOfSize(tc.corpusSize), ids, rng)

			require.Len(t, got, tc.players)
			for _, id := range ids {
				require.Len(t, got[id], tc.wantLen)
			}
		})
	}
}

func TestAssign_WindowsAreOffset(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	got := Assign(corpusOfSize(50), []string{"a", "b", "c"}, rng)

	// player i starts at shuffled[i], so first words must all differ
	require.NotEqual(t, got["a"][0], got["b"][0])
	require.NotEqual(t, got["b"][0], got["c"][0])
	require.NotEqual(t, got["a"][0], got["c"][0])

	// and b's window is a's shifted by one
	require.Equal(t, got["a"][1], got["b"][0])
}

func TestAssign_EmptyCorpusFallsBack(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	got := Assign(nil, []string{"a"}, rng)
	require.Len(t, got["a"], 20)
	for _, w := range got["a"] {
		require.Contains(t, Fallback, w)
	}
}

func TestAssign_NoPlayers(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	require.Empty(t, Assign(corpusOfSize(10), nil, rng))
}

func TestMustLoad_FallbackPaths(t *testing.T) {
	logger := zap.NewNop()

	require.Equal(t, Fallback, MustLoad(nil, logger))
	require.Equal(t, Fallback, MustLoad(FileSource{Path: "does/not/exist.txt"}, logger))
}

func TestFileSource_ReadsWordPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("hola\n\n  mon  \ntecla\n"), 0o644))

	corpus, err := FileSource{Path: path}.Load()
	require.NoError(t, err)
	require.Equal(t, []string{"hola", "mon", "tecla"}, corpus)
}
