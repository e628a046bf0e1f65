package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/nerkit/pkg/nerkit/lexicon"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	st, err := Open(context.Background(), filepath.Join(t.TempDir(), "gazetteer.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestStoreImportAndContains(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)

	n, err := st.Import(ctx, lexicon.City, []string{"New York", "Paris", "paris", ""})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.True(t, st.Contains(lexicon.City, "NEW YORK"))
	assert.True(t, st.Contains(lexicon.City, "Paris"))
	assert.False(t, st.Contains(lexicon.Country, "Paris"))
	assert.Equal(t, 2, st.MaxTokens(lexicon.City))
	assert.Equal(t, 0, st.MaxTokens(lexicon.Country))

	count, err := st.Count(ctx, lexicon.City)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStoreCacheInvalidatedOnImport(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)

	assert.False(t, st.Contains(lexicon.Country, "Belgium"))

	_, err := st.Import(ctx, lexicon.Country, []string{"Belgium"})
	require.NoError(t, err)
	assert.True(t, st.Contains(lexicon.Country, "Belgium"))
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "gazetteer.db")

	st, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = st.Import(ctx, lexicon.Organisation, []string{"National Archives of Belgium"})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = Open(ctx, path)
	require.NoError(t, err)
	defer st.Close()

	assert.Equal(t, 4, st.MaxTokens(lexicon.Organisation))
	assert.True(t, st.Contains(lexicon.Organisation, "national archives of belgium"))
}

func TestStoreImportLexiconDrivesIndexer(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)

	lex := lexicon.New()
	lex.Add(lexicon.Country, "United Kingdom")
	lex.Add(lexicon.PersonTitle, "Sir")

	n, err := st.ImportLexicon(ctx, lex)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	flags := lexicon.NewIndexer(st).Index([]string{"Sir", "John", "left", "the", "United", "Kingdom"})
	assert.True(t, flags[0].PersonTitle)
	assert.False(t, flags[1].PersonTitle)
	assert.True(t, flags[4].Country)
	assert.True(t, flags[5].Country)
}
