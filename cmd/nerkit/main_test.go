package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCorpus = `<corpus><document name="d1" lang="en"><p>
<sentence>She moved to <ENAMEX type="location">Paris</ENAMEX> in 1999.</sentence>
<sentence>Nothing here.</sentence>
</p></document></corpus>`

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// setup writes a config with a small lexicon and returns its path.
func setup(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	lex := writeTemp(t, dir, "lexicon.yaml", "city: [Paris, New York]\n")
	cfgPath = writeTemp(t, dir, "nerkit.yaml", "lexicon:\n  path: "+lex+"\n")
	return dir, cfgPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		configPath, tagHTML, tagFile, tagJSON = "", false, "", false
		trainOutput, lexiconDB, serveAddr = "", "", ""
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestTag(t *testing.T) {
	_, cfgPath := setup(t)

	out, err := run(t, "tag", "--config", cfgPath, "Flights", "to", "New", "York")
	require.NoError(t, err)
	assert.Equal(t, "11\t19\tLOCATION\tNew York\t1.000\n", out)
}

func TestTagJSONFromHTMLFile(t *testing.T) {
	dir, cfgPath := setup(t)
	page := writeTemp(t, dir, "page.html", "<html><body><p>Visit <i>Paris</i></p></body></html>")

	out, err := run(t, "tag", "-c", cfgPath, "--html", "--file", page, "--json")
	require.NoError(t, err)

	var ents []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &ents))
	require.Len(t, ents, 1)
	assert.Equal(t, "Paris", ents[0]["rawName"])
	assert.Equal(t, "LOCATION", ents[0]["type"])
}

func TestFeatures(t *testing.T) {
	out, err := run(t, "features", "Paris", "1999")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Paris paris P Pa"))
	assert.True(t, strings.HasSuffix(lines[1], " 0"))
}

func TestIngest(t *testing.T) {
	dir, _ := setup(t)
	file := writeTemp(t, dir, "corpus.xml", testCorpus)

	out, err := run(t, "ingest", file)
	require.NoError(t, err)
	assert.Contains(t, out, "\td1\ten\tparagraphs=1\tsentences=2\tentities=1\n")
}

func TestIngestReportsFailedFiles(t *testing.T) {
	dir, _ := setup(t)
	good := writeTemp(t, dir, "good.xml", testCorpus)
	bad := writeTemp(t, dir, "bad.xml", "<document><sentence>")

	out, err := run(t, "ingest", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")
	assert.Contains(t, out, "sentences=2")
}

func TestTrainFeatures(t *testing.T) {
	dir, cfgPath := setup(t)
	file := writeTemp(t, dir, "corpus.xml", testCorpus)
	outPath := filepath.Join(dir, "train.txt")

	_, err := run(t, "train-features", "-c", cfgPath, "-o", outPath, file)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	blocks := strings.Split(strings.TrimSuffix(string(data), "\n\n"), "\n\n")
	require.Len(t, blocks, 2)
	assert.Contains(t, blocks[0], "Paris paris")
	assert.Contains(t, blocks[0], " B-LOCATION\n")
}

func TestEval(t *testing.T) {
	dir, cfgPath := setup(t)
	file := writeTemp(t, dir, "corpus.xml", testCorpus)

	out, err := run(t, "eval", "-c", cfgPath, file)
	require.NoError(t, err)
	assert.Contains(t, out, "LOCATION")
	assert.Contains(t, out, "micro")
}

func TestLexiconImport(t *testing.T) {
	dir, _ := setup(t)
	lex := writeTemp(t, dir, "more.yaml", "country: [Belgium]\ncity: [Brussels, Ghent]\n")
	db := filepath.Join(dir, "gaz.db")

	out, err := run(t, "lexicon", "import", "--db", db, lex)
	require.NoError(t, err)
	assert.Contains(t, out, "city\t2\n")
	assert.Contains(t, out, "country\t1\n")
}

func TestLexiconImportNeedsDB(t *testing.T) {
	dir, _ := setup(t)
	lex := writeTemp(t, dir, "more.yaml", "city: [Ghent]\n")

	_, err := run(t, "lexicon", "import", lex)
	assert.ErrorIs(t, err, errMissingDB)
}
