package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/nerkit/pkg/nerkit/entity"
	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
	"github.com/cognicore/nerkit/pkg/nerkit/lexicon"
	"github.com/cognicore/nerkit/pkg/nerkit/ner"
	"github.com/cognicore/nerkit/pkg/nerkit/tagger"
	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	lex := lexicon.New()
	lex.Add(lexicon.City, "Brussels", "New York")
	p, err := ner.New(ner.Options{Gazetteer: lex, Tagger: tagger.Baseline{}})
	require.NoError(t, err)

	ts := httptest.NewServer(New(p, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

type wireEntity struct {
	Type  string `json:"type"`
	Raw   string `json:"rawName"`
	Start int    `json:"offsetStart"`
	End   int    `json:"offsetEnd"`
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestExtractText(t *testing.T) {
	ts := newTestServer(t)

	resp, out := post(t, ts.URL+"/api/ner/text", `{"text":"Flights from New York to Brussels"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ents []wireEntity
	require.NoError(t, json.Unmarshal(out["entities"], &ents))
	require.Len(t, ents, 2)
	assert.Equal(t, wireEntity{Type: "LOCATION", Raw: "New York", Start: 13, End: 21}, ents[0])
	assert.Equal(t, "Brussels", ents[1].Raw)
}

func TestExtractTextHTML(t *testing.T) {
	ts := newTestServer(t)

	resp, out := post(t, ts.URL+"/api/ner/text", `{"text":"<p>Visit <b>Brussels</b></p>","html":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var text string
	require.NoError(t, json.Unmarshal(out["text"], &text))
	assert.Equal(t, "Visit Brussels", text)

	var ents []wireEntity
	require.NoError(t, json.Unmarshal(out["entities"], &ents))
	require.Len(t, ents, 1)
	assert.Equal(t, "Brussels", text[ents[0].Start:ents[0].End])
}

func TestExtractTextEmptyGivesEmptyList(t *testing.T) {
	ts := newTestServer(t)

	resp, out := post(t, ts.URL+"/api/ner/text", `{"text":""}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(out["entities"]))
}

func TestExtractTokens(t *testing.T) {
	ts := newTestServer(t)

	body := `{"tokens":[
		{"text":"Brussels","start":0,"end":8,"layout":{"page":1,"box":{"x":10,"y":20,"w":40,"h":10},"baseline":30}},
		{"text":" ","start":8,"end":9,"layout":{"page":1,"box":{"x":50,"y":20,"w":3,"h":10},"baseline":30}},
		{"text":"today","start":9,"end":14,"layout":{"page":1,"box":{"x":53,"y":20,"w":25,"h":10},"baseline":30}}
	]}`
	resp, out := post(t, ts.URL+"/api/ner/tokens", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ents []struct {
		Raw string           `json:"rawName"`
		Pos []token.Position `json:"pos"`
	}
	require.NoError(t, json.Unmarshal(out["entities"], &ents))
	require.Len(t, ents, 1)
	assert.Equal(t, "Brussels", ents[0].Raw)
	require.Len(t, ents[0].Pos, 1)
	assert.Equal(t, 1, ents[0].Pos[0].Page)
}

func TestBadRequests(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := post(t, ts.URL+"/api/ner/text", `{"text":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, ts.URL+"/api/ner/text", `{"txt":"typo"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type failingExtractor struct{ err error }

func (f failingExtractor) ExtractText(context.Context, string) ([]entity.Entity, error) {
	return nil, f.err
}

func (f failingExtractor) ExtractTokens(context.Context, []token.Token) ([]entity.Entity, error) {
	return nil, f.err
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", internalerr.ErrTaggerContract), http.StatusBadGateway},
		{fmt.Errorf("x: %w", internalerr.ErrInvalidFeatureInput), http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		ts := httptest.NewServer(New(failingExtractor{tt.err}, nil).Handler())
		resp, out := post(t, ts.URL+"/api/ner/tokens", `{"tokens":[]}`)
		assert.Equal(t, tt.want, resp.StatusCode)
		assert.Contains(t, string(out["error"]), tt.err.Error())
		ts.Close()
	}
}
