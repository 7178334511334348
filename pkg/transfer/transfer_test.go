package transfer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestStateBasics(t *testing.T) {
	s := NewState()

	s.Set("a", 1)
	s.Set("b", "two")
	s.Set("a", 3)

	v, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a", "b"}, s.Keys())

	s.Delete("a")
	_, ok = s.Get("a")
	assert.False(t, ok)
}

func TestMarshalEscapesScriptBreakers(t *testing.T) {
	s := NewState()
	s.Set("x", "</script><script>alert(1)</script>")

	blob, err := s.Marshal()
	require.NoError(t, err)
	assert.NotContains(t, string(blob), "</script>")
}

func TestEmbedAndExtract(t *testing.T) {
	doc, err := html.Parse(strings.NewReader("<!doctype html><html><head></head><body><app-root></app-root></body></html>"))
	require.NoError(t, err)

	s := NewState()
	s.Set("nghData", []map[string]any{{}})
	s.Set("userState", map[string]any{"cart": 3})

	require.NoError(t, s.Embed(doc, "shop"))

	var buf bytes.Buffer
	require.NoError(t, html.Render(&buf, doc))
	out := buf.String()
	assert.Contains(t, out, `id="shop-state"`)
	assert.Contains(t, out, `type="application/json"`)

	// The read half recovers what the write half stored.
	reparsed, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)
	state, err := Extract(reparsed, "shop")
	require.NoError(t, err)

	var table []json.RawMessage
	require.NoError(t, json.Unmarshal(state["nghData"], &table))
	assert.Len(t, table, 1)

	var user struct {
		Cart int `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(state["userState"], &user))
	assert.Equal(t, 3, user.Cart)
}

func TestExtractErrors(t *testing.T) {
	doc, err := html.Parse(strings.NewReader("<!doctype html><html><body></body></html>"))
	require.NoError(t, err)

	_, err = Extract(doc, "missing")
	assert.Error(t, err)
}

func TestEmbedRequiresBody(t *testing.T) {
	s := NewState()
	frag := &html.Node{Type: html.ElementNode, Data: "div"}
	assert.Error(t, s.Embed(frag, "app"))
}

func TestScriptID(t *testing.T) {
	assert.Equal(t, "shop-state", ScriptID("shop"))
}
