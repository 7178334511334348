// Package transfer implements the transfer-state channel: an
// out-of-band key-value store the server serializes into the HTML
// document and the client reads back at bootstrap.
//
// The hydration annotation table travels through this channel, alongside
// whatever application state the render chooses to forward. The store is
// serialized as a JSON document inside a script element with a
// well-known id derived from the application id.
package transfer

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/newbpydev/bubblyweb/pkg/dom"
)

// ScriptType is the MIME type of the embedded transfer-state script
// element. The client looks the element up by id and never executes it.
const ScriptType = "application/json"

// State is a per-render transfer-state store. It is written by the
// server during one render and embedded into the document at the end.
//
// Thread-safe: pre-serialization hooks may run concurrently and write
// application state while the render is still settling.
type State struct {
	mu   sync.RWMutex
	data map[string]interface{}
}

// NewState creates an empty transfer-state store.
func NewState() *State {
	return &State{data: make(map[string]interface{})}
}

// Set stores a value under a key, replacing any previous value. The
// value must be JSON-marshalable; anything else surfaces as an error
// when the state is embedded.
func (s *State) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// Get returns the value stored under a key.
func (s *State) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// Delete removes a key.
func (s *State) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Len returns the number of stored keys.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Keys returns the stored keys in sorted order.
func (s *State) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Marshal serializes the store as a JSON object. encoding/json escapes
// angle brackets by default, so the output is safe to inline into a
// script element.
func (s *State) Marshal() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.Marshal(s.data)
}

// ScriptID returns the id of the transfer-state script element for the
// given application id. Server and client derive it identically.
func ScriptID(appID string) string {
	return appID + "-state"
}

// Embed serializes the store and appends it to the document body as a
// script element. Documents without a body are malformed input and
// rejected.
func (s *State) Embed(doc *html.Node, appID string) error {
	payload, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("marshaling transfer state: %w", err)
	}
	body := dom.FindElement(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Body
	})
	if body == nil {
		return fmt.Errorf("document has no body element")
	}
	script := dom.Element("script",
		html.Attribute{Key: "id", Val: ScriptID(appID)},
		html.Attribute{Key: "type", Val: ScriptType},
	)
	script.AppendChild(dom.Text(string(payload)))
	body.AppendChild(script)
	return nil
}

// Extract locates the transfer-state script for the given application id
// in a parsed document and unmarshals it. It is the read half of the
// channel, used by tooling and tests; the client performs the same
// lookup in the browser.
func Extract(doc *html.Node, appID string) (map[string]json.RawMessage, error) {
	script := dom.FindElement(doc, func(n *html.Node) bool {
		id, _ := dom.GetAttribute(n, "id")
		return n.DataAtom == atom.Script && id == ScriptID(appID)
	})
	if script == nil {
		return nil, fmt.Errorf("no transfer-state script %q in document", ScriptID(appID))
	}
	if script.FirstChild == nil {
		return nil, fmt.Errorf("transfer-state script %q is empty", ScriptID(appID))
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal([]byte(script.FirstChild.Data), &out); err != nil {
		return nil, fmt.Errorf("parsing transfer state: %w", err)
	}
	return out, nil
}
