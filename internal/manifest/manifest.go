// Package manifest decodes package.json payloads as served by the contents
// API (base64, wrapped at 60 columns).
package manifest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// Manifest is the part of package.json the report reads. Any of the maps may
// be nil.
type Manifest struct {
	Name             string
	Version          string
	Dependencies     map[string]string
	DevDependencies  map[string]string
	PeerDependencies map[string]string
}

// DecodeError reports a payload that is not base64 encoded JSON text.
type DecodeError struct {
	// Stage is "base64" or "json".
	Stage string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var utf8BOM = []byte("\xef\xbb\xbf")

// Decode base64-decodes content and parses it as package.json. Whitespace and
// line breaks inside the base64 text are ignored.
func Decode(content string) (*Manifest, error) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, content)

	raw, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, &DecodeError{Stage: "base64", Err: err}
	}
	return Parse(raw)
}

// Parse parses already-decoded package.json text.
func Parse(data []byte) (*Manifest, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var pkg packageFile
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, &DecodeError{Stage: "json", Err: err}
	}

	return &Manifest{
		Name:             stringValue(pkg.Name),
		Version:          stringValue(pkg.Version),
		Dependencies:     stringMap(pkg.Dependencies),
		DevDependencies:  stringMap(pkg.DevDependencies),
		PeerDependencies: stringMap(pkg.PeerDependencies),
	}, nil
}

// Lookup returns the declared version range for dep. The runtime map is read
// first, then devDependencies, then (when peer is set) peerDependencies; a
// later map overrides an earlier one.
func (m *Manifest) Lookup(dep string, peer bool) (string, bool) {
	if m == nil {
		return "", false
	}
	version, found := "", false
	maps := []map[string]string{m.Dependencies, m.DevDependencies}
	if peer {
		maps = append(maps, m.PeerDependencies)
	}
	for _, deps := range maps {
		if v, ok := deps[dep]; ok {
			version, found = v, true
		}
	}
	return version, found
}

// packageFile keeps values raw; a non-string entry drops only that entry.
type packageFile struct {
	Name             json.RawMessage            `json:"name"`
	Version          json.RawMessage            `json:"version"`
	Dependencies     map[string]json.RawMessage `json:"dependencies"`
	DevDependencies  map[string]json.RawMessage `json:"devDependencies"`
	PeerDependencies map[string]json.RawMessage `json:"peerDependencies"`
}

func stringValue(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func stringMap(raw map[string]json.RawMessage) map[string]string {
	if raw == nil {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			continue
		}
		out[k] = s
	}
	return out
}
