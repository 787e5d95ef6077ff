package manifest

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// wrap splits base64 text into 60-column lines like the contents API does.
func wrap(s string) string {
	var out string
	for len(s) > 60 {
		out += s[:60] + "\n"
		s = s[60:]
	}
	return out + s + "\n"
}

func TestDecode(t *testing.T) {
	content := encode(`{
  "name": "my-package",
  "version": "1.0.0",
  "dependencies": {"express": "^4.18.0", "lodash": "^4.17.21"},
  "devDependencies": {"jest": "^29.0.0"},
  "peerDependencies": {"react": ">=17"}
}`)

	m, err := Decode(wrap(content))
	require.NoError(t, err)
	assert.Equal(t, "my-package", m.Name)
	assert.Equal(t, "1.0.0", m.Version)
	assert.Equal(t, map[string]string{"express": "^4.18.0", "lodash": "^4.17.21"}, m.Dependencies)
	assert.Equal(t, map[string]string{"jest": "^29.0.0"}, m.DevDependencies)
	assert.Equal(t, map[string]string{"react": ">=17"}, m.PeerDependencies)
}

func TestDecode_Idempotent(t *testing.T) {
	content := encode(`{"dependencies":{"X":"1.0.0"},"devDependencies":{"Y":"2.0.0"}}`)

	first, err := Decode(content)
	require.NoError(t, err)
	second, err := Decode(content)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDecode_MissingMaps(t *testing.T) {
	m, err := Decode(encode(`{"name":"bare"}`))
	require.NoError(t, err)
	assert.Nil(t, m.Dependencies)
	assert.Nil(t, m.DevDependencies)

	_, ok := m.Lookup("anything", true)
	assert.False(t, ok)
}

func TestDecode_SkipsNonStringValues(t *testing.T) {
	m, err := Decode(encode(`{"name":42,"dependencies":{"good":"1.0.0","bad":{"version":"2"}}}`))
	require.NoError(t, err)
	assert.Equal(t, "", m.Name)
	assert.Equal(t, map[string]string{"good": "1.0.0"}, m.Dependencies)
}

func TestDecode_StripsBOM(t *testing.T) {
	m, err := Decode(encode("\xef\xbb\xbf{\"dependencies\":{\"X\":\"1\"}}"))
	require.NoError(t, err)
	assert.Equal(t, "1", m.Dependencies["X"])
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantStage string
	}{
		{name: "not base64", content: "!!!not-base64!!!", wantStage: "base64"},
		{name: "not json", content: encode("this is not json"), wantStage: "json"},
		{name: "truncated json", content: encode(`{"dependencies":{"X":`), wantStage: "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.content)
			var de *DecodeError
			require.True(t, errors.As(err, &de), "expected *DecodeError, got %T (%v)", err, err)
			assert.Equal(t, tt.wantStage, de.Stage)
			assert.NotNil(t, errors.Unwrap(err))
		})
	}
}

func TestLookup_Precedence(t *testing.T) {
	m := &Manifest{
		Dependencies:     map[string]string{"X": "1.0.0", "only-runtime": "0.1.0"},
		DevDependencies:  map[string]string{"X": "2.0.0"},
		PeerDependencies: map[string]string{"X": "3.0.0", "only-peer": ">=1"},
	}

	tests := []struct {
		name  string
		dep   string
		peer  bool
		want  string
		found bool
	}{
		{name: "dev overrides runtime", dep: "X", want: "2.0.0", found: true},
		{name: "peer overrides dev when enabled", dep: "X", peer: true, want: "3.0.0", found: true},
		{name: "runtime only", dep: "only-runtime", want: "0.1.0", found: true},
		{name: "peer ignored by default", dep: "only-peer", found: false},
		{name: "peer only when enabled", dep: "only-peer", peer: true, want: ">=1", found: true},
		{name: "absent", dep: "nope", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Lookup(tt.dep, tt.peer)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookup_EmptyVersionStillCounts(t *testing.T) {
	m := &Manifest{Dependencies: map[string]string{"X": ""}}
	got, ok := m.Lookup("X", false)
	assert.True(t, ok)
	assert.Equal(t, "", got)
}
