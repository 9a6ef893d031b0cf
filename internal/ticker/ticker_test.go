package ticker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/homepage/internal/config"
	"github.com/pders01/homepage/internal/feed"
)

type fixedPrefixes []string

func (f fixedPrefixes) CurrentPrefixes() []string { return f }

func TestCompose(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		prefixes []string
		expected string
	}{
		{
			name:     "message only",
			message:  "hello",
			expected: "hello",
		},
		{
			name:     "one prefix",
			message:  "hello",
			prefixes: []string{"— BSV $57.30 —"},
			expected: "— BSV $57.30 —" + MessageSeparator + "hello",
		},
		{
			name:     "two prefixes",
			message:  "hello",
			prefixes: []string{"— BSV $57.30 —", "— F&G 40 Fear —"},
			expected: "— BSV $57.30 —" + PrefixSeparator + "— F&G 40 Fear —" + MessageSeparator + "hello",
		},
		{
			name:     "empty prefixes skipped",
			message:  "hello",
			prefixes: []string{"", "— F&G 40 Fear —", ""},
			expected: "— F&G 40 Fear —" + MessageSeparator + "hello",
		},
		{
			name:     "prefixes without message",
			prefixes: []string{"— BSV $? —"},
			expected: "— BSV $? —",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Compose(tt.message, tt.prefixes))
		})
	}
}

func TestRender_RepeatsUnitFiveTimes(t *testing.T) {
	m := Render("welcome to my page", []string{"— BSV $57.30 —"}, DefaultRepeat)

	units := strings.Split(m.Text, UnitSeparator)
	require.Len(t, units, 5)
	for _, u := range units {
		assert.Equal(t, m.Unit, u)
		assert.Equal(t, 1, strings.Count(u, "welcome to my page"))
	}
}

func TestRender_InvalidRepeatUsesDefault(t *testing.T) {
	m := Render("x", nil, 0)
	assert.Len(t, strings.Split(m.Text, UnitSeparator), DefaultRepeat)
}

func TestScrollDuration(t *testing.T) {
	assert.Equal(t, 10*time.Second, ScrollDuration(""))
	assert.Equal(t, 10*time.Second, ScrollDuration(strings.Repeat("a", 66)))
	assert.Equal(t, 15*time.Second, ScrollDuration(strings.Repeat("a", 100)))

	// counted in characters, not bytes
	assert.Equal(t, ScrollDuration(strings.Repeat("a", 100)), ScrollDuration(strings.Repeat("—", 100)))
}

func TestScrollDuration_MonotonicWithFloor(t *testing.T) {
	prev := time.Duration(0)
	for n := 0; n <= 400; n++ {
		d := ScrollDuration(strings.Repeat("x", n))
		assert.GreaterOrEqual(t, d, 10*time.Second)
		assert.GreaterOrEqual(t, d, prev, "length %d", n)
		prev = d
	}
}

func TestRender_DurationUsesSingleUnit(t *testing.T) {
	unit := strings.Repeat("m", 200)
	m := Render(unit, nil, 5)
	assert.Equal(t, ScrollDuration(unit), m.Duration)
	assert.Equal(t, 200, utf8.RuneCountInString(m.Unit))
}

func TestTicker_CurrentTracksSources(t *testing.T) {
	prefixes := fixedPrefixes{"— F&G 40 Fear —"}
	tk := New(prefixes, "Loading...", 5)

	assert.Equal(t, "— F&G 40 Fear —"+MessageSeparator+"Loading...", tk.Current().Unit)

	tk.SetMessage("hi there")
	assert.Equal(t, "hi there", tk.Message())
	assert.Equal(t, "— F&G 40 Fear —"+MessageSeparator+"hi there", tk.Current().Unit)

	// idempotent
	assert.Equal(t, tk.Current(), tk.Current())
}

func TestTicker_NilSource(t *testing.T) {
	tk := New(nil, "static", 5)
	assert.Equal(t, "static", tk.Current().Unit)
}

func TestLoadMessage_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tooltip-message.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n  Welcome aboard  \n\n"), 0o644))

	msg, err := LoadMessage(context.Background(), nil, path)
	require.NoError(t, err)
	assert.Equal(t, "Welcome aboard", msg)
}

func TestLoadMessage_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tooltip-message.txt":
			w.Write([]byte("  remote message \n"))
		case "/empty":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	fetcher := feed.NewFetcher(config.TestConfig())

	msg, err := LoadMessage(context.Background(), fetcher, server.URL+"/tooltip-message.txt")
	require.NoError(t, err)
	assert.Equal(t, "remote message", msg)

	tests := []struct {
		name string
		path string
	}{
		{name: "not found", path: "/missing.txt"},
		{name: "no content", path: "/empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := LoadMessage(context.Background(), fetcher, server.URL+tt.path)
			assert.ErrorIs(t, err, feed.ErrNetwork)
			assert.Empty(t, msg)
		})
	}
}

func TestLoadMessage_DefaultPolicyRefusesLoopback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("should not be read"))
	}))
	defer server.Close()

	_, err := LoadMessage(context.Background(), nil, server.URL)
	assert.ErrorIs(t, err, feed.ErrEndpoint)
}

func TestLoadMessage_Errors(t *testing.T) {
	_, err := LoadMessage(context.Background(), nil, "")
	assert.Error(t, err)

	_, err = LoadMessage(context.Background(), nil, filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
