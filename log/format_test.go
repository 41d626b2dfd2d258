// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sink []byte

func BenchmarkPrettyInt64Logfmt(b *testing.B) {
	buf := make([]byte, 100)
	b.ReportAllocs()
	for b.Loop() {
		sink = appendInt64(buf, rand.Int64()) //#nosec G404
	}
}

func TestAppendInt(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{99999, "99999"},
		{-99999, "-99999"},
		{100000, "100,000"},
		{-1234567, "-1,234,567"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(appendInt64(nil, tt.n)))
	}
	assert.Equal(t, "18,446,744,073,709,551,615", string(appendUint64(nil, ^uint64(0), false)))
}

func TestTerminalHandler(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(NewTerminalHandler(&buf, false))

	l.Info("hello world", "k", "v w", "n", 1000000, "big", big.NewInt(7))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "INFO ["))
	assert.Contains(t, out, "hello world")
	assert.Contains(t, out, `k="v w"`)
	assert.Contains(t, out, "n=1,000,000")
	assert.Contains(t, out, "big=7")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestJSONHandler(t *testing.T) {
	var (
		buf bytes.Buffer
		lvl slog.LevelVar
	)
	lvl.Set(slog.LevelInfo)
	l := NewLogger(JSONHandlerWithLevel(&buf, &lvl))

	l.Debug("dropped")
	assert.Zero(t, buf.Len())

	l.Warn("kept", "v", uint256.NewInt(42))
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "warn", rec["lvl"])
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "42", rec["v"])
}

func TestLogfmtHandler(t *testing.T) {
	var (
		buf bytes.Buffer
		lvl slog.LevelVar
	)
	lvl.Set(slog.LevelInfo)
	l := NewLogger(LogfmtHandlerWithLevel(&buf, &lvl))

	l.Debug("dropped")
	assert.Zero(t, buf.Len())

	l.Info("kept", "v", uint256.NewInt(42))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "t="))
	assert.Contains(t, out, "lvl=info")
	assert.Contains(t, out, "msg=kept")
	assert.Contains(t, out, "v=42")
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatTerminal, "terminal": FormatTerminal, "json": FormatJSON, "logfmt": FormatLogfmt} {
		f, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, f)
	}
	_, err := ParseFormat("xml")
	assert.ErrorContains(t, err, "unknown log format")
}

func TestStreamHandler(t *testing.T) {
	var lvl slog.LevelVar
	lvl.Set(slog.LevelInfo)

	for _, format := range []Format{FormatTerminal, FormatJSON, FormatLogfmt} {
		path := filepath.Join(t.TempDir(), "log")
		f, err := os.Create(path)
		require.NoError(t, err)

		NewLogger(StreamHandler(f, &lvl, format)).Info("streamed", "k", 1)
		require.NoError(t, f.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		switch format {
		case FormatJSON:
			var rec map[string]any
			require.NoError(t, json.Unmarshal(data, &rec))
			assert.Equal(t, "streamed", rec["msg"])
		case FormatLogfmt:
			assert.Contains(t, string(data), "msg=streamed")
		default:
			// a file is not a terminal, so no colour codes
			assert.True(t, strings.HasPrefix(string(data), "INFO ["))
			assert.NotContains(t, string(data), "\x1b[")
		}
	}
}

func TestWithContextFollowsRoot(t *testing.T) {
	pkgLogger := WithContext("pkg", "test")

	var buf bytes.Buffer
	old := Root()
	SetDefault(NewLogger(JSONHandler(&buf)))
	defer SetDefault(old)

	pkgLogger.Info("msg", "a", 1)
	assert.Contains(t, buf.String(), `"pkg":"test"`)
	assert.Contains(t, buf.String(), `"a":1`)
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
	assert.Equal(t, slog.LevelInfo, FromLegacyLevel(3))
	assert.Equal(t, LevelTrace, FromLegacyLevel(5))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
	assert.Equal(t, LevelCrit, FromLegacyLevel(-1))
}
