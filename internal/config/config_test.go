package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
modules = ["react", "preact/compat"]
languages = ["javascript", "tsx"]

[exclude]
dirs = ["dist", "__generated__"]
files = ["*.stories.js"]

[watch]
debounce = "1s"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"react", "preact/compat"}, cfg.Modules)
	assert.Equal(t, []string{"javascript", "tsx"}, cfg.Languages)
	assert.Equal(t, []string{"dist", "__generated__"}, cfg.Exclude.Dirs)
	assert.Equal(t, []string{"*.stories.js"}, cfg.Exclude.Files)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
}

func TestLoad_DefaultDebounce(t *testing.T) {
	t.Parallel()
	cfg, err := Load(writeConfig(t, `modules = ["react"]`))
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, cfg.Watch.Debounce)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad toml", `modules = [`, "decode"},
		{"unknown language", `languages = ["python"]`, `unknown language "python"`},
		{"empty module", `modules = [""]`, "empty module name"},
		{"bad glob", "[exclude]\nfiles = [\"[a-\"]", "file pattern"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Parallel()
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestMatcher(t *testing.T) {
	t.Parallel()
	m, err := NewMatcher([]string{"dist", "gen*"}, []string{"*.stories.js", "*.d.ts"})
	require.NoError(t, err)

	assert.True(t, m.ExcludeDir("/repo/dist"))
	assert.True(t, m.ExcludeDir("/repo/src/generated"))
	assert.False(t, m.ExcludeDir("/repo/src"))

	assert.True(t, m.ExcludeFile("/repo/src/Button.stories.js"))
	assert.True(t, m.ExcludeFile("types.d.ts"))
	assert.False(t, m.ExcludeFile("/repo/src/Button.js"))

	assert.True(t, m.ExcludePath("/repo", "/repo/dist/bundle.js"))
	assert.True(t, m.ExcludePath("/repo", "/repo/src/generated/api/client.js"))
	assert.False(t, m.ExcludePath("/repo", "/repo/src/Button.js"))

	var none *Matcher
	assert.False(t, none.ExcludePath("/repo", "/repo/dist/bundle.js"))
}
