package cli

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgchrksv/ieltspodcaster/config"
)

func TestGeneratorLoadersFollowProviderOrder(t *testing.T) {
	cfg := config.Default().Generation
	cfg.Providers = []string{"openai", "gemini"}

	loaders, err := generatorLoaders(cfg)
	require.NoError(t, err)
	require.Len(t, loaders, 2)
	assert.Equal(t, "openai", loaders[0].Name)
	assert.Equal(t, "gemini", loaders[1].Name)
}

func TestGeneratorLoadersUnknownProvider(t *testing.T) {
	cfg := config.Default().Generation
	cfg.Providers = []string{"gpt2"}
	_, err := generatorLoaders(cfg)
	require.Error(t, err)
}

func TestNewLoggerLevel(t *testing.T) {
	logger := newLogger(config.LogConfig{Level: "warn", Format: "json"})
	assert.False(t, logger.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, logger.Enabled(t.Context(), slog.LevelWarn))

	logger = newLogger(config.LogConfig{Level: "nonsense"})
	assert.True(t, logger.Enabled(t.Context(), slog.LevelInfo))
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := SetupRootCmd()
	for _, name := range []string{"serve", "dialogue", "prune"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestPruneCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("IELTS_AUDIO_DIR", dir)

	now := time.Now()
	files := []string{"old.mp3", "podcast_mid.mp3", "new.mp3", "temp_job_0.mp3"}
	for i, name := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		mtime := now.Add(time.Duration(i-len(files)) * time.Minute)
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}

	root := SetupRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"prune", "--keep", "1"})
	require.NoError(t, root.Execute())

	removed := strings.Fields(out.String())
	assert.ElementsMatch(t, []string{"old.mp3", "podcast_mid.mp3"}, removed)

	left, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range left {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"new.mp3", "temp_job_0.mp3"}, names)
}

func TestPruneCommandRejectsNegativeKeep(t *testing.T) {
	t.Setenv("IELTS_AUDIO_DIR", t.TempDir())
	root := SetupRootCmd()
	root.SetArgs([]string{"prune", "--keep=-1"})
	require.Error(t, root.Execute())
}

func TestStartPrunerDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.AudioDir = t.TempDir()
	cfg.Storage.PruneSchedule = ""

	a, err := newApp(cfg, slog.Default())
	require.NoError(t, err)
	defer a.Close()

	scheduler, err := startPruner(a)
	require.NoError(t, err)
	assert.Nil(t, scheduler)
}

func TestStartPrunerBadSchedule(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.AudioDir = t.TempDir()
	cfg.Storage.PruneSchedule = "every now and then"

	a, err := newApp(cfg, slog.Default())
	require.NoError(t, err)
	defer a.Close()

	_, err = startPruner(a)
	require.Error(t, err)
}
