package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, name string) {
	t.Helper()
	data := "name: " + name + "\nmiddlewares:\n  - type: recovery\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	writeConfig(t, path, "before")

	reloaded := make(chan *PipelineConfig, 1)
	w, err := NewWatcher(path, func(cfg *PipelineConfig) {
		select {
		case reloaded <- cfg:
		default:
		}
	}, WithDebounceDelay(10*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, w.Start())
	defer w.Stop()

	writeConfig(t, path, "after")

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "after", cfg.Name)
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not observed")
	}
}

func TestWatcher_ErrorCallbackOnInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	writeConfig(t, path, "valid")

	errs := make(chan error, 1)
	w, err := NewWatcher(path,
		func(*PipelineConfig) { t.Error("callback must not run for invalid config") },
		WithDebounceDelay(10*time.Millisecond),
		WithErrorCallback(func(err error) {
			select {
			case errs <- err:
			default:
			}
		}),
	)
	require.NoError(t, err)

	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("name: [broken"), 0o644))

	select {
	case err := <-errs:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("error callback was not invoked")
	}
}

func TestWatcher_StartTwiceFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	writeConfig(t, path, "p")

	w, err := NewWatcher(path, func(*PipelineConfig) {})
	require.NoError(t, err)

	require.NoError(t, w.Start())
	defer w.Stop()

	assert.Error(t, w.Start())
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	writeConfig(t, path, "p")

	w, err := NewWatcher(path, func(*PipelineConfig) {})
	require.NoError(t, err)

	require.NoError(t, w.Start())
	w.Stop()
	w.Stop()
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	writeConfig(t, path, "p")

	w, err := NewWatcher(path,
		func(*PipelineConfig) { t.Error("callback must not run for unrelated files") },
		WithDebounceDelay(10*time.Millisecond),
	)
	require.NoError(t, err)

	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))
	time.Sleep(100 * time.Millisecond)
}
