package modelfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("gguf-bytes"), 0o644))
}

func TestResolve_OverrideWins(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(dir, "custom.gguf")
	writeFile(t, override)

	resourceDir := filepath.Join(dir, "res")
	writeFile(t, filepath.Join(resourceDir, "veil.gguf"))

	path, err := Resolve(Config{
		OverridePath: override,
		FileName:     "veil.gguf",
		ResourceDir:  resourceDir,
		AppDataDir:   filepath.Join(dir, "appdata"),
	})
	require.NoError(t, err)
	require.Equal(t, override, path)
}

func TestResolve_ProbesInOrder(t *testing.T) {
	dir := t.TempDir()
	resourceDir := filepath.Join(dir, "res")
	nested := filepath.Join(resourceDir, "resources", "veil.gguf")
	writeFile(t, nested)

	path, err := Resolve(Config{
		FileName:    "veil.gguf",
		ResourceDir: resourceDir,
		AppDataDir:  filepath.Join(dir, "appdata"),
	})
	require.NoError(t, err)
	require.Equal(t, nested, path)
}

func TestResolve_AppDataDir(t *testing.T) {
	dir := t.TempDir()
	appData := filepath.Join(dir, "appdata")
	target := filepath.Join(appData, "veil.gguf")
	writeFile(t, target)

	path, err := Resolve(Config{FileName: "veil.gguf", AppDataDir: appData})
	require.NoError(t, err)
	require.Equal(t, target, path)
}

func TestResolve_DirectoryIsNotAModel(t *testing.T) {
	dir := t.TempDir()
	appData := filepath.Join(dir, "appdata")
	require.NoError(t, os.MkdirAll(filepath.Join(appData, "veil.gguf"), 0o755))

	_, err := Resolve(Config{FileName: "veil.gguf", AppDataDir: appData})
	require.Error(t, err)
	require.Contains(t, err.Error(), "exists but is not a file")
}

func TestResolve_ErrorEnumeratesCandidates(t *testing.T) {
	dir := t.TempDir()
	resourceDir := filepath.Join(dir, "res")
	require.NoError(t, os.MkdirAll(resourceDir, 0o755))

	_, err := Resolve(Config{
		OverridePath: filepath.Join(dir, "missing.gguf"),
		FileName:     "veil.gguf",
		ResourceDir:  resourceDir,
		AppDataDir:   filepath.Join(dir, "appdata"),
	})
	require.Error(t, err)

	msg := err.Error()
	require.Contains(t, msg, "model file veil.gguf not found. Looked in:")
	require.Contains(t, msg, "override: "+filepath.Join(dir, "missing.gguf")+" (missing)")
	require.Contains(t, msg, "resource_dir: ")
	require.Contains(t, msg, "resource_dir/resources: ")
	require.Contains(t, msg, "app_data_dir: ")
}

func TestCandidates_DevModeAddsWorkspaceProbes(t *testing.T) {
	withDev := Candidates(Config{FileName: "veil.gguf", DevMode: true, AppDataDir: "/tmp/appdata"})
	withoutDev := Candidates(Config{FileName: "veil.gguf", AppDataDir: "/tmp/appdata"})
	require.Len(t, withDev, len(withoutDev)+2)
	require.Equal(t, "workspace/resources", withDev[len(withDev)-2].Label)
}
