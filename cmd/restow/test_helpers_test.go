package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"restow/internal/catalog"
	"restow/internal/config"
	"restow/internal/objectstore"
)

type cliTestEnv struct {
	store      *objectstore.Memory
	configPath string
	baseDir    string
	dbPath     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	env := &cliTestEnv{
		store:      objectstore.NewMemory(),
		configPath: filepath.Join(base, "config.toml"),
		baseDir:    base,
		dbPath:     filepath.Join(base, "catalog.db"),
	}
	writeTestConfig(t, env)
	return env
}

func writeTestConfig(t *testing.T, env *cliTestEnv) {
	t.Helper()
	content := fmt.Sprintf(`[store]
endpoint = "store.test:9000"
bucket = "media"
access_key = "test"
secret_key = "test"
public_base_url = "https://cdn.test/media"

[catalog]
db_path = %q

[paths]
log_dir = %q
`, env.dbPath, filepath.Join(env.baseDir, "logs"))
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// openCatalog opens the same catalog database the CLI under test uses.
func (env *cliTestEnv) openCatalog(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.Open(env.dbPath)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close catalog: %v", err)
		}
	})
	return store
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()

	var configFlag string
	ctx := newCommandContext(&configFlag)
	ctx.openStore = func(config.Store) (objectstore.Store, error) {
		return env.store, nil
	}

	cmd := newRootCommandFor(ctx, &configFlag)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
