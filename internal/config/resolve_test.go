package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const minimalCompose = `services:
  node:
    image: graphene/node:latest
`

// writeDeployTree lays out a complete environment directory. Callers
// delete pieces to exercise fail-fast behavior.
func writeDeployTree(t *testing.T, root string, env Environment, withOverride bool) {
	t.Helper()

	envDir := filepath.Join(root, string(env))
	if err := os.MkdirAll(filepath.Join(envDir, "env"), 0o755); err != nil {
		t.Fatal(err)
	}

	files := map[string]string{
		"docker-compose.validator.yml": minimalCompose,
		"docker-compose.sentry.yml":    minimalCompose,
		"env/common.env":               "CHAIN_ID=graphene-1\nLOG_LEVEL=info\n",
		"env/validator.env":            "ROLE=validator\nLOG_LEVEL=debug\n",
		"env/sentry.env":               "ROLE=sentry\n",
	}
	if withOverride {
		files["env/local.env"] = "LOG_LEVEL=trace\n"
	}

	for name, content := range files {
		path := filepath.Join(envDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func testConfig(root string, env Environment) *Config {
	return &Config{
		Environment: env,
		NodeType:    NodeValidator,
		DeployDir:   root,
		KeysDir:     filepath.Join(root, "keys"),
		Image:       "graphene/node:latest",
		DockerBin:   "docker",
		ComposeBin:  "docker-compose",
		LogTail:     50,
	}
}

func TestResolveFullSet(t *testing.T) {
	root := t.TempDir()
	writeDeployTree(t, root, EnvTest, false)

	fs, err := Resolve(testConfig(root, EnvTest))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if len(fs.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(fs.Groups))
	}

	// Declared order: validator group before its sentry front-end.
	if fs.Groups[0].Name != "validator-group" || fs.Groups[1].Name != "sentry-group" {
		t.Errorf("wrong group order: %s, %s", fs.Groups[0].Name, fs.Groups[1].Name)
	}

	for _, g := range fs.Groups {
		if len(g.EnvFiles) != 2 {
			t.Errorf("%s: expected 2 env files without override, got %d", g.Name, len(g.EnvFiles))
		}
		if !strings.HasSuffix(g.EnvFiles[0], "common.env") {
			t.Errorf("%s: common.env must layer first, got %s", g.Name, g.EnvFiles[0])
		}
	}

	if fs.Groups[0].Project != "graphene-validator-test" {
		t.Errorf("project = %q, want graphene-validator-test", fs.Groups[0].Project)
	}
}

func TestResolveLiveProjectNames(t *testing.T) {
	root := t.TempDir()
	writeDeployTree(t, root, EnvLive, false)

	fs, err := Resolve(testConfig(root, EnvLive))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	// Live drops the environment suffix.
	if fs.Groups[0].Project != "graphene-validator" {
		t.Errorf("live validator project = %q", fs.Groups[0].Project)
	}
	if fs.Groups[1].Project != "graphene-sentry" {
		t.Errorf("live sentry project = %q", fs.Groups[1].Project)
	}
}

func TestResolveWithLocalOverride(t *testing.T) {
	root := t.TempDir()
	writeDeployTree(t, root, EnvLocal, true)

	fs, err := Resolve(testConfig(root, EnvLocal))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	for _, g := range fs.Groups {
		if len(g.EnvFiles) != 3 {
			t.Fatalf("%s: expected 3 env files with override, got %d", g.Name, len(g.EnvFiles))
		}
		if !strings.HasSuffix(g.EnvFiles[2], "local.env") {
			t.Errorf("%s: override must layer last, got %s", g.Name, g.EnvFiles[2])
		}
	}
}

func TestResolveFailFast(t *testing.T) {
	tests := []struct {
		name       string
		remove     string
		wantInPath string
	}{
		{
			name:       "missing environment directory",
			remove:     "",
			wantInPath: "test",
		},
		{
			name:       "missing common env",
			remove:     "env/common.env",
			wantInPath: "common.env",
		},
		{
			name:       "missing validator compose",
			remove:     "docker-compose.validator.yml",
			wantInPath: "docker-compose.validator.yml",
		},
		{
			name:       "missing sentry env",
			remove:     "env/sentry.env",
			wantInPath: "sentry.env",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeDeployTree(t, root, EnvTest, false)

			target := filepath.Join(root, "test", tt.remove)
			if tt.remove == "" {
				target = filepath.Join(root, "test")
			}
			if err := os.RemoveAll(target); err != nil {
				t.Fatal(err)
			}

			fs, err := Resolve(testConfig(root, EnvTest))
			if err == nil {
				t.Fatal("Resolve() succeeded with missing artifact")
			}
			if fs != nil {
				t.Error("Resolve() returned a partial file set alongside an error")
			}

			var re *ResolveError
			if !errors.As(err, &re) {
				t.Fatalf("error is %T, want *ResolveError", err)
			}
			if !strings.Contains(re.Path, tt.wantInPath) {
				t.Errorf("error names %q, want it to name %q", re.Path, tt.wantInPath)
			}
		})
	}
}

func TestResolveRejectsInvalidCompose(t *testing.T) {
	root := t.TempDir()
	writeDeployTree(t, root, EnvTest, false)

	bad := filepath.Join(root, "test", "docker-compose.validator.yml")

	t.Run("broken yaml", func(t *testing.T) {
		if err := os.WriteFile(bad, []byte(":\n  - ["), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Resolve(testConfig(root, EnvTest)); err == nil {
			t.Error("Resolve() accepted broken YAML")
		}
	})

	t.Run("no services", func(t *testing.T) {
		if err := os.WriteFile(bad, []byte("volumes: {}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Resolve(testConfig(root, EnvTest)); err == nil {
			t.Error("Resolve() accepted a compose file without services")
		}
	})
}

func TestMergedEnvLaterWins(t *testing.T) {
	root := t.TempDir()
	writeDeployTree(t, root, EnvLocal, true)

	fs, err := Resolve(testConfig(root, EnvLocal))
	if err != nil {
		t.Fatal(err)
	}

	g, ok := fs.Group("validator-group")
	if !ok {
		t.Fatal("validator-group missing")
	}

	env, err := MergedEnv(g)
	if err != nil {
		t.Fatal(err)
	}

	// common sets info, validator.env overrides to debug, local.env
	// overrides to trace.
	if env["LOG_LEVEL"] != "trace" {
		t.Errorf("LOG_LEVEL = %q, want trace (later layer wins)", env["LOG_LEVEL"])
	}
	if env["CHAIN_ID"] != "graphene-1" {
		t.Errorf("CHAIN_ID = %q, want graphene-1", env["CHAIN_ID"])
	}
	if env["ROLE"] != "validator" {
		t.Errorf("ROLE = %q, want validator", env["ROLE"])
	}
}

func TestComposeServices(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "compose.yml")
	content := "services:\n  node:\n    image: a\n  metrics:\n    image: b\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	services, err := ComposeServices(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(services) != 2 {
		t.Errorf("got %d services, want 2", len(services))
	}
}
