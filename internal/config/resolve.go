package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ResolveError reports the first missing or invalid configuration
// artifact. Resolution is fail-fast: nothing after the first failure
// is checked, and no partial file set is ever returned.
type ResolveError struct {
	Path   string
	Value  string
	Reason string
}

func (e *ResolveError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("configuration error: %q: %s", e.Value, e.Reason)
}

// ServiceGroup is a named, independently deployable cluster of
// containers sharing one compose definition. Env files are layered
// in order; later entries win.
type ServiceGroup struct {
	Name        string
	ComposeFile string
	EnvFiles    []string
	Project     string
}

// FileSet is the fully resolved configuration for one environment.
// Groups are in declared deploy order: the validator group comes up
// before its protective sentry front-end.
type FileSet struct {
	Environment Environment
	Groups      []ServiceGroup
}

// Group returns the named service group, if present.
func (fs *FileSet) Group(name string) (ServiceGroup, bool) {
	for _, g := range fs.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return ServiceGroup{}, false
}

// composeDoc is the minimal structure a compose definition must have.
type composeDoc struct {
	Services map[string]any `yaml:"services"`
}

// Resolve validates the full set of deployment files for an
// environment and returns it. The optional local override env file is
// layered last when present; its absence is not an error. All other
// paths must exist and parse before any lifecycle action is attempted.
func Resolve(cfg *Config) (*FileSet, error) {
	envDir := filepath.Join(cfg.DeployDir, string(cfg.Environment))
	if err := requireDir(envDir); err != nil {
		return nil, err
	}

	common := filepath.Join(envDir, "env", "common.env")
	if err := requireEnvFile(common); err != nil {
		return nil, err
	}

	override := filepath.Join(envDir, "env", "local.env")
	hasOverride, err := optionalEnvFile(override)
	if err != nil {
		return nil, err
	}

	fs := &FileSet{Environment: cfg.Environment}
	for _, role := range []string{"validator", "sentry"} {
		compose := filepath.Join(envDir, fmt.Sprintf("docker-compose.%s.yml", role))
		if err := requireCompose(compose); err != nil {
			return nil, err
		}

		roleEnv := filepath.Join(envDir, "env", role+".env")
		if err := requireEnvFile(roleEnv); err != nil {
			return nil, err
		}

		envFiles := []string{common, roleEnv}
		if hasOverride {
			envFiles = append(envFiles, override)
		}

		fs.Groups = append(fs.Groups, ServiceGroup{
			Name:        role + "-group",
			ComposeFile: compose,
			EnvFiles:    envFiles,
			Project:     projectName(role, cfg.Environment),
		})
	}

	return fs, nil
}

// MergedEnv flattens a group's layered env files, later files winning.
func MergedEnv(g ServiceGroup) (map[string]string, error) {
	merged := map[string]string{}
	for _, f := range g.EnvFiles {
		vars, err := godotenv.Read(f)
		if err != nil {
			return nil, &ResolveError{Path: f, Reason: fmt.Sprintf("invalid env file: %v", err)}
		}
		for k, v := range vars {
			merged[k] = v
		}
	}
	return merged, nil
}

// ComposeServices lists the service names declared in a compose file.
func ComposeServices(path string) ([]string, error) {
	doc, err := parseCompose(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(doc.Services))
	for name := range doc.Services {
		names = append(names, name)
	}
	return names, nil
}

func projectName(role string, env Environment) string {
	if env == EnvLive {
		return "graphene-" + role
	}
	return fmt.Sprintf("graphene-%s-%s", role, env)
}

func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &ResolveError{Path: path, Reason: "environment directory not found"}
	}
	if !info.IsDir() {
		return &ResolveError{Path: path, Reason: "not a directory"}
	}
	return nil
}

func requireCompose(path string) error {
	if _, err := os.Stat(path); err != nil {
		return &ResolveError{Path: path, Reason: "compose file not found"}
	}
	if _, err := parseCompose(path); err != nil {
		return err
	}
	return nil
}

func parseCompose(path string) (*composeDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ResolveError{Path: path, Reason: fmt.Sprintf("unreadable compose file: %v", err)}
	}

	var doc composeDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ResolveError{Path: path, Reason: fmt.Sprintf("invalid compose YAML: %v", err)}
	}
	if len(doc.Services) == 0 {
		return nil, &ResolveError{Path: path, Reason: "compose file declares no services"}
	}
	return &doc, nil
}

func requireEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return &ResolveError{Path: path, Reason: "env file not found"}
	}
	if _, err := godotenv.Read(path); err != nil {
		return &ResolveError{Path: path, Reason: fmt.Sprintf("invalid env file: %v", err)}
	}
	return nil
}

func optionalEnvFile(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &ResolveError{Path: path, Reason: fmt.Sprintf("unreadable env file: %v", err)}
	}
	if _, err := godotenv.Read(path); err != nil {
		return false, &ResolveError{Path: path, Reason: fmt.Sprintf("invalid env file: %v", err)}
	}
	return true, nil
}
