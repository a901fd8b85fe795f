// Package config provides the target manifest loader.
package config

import (
	"os"
	"path/filepath"
	"sort"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the manifest file loaded when --config is not given.
const DefaultFileName = "mason.yaml"

var _ ports.TargetLoader = (*Loader)(nil)

// Loader implements ports.TargetLoader using a YAML file.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// manifestDTO is the YAML shape of the manifest file.
type manifestDTO struct {
	Root    string               `yaml:"root"`
	Targets map[string]targetDTO `yaml:"targets"`
}

// targetDTO is one target descriptor in the manifest.
type targetDTO struct {
	Root     string   `yaml:"root"`
	Include  string   `yaml:"include"`
	Language string   `yaml:"language"`
	Flags    string   `yaml:"flags"`
	Sources  []string `yaml:"sources"`
}

// Load reads and validates the manifest at path. Targets come back sorted
// by name so runs are deterministic regardless of YAML map order.
func (l *Loader) Load(path string) (*domain.Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read manifest")
	}

	var dto manifestDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, zerr.Wrap(err, "failed to parse manifest")
	}

	if len(dto.Targets) == 0 {
		return nil, zerr.With(zerr.New("manifest defines no targets"), "path", path)
	}

	root := dto.Root
	if root == "" {
		l.logger.Warn("manifest sets no root, building under the current directory")
		root = "."
	}

	manifest := &domain.Manifest{Root: root}
	for name, t := range dto.Targets {
		target, err := buildTarget(root, name, t)
		if err != nil {
			return nil, err
		}
		manifest.Targets = append(manifest.Targets, target)
	}

	sort.Slice(manifest.Targets, func(i, j int) bool {
		return manifest.Targets[i].Name < manifest.Targets[j].Name
	})

	return manifest, nil
}

func buildTarget(root, name string, dto targetDTO) (domain.Target, error) {
	if dto.Root == "" {
		return domain.Target{}, zerr.With(zerr.New("target has no source root"), "target", name)
	}
	if len(dto.Sources) == 0 {
		return domain.Target{}, zerr.With(zerr.New("target has no source patterns"), "target", name)
	}

	lang, err := domain.ParseLanguage(dto.Language)
	if err != nil {
		return domain.Target{}, zerr.With(err, "target", name)
	}

	target := domain.Target{
		Name:     name,
		Root:     filepath.Join(root, dto.Root),
		Language: lang,
		Flags:    dto.Flags,
		Sources:  dto.Sources,
	}

	if dto.Include != "" {
		target.IncludeDir = filepath.Join(target.Root, dto.Include)
		// The include flag rides along with the user flags so it is part of
		// the cached compile command.
		if target.Flags != "" {
			target.Flags += " "
		}
		target.Flags += "-I" + target.IncludeDir
	}

	return target, nil
}
