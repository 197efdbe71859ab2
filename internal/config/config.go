// Package config loads compiler options from an xsc.toml/.xscrc.toml file
// found in the working directory or a parent of it, and merges them with
// CLI-specified overrides. Grounded on the teacher's internal/config
// (search-up-the-tree Load, file-then-CLI-precedence Merge), switched from
// JSON (wgslmin.json) to TOML (xsc.toml) via github.com/BurntSushi/toml,
// matching the same library's use in noisetorch-NoiseTorch's config loader.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/xsc-go/xsc/internal/ast"
	"github.com/xsc-go/xsc/internal/glslconvert"
)

func defaultMangling() ast.ManglingSettings { return ast.DefaultManglingSettings() }

// ConfigFileNames are searched for, in order of preference, starting from
// the working directory and walking up to the filesystem root.
var ConfigFileNames = []string{
	"xsc.toml",
	".xscrc.toml",
}

// Config is the file-backed shape of glslconvert.Options; every field is a
// pointer/zero-valued so an absent key falls back to the built-in default
// rather than overwriting it.
type Config struct {
	Family           *string `toml:"family"` // "glsl" | "essl" | "vksl" | "metal"
	Version          *int    `toml:"version"`
	Obfuscate        *bool   `toml:"obfuscate"`
	UnrollArrayInits *bool   `toml:"unroll_array_inits"`

	InputPrefix        *string `toml:"input_prefix"`
	OutputPrefix       *string `toml:"output_prefix"`
	TemporaryPrefix    *string `toml:"temporary_prefix"`
	ReservedWordPrefix *string `toml:"reserved_word_prefix"`
	NamespacePrefix    *string `toml:"namespace_prefix"`
	UseAlwaysSemantics *bool   `toml:"use_always_semantics"`
	RenameBufferFields *bool   `toml:"rename_buffer_fields"`

	UniformBufferName    *string `toml:"uniform_buffer_name"`
	UniformBufferBinding *int    `toml:"uniform_buffer_binding"`
}

// Load searches for a config file starting from startDir and walking up to
// parent directories. Returns nil, "", nil if no config file is found.
func Load(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		for _, name := range ConfigFileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := LoadFile(path)
				return cfg, path, err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, "", nil
		}
		dir = parent
	}
}

// LoadFile loads configuration from a specific TOML file path.
func LoadFile(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func familyFromString(s string) glslconvert.ShaderFamily {
	switch s {
	case "essl":
		return glslconvert.FamilyESSL
	case "vksl":
		return glslconvert.FamilyVKSL
	case "metal":
		return glslconvert.FamilyMetal
	default:
		return glslconvert.FamilyGLSL
	}
}

// ToOptions converts c to glslconvert.Options, starting from
// ast.DefaultManglingSettings()/a GLSL-420 default and overriding whichever
// fields the file set.
func (c *Config) ToOptions() glslconvert.Options {
	opts := glslconvert.Options{
		Family:  glslconvert.FamilyGLSL,
		Version: 420,
	}
	opts.Mangling = defaultMangling()

	if c == nil {
		return opts
	}
	if c.Family != nil {
		opts.Family = familyFromString(*c.Family)
	}
	if c.Version != nil {
		opts.Version = *c.Version
	}
	if c.Obfuscate != nil {
		opts.Obfuscate = *c.Obfuscate
	}
	if c.UnrollArrayInits != nil {
		opts.UnrollArrayInits = *c.UnrollArrayInits
	}
	if c.InputPrefix != nil {
		opts.Mangling.InputPrefix = *c.InputPrefix
	}
	if c.OutputPrefix != nil {
		opts.Mangling.OutputPrefix = *c.OutputPrefix
	}
	if c.TemporaryPrefix != nil {
		opts.Mangling.TemporaryPrefix = *c.TemporaryPrefix
	}
	if c.ReservedWordPrefix != nil {
		opts.Mangling.ReservedWordPrefix = *c.ReservedWordPrefix
	}
	if c.NamespacePrefix != nil {
		opts.Mangling.NamespacePrefix = *c.NamespacePrefix
	}
	if c.UseAlwaysSemantics != nil {
		opts.Mangling.UseAlwaysSemantics = *c.UseAlwaysSemantics
	}
	if c.RenameBufferFields != nil {
		opts.Mangling.RenameBufferFields = *c.RenameBufferFields
	}
	if c.UniformBufferName != nil {
		opts.UniformBufferName = *c.UniformBufferName
	}
	if c.UniformBufferBinding != nil {
		opts.UniformBufferBinding = *c.UniformBufferBinding
	}
	return opts
}

// CLIOverrides holds flag values the command line set explicitly (nil
// means "not specified on the CLI").
type CLIOverrides struct {
	Family    *string
	Version   *int
	Obfuscate *bool
	Unroll    *bool
}

// Merge applies CLI overrides on top of the file-backed options; CLI flags
// take precedence over the config file, matching the teacher's
// Config.Merge precedence rule.
func (c *Config) Merge(cli CLIOverrides) glslconvert.Options {
	opts := c.ToOptions()
	if cli.Family != nil {
		opts.Family = familyFromString(*cli.Family)
	}
	if cli.Version != nil {
		opts.Version = *cli.Version
	}
	if cli.Obfuscate != nil {
		opts.Obfuscate = *cli.Obfuscate
	}
	if cli.Unroll != nil {
		opts.UnrollArrayInits = *cli.Unroll
	}
	return opts
}
