package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xsc-go/xsc/internal/glslconvert"
)

func TestToOptionsAppliesDefaultsWhenNil(t *testing.T) {
	var c *Config
	opts := c.ToOptions()
	if opts.Family != glslconvert.FamilyGLSL || opts.Version != 420 {
		t.Fatalf("expected default GLSL 420, got %+v", opts)
	}
	if opts.Mangling.ReservedWordPrefix != "xsp_" {
		t.Fatalf("expected default mangling settings, got %+v", opts.Mangling)
	}
}

func TestLoadFileParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "xsc.toml")
	contents := `
family = "essl"
version = 310
obfuscate = true
namespace_prefix = "my_"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	opts := cfg.ToOptions()
	if opts.Family != glslconvert.FamilyESSL {
		t.Errorf("expected ESSL family, got %v", opts.Family)
	}
	if opts.Version != 310 {
		t.Errorf("expected version 310, got %d", opts.Version)
	}
	if !opts.Obfuscate {
		t.Errorf("expected obfuscate true")
	}
	if opts.Mangling.NamespacePrefix != "my_" {
		t.Errorf("expected overridden namespace prefix, got %q", opts.Mangling.NamespacePrefix)
	}
}

func TestLoadWalksUpParentDirectories(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "xsc.toml"), []byte("version = 300\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, path, err := Load(nested)
	if err != nil {
		t.Fatal(err)
	}
	if cfg == nil {
		t.Fatalf("expected to find the config file in a parent directory")
	}
	if filepath.Base(path) != "xsc.toml" {
		t.Errorf("expected to resolve xsc.toml, got %s", path)
	}
}

func TestMergePrefersCLIOverConfig(t *testing.T) {
	cfg := &Config{Version: intPtr(420)}
	cliVersion := 310
	opts := cfg.Merge(CLIOverrides{Version: &cliVersion})
	if opts.Version != 310 {
		t.Errorf("expected CLI override to win, got %d", opts.Version)
	}
}

func intPtr(n int) *int { return &n }
