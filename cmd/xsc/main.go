// Command xsc resolves this tool's conversion options from an xsc.toml/
// .xscrc.toml config file plus CLI flags and reports the options a
// pkg/shadercc.Convert call would run with.
//
// Usage:
//
//	xsc [options]
//
// Options:
//
//	--config <file>          Use a specific config file
//	--no-config              Ignore config files, use built-in defaults
//	--family <name>          Target family: glsl | essl | vksl | metal
//	--version <n>            Target numeric shader version, e.g. 420
//	--obfuscate              Obfuscate identifiers instead of name-mangling them
//	--unroll                 Unroll array initializers into per-element assignments
//	--uniform-buffer-name <name>       Name for the packed uniform block
//	--uniform-buffer-binding <n>       Binding slot for the packed uniform block
//	--version-info           Print tool version and exit
//	--help                   Print help and exit
//
// xsc resolves and prints the options a conversion would use; it does not
// itself read shader source. The scanner, preprocessor and surface parser
// that turn HLSL source text into an *ast.Program, and the textual code
// generator that turns a converted Program back into GLSL source, are
// external collaborators this module does not implement — callers that own
// a front end hand its *ast.Program straight to pkg/shadercc.Convert.
//
// Config file:
//
//	xsc looks for xsc.toml or .xscrc.toml in the current directory and its
//	parents. Config file options are overridden by CLI flags.
//
// Example xsc.toml:
//
//	family = "glsl"
//	version = 420
//	obfuscate = false
//	unroll_array_inits = true
//	namespace_prefix = "xsp_"
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/xsc-go/xsc/internal/config"
	"github.com/xsc-go/xsc/internal/glslconvert"
)

var (
	toolVersion = "0.1.0"
	commit      = "dev"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// cliFlags holds every flag value; parsed once by run and turned into
// config.CLIOverrides by overridesFrom so the merge logic stays testable
// without touching the flag package.
type cliFlags struct {
	configFile string
	noConfig   bool

	family    string
	version   int
	obfuscate bool
	unroll    bool

	hasFamily    bool
	hasVersion   bool
	hasObfuscate bool
	hasUnroll    bool

	uniformBufferName    string
	uniformBufferBinding int

	showVersion bool
	showHelp    bool
}

func run(args []string, stdout, stderr *os.File) error {
	fs := flag.NewFlagSet("xsc", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var f cliFlags
	fs.StringVar(&f.configFile, "config", "", "Use a specific config `file`")
	fs.BoolVar(&f.noConfig, "no-config", false, "Ignore config files, use built-in defaults")
	fs.StringVar(&f.family, "family", "", "Target family: glsl | essl | vksl | metal")
	fs.IntVar(&f.version, "version", 0, "Target numeric shader version, e.g. 420")
	fs.BoolVar(&f.obfuscate, "obfuscate", false, "Obfuscate identifiers instead of name-mangling them")
	fs.BoolVar(&f.unroll, "unroll", false, "Unroll array initializers into per-element assignments")
	fs.StringVar(&f.uniformBufferName, "uniform-buffer-name", "", "Name for the packed uniform block")
	fs.IntVar(&f.uniformBufferBinding, "uniform-buffer-binding", 0, "Binding slot for the packed uniform block")
	fs.BoolVar(&f.showVersion, "version-info", false, "Print tool version and exit")
	fs.BoolVar(&f.showHelp, "help", false, "Print help and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "xsc - shader conversion option resolver v%s\n\n", toolVersion)
		fmt.Fprintf(stderr, "Usage: xsc [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	var hasUniformBufferName, hasUniformBufferBinding bool
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "family":
			f.hasFamily = true
		case "version":
			f.hasVersion = true
		case "obfuscate":
			f.hasObfuscate = true
		case "unroll":
			f.hasUnroll = true
		case "uniform-buffer-name":
			hasUniformBufferName = true
		case "uniform-buffer-binding":
			hasUniformBufferBinding = true
		}
	})

	if f.showHelp {
		fs.Usage()
		return nil
	}
	if f.showVersion {
		fmt.Fprintf(stdout, "xsc v%s (%s)\n", toolVersion, commit)
		return nil
	}

	var cfg *config.Config
	var configPath string
	if !f.noConfig {
		var err error
		if f.configFile != "" {
			cfg, err = config.LoadFile(f.configFile)
			if err != nil {
				return fmt.Errorf("loading config file %s: %w", f.configFile, err)
			}
			configPath = f.configFile
		} else {
			startDir, _ := os.Getwd()
			cfg, configPath, err = config.Load(startDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
		}
	}

	opts := cfg.Merge(overridesFrom(f))
	if hasUniformBufferName {
		opts.UniformBufferName = f.uniformBufferName
	}
	if hasUniformBufferBinding {
		opts.UniformBufferBinding = f.uniformBufferBinding
	}

	if configPath != "" {
		fmt.Fprintf(stderr, "using config: %s\n", configPath)
	}
	printOptions(stdout, opts)
	return nil
}

// overridesFrom turns the flags the caller actually set (via fs.Visit) into
// a config.CLIOverrides, so unset boolean flags don't shadow the config
// file's values with their zero value.
func overridesFrom(f cliFlags) config.CLIOverrides {
	var o config.CLIOverrides
	if f.hasFamily {
		o.Family = &f.family
	}
	if f.hasVersion {
		o.Version = &f.version
	}
	if f.hasObfuscate {
		o.Obfuscate = &f.obfuscate
	}
	if f.hasUnroll {
		o.Unroll = &f.unroll
	}
	return o
}

func printOptions(w *os.File, opts glslconvert.Options) {
	fmt.Fprintf(w, "family: %s\n", familyName(opts.Family))
	fmt.Fprintf(w, "version: %d\n", opts.Version)
	fmt.Fprintf(w, "obfuscate: %t\n", opts.Obfuscate)
	fmt.Fprintf(w, "unroll_array_inits: %t\n", opts.UnrollArrayInits)
	fmt.Fprintf(w, "mangling.input_prefix: %s\n", opts.Mangling.InputPrefix)
	fmt.Fprintf(w, "mangling.output_prefix: %s\n", opts.Mangling.OutputPrefix)
	fmt.Fprintf(w, "mangling.temporary_prefix: %s\n", opts.Mangling.TemporaryPrefix)
	fmt.Fprintf(w, "mangling.reserved_word_prefix: %s\n", opts.Mangling.ReservedWordPrefix)
	fmt.Fprintf(w, "mangling.namespace_prefix: %s\n", opts.Mangling.NamespacePrefix)
	if opts.UniformBufferName != "" {
		fmt.Fprintf(w, "uniform_buffer_name: %s\n", opts.UniformBufferName)
	}
	if opts.UniformBufferBinding != 0 {
		fmt.Fprintf(w, "uniform_buffer_binding: %d\n", opts.UniformBufferBinding)
	}
}

func familyName(fam glslconvert.ShaderFamily) string {
	switch fam {
	case glslconvert.FamilyESSL:
		return "essl"
	case glslconvert.FamilyVKSL:
		return "vksl"
	case glslconvert.FamilyMetal:
		return "metal"
	default:
		return "glsl"
	}
}
