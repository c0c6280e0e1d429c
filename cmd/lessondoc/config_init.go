package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-lessondoc/internal/config"
	"github.com/alnah/go-lessondoc/internal/fileutil"
)

// ErrConfigExists is returned when config init would overwrite a file.
var ErrConfigExists = errors.New("config file already exists")

// defaultConfigFile is written by "config init" without a path.
// LoadConfig finds it in the current directory as --config lessondoc.
const defaultConfigFile = "lessondoc.yaml"

// runConfigCmd handles "config <subcommand>" and returns an exit code.
func runConfigCmd(args []string, env *Environment) int {
	if len(args) == 0 || args[0] != "init" {
		printConfigUsage(env.Stderr)
		return ExitUsage
	}

	fs := flag.NewFlagSet("config init", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	force := fs.BoolP("force", "f", false, "overwrite an existing file")
	fs.Usage = func() { printConfigUsage(env.Stderr) }
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitUsage
	}

	path := defaultConfigFile
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	if err := writeDefaultConfig(path, *force); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}
	fmt.Fprintf(env.Stdout, "Created %s\n", path)
	return ExitSuccess
}

// writeDefaultConfig writes DefaultConfig as YAML to path, creating parent
// directories. An existing file is kept unless force is set.
func writeDefaultConfig(path string, force bool) error {
	if !force && fileutil.FileExists(path) {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
	}

	data, err := config.DefaultConfig().Marshal()
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	// #nosec G306 -- config files are meant to be readable
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
