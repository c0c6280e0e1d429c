package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: lessondoc <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert lesson markdown to HTML, DOCX and PDF")
	fmt.Fprintln(w, "  config     Write a starter config file (config init)")
	fmt.Fprintln(w, "  doctor     Check Chrome and system readiness")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'lessondoc help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: lessondoc convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert lesson markdown files to HTML, DOCX and PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to the source)")
	fmt.Fprintln(w, "  -f, --formats <list>      Output formats: html, docx, pdf (default: docx,pdf)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <dur>       PDF capture timeout (default: 30s)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Lesson:")
	fmt.Fprintln(w, "      --topic <s>           Lesson topic: document title and file name")
	fmt.Fprintln(w, "      --creator <s>         Author recorded in the .docx")
	fmt.Fprintln(w, "      --lang <tag>          Document language (default: vi)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: a4, letter, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <mm>         Margin in millimetres (0-50)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Display:")
	fmt.Fprintln(w, "  -s, --style <name>        Stylesheet: lesson, classic")
	fmt.Fprintln(w, "      --font-family <s>     Font family")
	fmt.Fprintln(w, "      --font-size <px>      Font size (10-30)")
	fmt.Fprintln(w, "      --text-color <hex>    Text color (#RRGGBB)")
	fmt.Fprintln(w, "      --accent-color <hex>  Math accent color (#RRGGBB)")
	fmt.Fprintln(w, "      --code-style <name>   Code highlighting style (e.g. github, monokai)")
	fmt.Fprintln(w, "      --no-highlight        Disable code highlighting")
	fmt.Fprintln(w, "      --no-math             Disable math auto-render")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Assets:")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with custom styles and templates")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show sizes, timing and stage logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  LESSONDOC_CONFIG, LESSONDOC_TIMEOUT, LESSONDOC_WORKERS, LESSONDOC_OUTPUT_DIR,")
	fmt.Fprintln(w, "  LESSONDOC_FORMATS, LESSONDOC_STYLE, LESSONDOC_PAGE_SIZE, LESSONDOC_ASSET_PATH,")
	fmt.Fprintln(w, "  LESSONDOC_LANG override the config file; flags override both.")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: lessondoc config init [path] [--force]")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Write the default configuration as YAML (default path: %s).\n", defaultConfigFile)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -f, --force    Overwrite an existing file")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: lessondoc doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome, sandbox and temp directory readiness.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: lessondoc version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: lessondoc help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
