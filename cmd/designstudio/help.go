package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: designstudio <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render      Render HTML/CSS designs to HTML, PNG, JPEG, WebP or PDF")
	fmt.Fprintln(w, "  generate    Generate a design from a description and export it")
	fmt.Fprintln(w, "  assets      List, add or remove uploaded images")
	fmt.Fprintln(w, "  formats     List output formats")
	fmt.Fprintln(w, "  serve       Start the HTTP API")
	fmt.Fprintln(w, "  doctor      Check system configuration")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'designstudio help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags every command accepts.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed logs and timing")
}

// printOutputUsage prints the export selection flags.
func printOutputUsage(w io.Writer) {
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -t, --type <s>            html, png, jpeg, webp, pdf")
	fmt.Fprintln(w, "      --quality <n>         JPEG/WebP quality 1-100 (default: config, 92)")
	fmt.Fprintln(w, "      --scale <f>           Supersampling factor 1-4 (default: config, 2)")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: designstudio render <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render HTML/CSS designs at a format's exact size.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    .html file or directory; a sibling .css file is used as stylesheet")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Design:")
	fmt.Fprintln(w, "  -f, --format <id>         Format id (see 'designstudio formats')")
	fmt.Fprintln(w, "      --css <path>          Stylesheet for every input")
	fmt.Fprintln(w, "      --asset-path <dir>    Override templates, styles and formats")
	fmt.Fprintln(w)
	printOutputUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel renderers (0 = auto)")
	fmt.Fprintln(w, "      --timeout <d>         Per-design timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: designstudio generate <description> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ask the model for a design and export it. Requires OPENAI_API_KEY.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Design:")
	fmt.Fprintln(w, "  -f, --format <id>         Format id (see 'designstudio formats')")
	fmt.Fprintln(w, "      --from <path>         Existing .html design to revise")
	fmt.Fprintln(w, "      --source              Also write <output>.source.html and .css")
	fmt.Fprintln(w, "  -m, --model <name>        Model name (default: config, gpt-4o)")
	fmt.Fprintln(w, "      --timeout <d>         Model and render timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --asset-path <dir>    Override templates, styles and formats")
	fmt.Fprintln(w)
	printOutputUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printAssetsUsage prints usage for the assets command.
func printAssetsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: designstudio assets [list|add|rm] [args] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Manage uploaded images. Designs reference them by display name.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list              List assets, newest first (default)")
	fmt.Fprintln(w, "  add <file>...     Register image files")
	fmt.Fprintln(w, "  rm <id|name>...   Remove assets")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -n, --name <s>            Display name for a single added file")
	fmt.Fprintln(w, "      --json                Print JSON")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printFormatsUsage prints usage for the formats command.
func printFormatsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: designstudio formats [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List output formats and their pixel sizes.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print JSON")
	fmt.Fprintln(w, "      --asset-path <dir>    Read formats.yaml from a directory")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: designstudio serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the design API until interrupted.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -a, --addr <host:port>    Listen address (default: 127.0.0.1:8080)")
	fmt.Fprintln(w, "  -f, --format <id>         Format selected at startup")
	fmt.Fprintln(w, "      --asset-path <dir>    Override templates, styles and formats")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "generate":
		printGenerateUsage(env.Stdout)
	case "assets":
		printAssetsUsage(env.Stdout)
	case "formats":
		printFormatsUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: designstudio doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome, the environment and the asset catalog.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: designstudio version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: designstudio help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
