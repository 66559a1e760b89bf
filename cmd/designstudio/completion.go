package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long   string
	Short  string
	Desc   string
	Values []string // enum values, if any
	IsBool bool
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
	Args  []string // fixed positional words, e.g. assets subcommands
}

// flagValues lists enum values for flags that take one.
var flagValues = map[string][]string{
	"type": {"html", "png", "jpeg", "webp", "pdf"},
}

// extractFlags reads flag definitions from a FlagSet.
// Flag names and descriptions come from the FlagSet itself.
func extractFlags(fs *flag.FlagSet) []flagDef {
	var flags []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		flags = append(flags, flagDef{
			Long:   f.Name,
			Short:  f.Shorthand,
			Desc:   f.Usage,
			Values: flagValues[f.Name],
			IsBool: f.Value.Type() == "bool",
		})
	})
	return flags
}

// getCommands returns the command registry for completion.
func getCommands() []commandDef {
	return []commandDef{
		{Name: "render", Desc: "Render HTML/CSS designs", Flags: extractFlags(buildRenderFlagSet(&renderFlags{}))},
		{Name: "generate", Desc: "Generate a design from a description", Flags: extractFlags(buildGenerateFlagSet(&generateFlags{}))},
		{Name: "assets", Desc: "Manage uploaded images", Flags: extractFlags(buildAssetsFlagSet(&assetsFlags{})), Args: []string{"list", "add", "rm"}},
		{Name: "formats", Desc: "List output formats", Flags: extractFlags(buildFormatsFlagSet(&formatsFlags{}))},
		{Name: "serve", Desc: "Start the HTTP API", Flags: extractFlags(buildServeFlagSet(&serveFlags{}))},
		{Name: "doctor", Desc: "Check system configuration", Flags: []flagDef{{Long: "json", Desc: "print JSON", IsBool: true}}},
		{Name: "completion", Desc: "Generate shell completion script", Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish)}},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	cmds := getCommands()
	switch shell {
	case ShellBash:
		return generateBash(w, cmds)
	case ShellZsh:
		return generateZsh(w, cmds)
	case ShellFish:
		return generateFish(w, cmds)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func flagWords(c commandDef) string {
	var words []string
	for _, f := range c.Flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return strings.Join(append(words, c.Args...), " ")
}

func generateBash(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# bash completion for designstudio\n")
	b.WriteString("_designstudio() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", commandNames(cmds))
	b.WriteString("        return\n")
	b.WriteString("    fi\n")
	for name, values := range flagValues {
		fmt.Fprintf(&b, "    if [[ \"$prev\" == \"--%s\" ]]; then\n", name)
		fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(values, " "))
		b.WriteString("        return\n")
		b.WriteString("    fi\n")
	}
	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -W %q -f -- \"$cur\")) ;;\n", c.Name, flagWords(c))
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -o default -F _designstudio designstudio\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func generateZsh(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("#compdef designstudio\n\n")
	b.WriteString("_designstudio() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n")
	b.WriteString("    case \"$words[2]\" in\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		b.WriteString("            _arguments \\\n")
		for _, f := range c.Flags {
			spec := "--" + f.Long
			if f.Short != "" {
				spec = fmt.Sprintf("{-%s,--%s}", f.Short, f.Long)
			}
			arg := ""
			switch {
			case len(f.Values) > 0:
				arg = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
			case !f.IsBool:
				arg = fmt.Sprintf(":%s:_files", f.Long)
			}
			fmt.Fprintf(&b, "                '%s[%s]%s' \\\n", spec, zshEscape(f.Desc), arg)
		}
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "                '*:arg:(%s)'\n", strings.Join(c.Args, " "))
		} else {
			b.WriteString("                '*:file:_files'\n")
		}
		b.WriteString("            ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("_designstudio \"$@\"\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func generateFish(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# fish completion for designstudio\n")
	b.WriteString("complete -c designstudio -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c designstudio -n '__fish_use_subcommand' -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	for _, c := range cmds {
		cond := fmt.Sprintf("__fish_seen_subcommand_from %s", c.Name)
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c designstudio -n '%s' -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			if len(f.Values) > 0 {
				line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
			} else if !f.IsBool {
				line += " -r -F"
			}
			line += fmt.Sprintf(" -d '%s'\n", fishEscape(f.Desc))
			b.WriteString(line)
		}
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "complete -c designstudio -n '%s' -a '%s'\n", cond, strings.Join(c.Args, " "))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:")
	return r.Replace(s)
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: designstudio completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(designstudio completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(designstudio completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    designstudio completion fish > ~/.config/fish/completions/designstudio.fish")
}
