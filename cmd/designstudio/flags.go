package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// Sentinel errors for argument handling.
var (
	errUsage     = errors.New("invalid usage")
	errHelpShown = errors.New("help requested")
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// outputFlags holds export selection flags.
type outputFlags struct {
	output  string
	kind    string
	quality int
	scale   float64
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common    commonFlags
	out       outputFlags
	format    string
	css       string
	workers   int
	timeout   string
	assetPath string
}

// generateFlags holds all flags for the generate command.
type generateFlags struct {
	common    commonFlags
	out       outputFlags
	format    string
	from      string
	source    bool
	timeout   string
	assetPath string
	model     string
}

// assetsFlags holds flags for the assets command.
type assetsFlags struct {
	common commonFlags
	name   string
	json   bool
}

// formatsFlags holds flags for the formats command.
type formatsFlags struct {
	common    commonFlags
	assetPath string
	json      bool
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common    commonFlags
	addr      string
	format    string
	assetPath string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed logs and timing")
}

// addOutputFlags adds export selection flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags, defaultKind string) {
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.kind, "type", "t", defaultKind, "output type: html, png, jpeg, webp, pdf")
	fs.IntVar(&f.quality, "quality", 0, "lossy image quality 1-100 (0 = config)")
	fs.Float64Var(&f.scale, "scale", 0, "supersampling factor 1-4 (0 = config)")
}

// addAssetPathFlag adds the asset override flag to a FlagSet.
func addAssetPathFlag(fs *flag.FlagSet, p *string) {
	fs.StringVar(p, "asset-path", "", "directory overriding templates, styles and formats")
}

// buildRenderFlagSet registers the render flags on a new FlagSet.
func buildRenderFlagSet(f *renderFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.StringVarP(&f.format, "format", "f", "", "format id (see 'designstudio formats')")
	fs.StringVar(&f.css, "css", "", "stylesheet for every input (default: sibling .css file)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel renderers (0 = auto)")
	fs.StringVar(&f.timeout, "timeout", "", "per-design render timeout (e.g., 30s, 2m)")
	addOutputFlags(fs, &f.out, "")
	addAssetPathFlag(fs, &f.assetPath)
	addCommonFlags(fs, &f.common)
	return fs
}

// buildGenerateFlagSet registers the generate flags on a new FlagSet.
func buildGenerateFlagSet(f *generateFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.StringVarP(&f.format, "format", "f", "", "format id (see 'designstudio formats')")
	fs.StringVar(&f.from, "from", "", "existing design markup to revise (sibling .css is used)")
	fs.BoolVar(&f.source, "source", false, "also write the design markup and stylesheet")
	fs.StringVar(&f.timeout, "timeout", "", "model and render timeout (e.g., 30s, 2m)")
	fs.StringVarP(&f.model, "model", "m", "", "model name (default: config)")
	addOutputFlags(fs, &f.out, "html")
	addAssetPathFlag(fs, &f.assetPath)
	addCommonFlags(fs, &f.common)
	return fs
}

// buildAssetsFlagSet registers the assets flags on a new FlagSet.
func buildAssetsFlagSet(f *assetsFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("assets", flag.ContinueOnError)
	fs.StringVarP(&f.name, "name", "n", "", "display name for a single added asset")
	fs.BoolVar(&f.json, "json", false, "print JSON")
	addCommonFlags(fs, &f.common)
	return fs
}

// buildFormatsFlagSet registers the formats flags on a new FlagSet.
func buildFormatsFlagSet(f *formatsFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("formats", flag.ContinueOnError)
	fs.BoolVar(&f.json, "json", false, "print JSON")
	addAssetPathFlag(fs, &f.assetPath)
	addCommonFlags(fs, &f.common)
	return fs
}

// buildServeFlagSet registers the serve flags on a new FlagSet.
func buildServeFlagSet(f *serveFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default: config, 127.0.0.1:8080)")
	fs.StringVarP(&f.format, "format", "f", "", "format selected at startup")
	addAssetPathFlag(fs, &f.assetPath)
	addCommonFlags(fs, &f.common)
	return fs
}

// parseFlagSet parses args, printing usage to w on error or -h.
func parseFlagSet(fs *flag.FlagSet, args []string, w io.Writer, usage func(io.Writer)) ([]string, error) {
	fs.SetOutput(io.Discard)
	fs.Usage = func() { usage(w) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, errHelpShown
		}
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	return fs.Args(), nil
}

func parseRenderFlags(args []string, w io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	rest, err := parseFlagSet(buildRenderFlagSet(f), args, w, printRenderUsage)
	return f, rest, err
}

func parseGenerateFlags(args []string, w io.Writer) (*generateFlags, []string, error) {
	f := &generateFlags{}
	rest, err := parseFlagSet(buildGenerateFlagSet(f), args, w, printGenerateUsage)
	return f, rest, err
}

func parseAssetsFlags(args []string, w io.Writer) (*assetsFlags, []string, error) {
	f := &assetsFlags{}
	rest, err := parseFlagSet(buildAssetsFlagSet(f), args, w, printAssetsUsage)
	return f, rest, err
}

func parseFormatsFlags(args []string, w io.Writer) (*formatsFlags, []string, error) {
	f := &formatsFlags{}
	rest, err := parseFlagSet(buildFormatsFlagSet(f), args, w, printFormatsUsage)
	return f, rest, err
}

func parseServeFlags(args []string, w io.Writer) (*serveFlags, []string, error) {
	f := &serveFlags{}
	rest, err := parseFlagSet(buildServeFlagSet(f), args, w, printServeUsage)
	return f, rest, err
}
