package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	designstudio "github.com/alnah/go-designstudio"
)

// runFormats lists the output formats.
func runFormats(args []string, env *Environment) error {
	f, positional, err := parseFormatsFlags(args, env.Stderr)
	if errors.Is(err, errHelpShown) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: formats takes no arguments", errUsage)
	}

	cfg, _, err := setup(env, f.common)
	if err != nil {
		return err
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}

	formats, err := designstudio.Formats(cfg.Assets.BasePath)
	if err != nil {
		return err
	}
	return printFormats(env.Stdout, formats, f.json)
}

// printFormats writes formats as a table or JSON.
func printFormats(w io.Writer, formats []designstudio.Format, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(formats)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSIZE\tORIENTATION")
	for _, f := range formats {
		orientation := "landscape"
		switch {
		case f.Portrait():
			orientation = "portrait"
		case f.Width == f.Height:
			orientation = "square"
		}
		fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%s\n", f.ID, f.Name, f.Width, f.Height, orientation)
	}
	return tw.Flush()
}
