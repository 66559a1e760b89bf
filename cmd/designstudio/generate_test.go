package main

// Notes:
// - runGenerate: the model is a fakeCompleter injected through
//   Environment.NewCompleter; output is html so no browser starts.
// - generatedOutputPath uses the fixed clock from newTestEnv.

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	designstudio "github.com/alnah/go-designstudio"
	"github.com/alnah/go-designstudio/internal/model"
)

func sampleDesign() *designstudio.CompletionResponse {
	return &designstudio.CompletionResponse{
		Markup:      `<section class="hero"><h1>Spring Sale</h1></section>`,
		Stylesheet:  ".hero{background:#fde}",
		Explanation: "A **bold** headline on a pastel field.",
		Message:     "Here is your spring design.",
	}
}

// ---------------------------------------------------------------------------
// TestRunGenerate - Model-backed design creation
// ---------------------------------------------------------------------------

func TestRunGenerate(t *testing.T) {
	t.Parallel()

	t.Run("writes export and source", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		cfgPath := writeConfig(t, dir)
		out := filepath.Join(dir, "out")
		fake := &fakeCompleter{resp: sampleDesign()}
		env := newTestEnv(fake, nil)

		code := runMain(context.Background(), []string{
			"designstudio", "generate", "spring", "sale", "poster",
			"-f", "instagram-story", "-o", out, "--source", "-c", cfgPath,
		}, env.Environment)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, env.stderr.String())
		}

		export := filepath.Join(out, "design-instagram-story-20260314-150926.html")
		if html := readFile(t, export); !strings.Contains(html, "<h1>Spring Sale</h1>") {
			t.Errorf("export missing generated markup")
		}
		base := strings.TrimSuffix(export, ".html") + ".source"
		if got := readFile(t, base+".html"); got != sampleDesign().Markup {
			t.Errorf("source markup = %q", got)
		}
		if got := readFile(t, base+".css"); got != sampleDesign().Stylesheet {
			t.Errorf("source stylesheet = %q", got)
		}

		reqs := fake.requests()
		if len(reqs) != 1 {
			t.Fatalf("completer called %d times, want 1", len(reqs))
		}
		if reqs[0].Prompt != "spring sale poster" {
			t.Errorf("Prompt = %q", reqs[0].Prompt)
		}
		if reqs[0].Format == nil || reqs[0].Format.Height != 1920 {
			t.Errorf("Format = %+v, want the story format", reqs[0].Format)
		}
		if reqs[0].Revising() {
			t.Error("first generation sent a current design")
		}

		stdout := env.stdout.String()
		for _, want := range []string{"Created " + export, "Here is your spring design.", "A **bold** headline"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("stdout = %q, want it to contain %q", stdout, want)
			}
		}
	})

	t.Run("revises an existing design", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		cfgPath := writeConfig(t, dir)
		from := writeFile(t, dir, "old.html", "<h1>Old</h1>")
		writeFile(t, dir, "old.css", "h1{color:blue}")
		fake := &fakeCompleter{resp: sampleDesign()}
		env := newTestEnv(fake, nil)

		code := runMain(context.Background(), []string{
			"designstudio", "generate", "make it pink", "-f", "instagram-square",
			"--from", from, "-o", filepath.Join(dir, "new.html"), "-q", "-c", cfgPath,
		}, env.Environment)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, env.stderr.String())
		}

		reqs := fake.requests()
		if len(reqs) != 1 || reqs[0].CurrentMarkup != "<h1>Old</h1>" || reqs[0].CurrentStylesheet != "h1{color:blue}" {
			t.Errorf("requests = %+v, want the current design attached", reqs)
		}
		if env.stdout.Len() != 0 {
			t.Errorf("quiet run wrote %q", env.stdout.String())
		}
		readFile(t, filepath.Join(dir, "new.html"))
	})

	t.Run("format from config", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		cfgPath := writeFile(t, dir, "designstudio.yaml", "format: facebook-post\ncatalog:\n  store: memory\n")
		fake := &fakeCompleter{resp: sampleDesign()}
		env := newTestEnv(fake, nil)

		code := runMain(context.Background(), []string{
			"designstudio", "generate", "banner", "-o", dir, "-c", cfgPath,
		}, env.Environment)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, env.stderr.String())
		}
		readFile(t, filepath.Join(dir, "design-facebook-post-20260314-150926.html"))
	})
}

func TestRunGenerate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		args         []string
		completer    *fakeCompleter
		completerErr error
		wantCode     int
		wantErr      string
	}{
		{
			name:     "missing format",
			args:     []string{"a poster"},
			wantCode: ExitUsage,
			wantErr:  "no output format selected",
		},
		{
			name:         "missing api key",
			args:         []string{"a poster", "-f", "instagram-square"},
			completerErr: model.ErrMissingAPIKey,
			wantCode:     ExitModel,
			wantErr:      "OPENAI_API_KEY",
		},
		{
			name:      "model failure",
			args:      []string{"a poster", "-f", "instagram-square"},
			completer: &fakeCompleter{err: model.ErrMalformedResponse},
			wantCode:  ExitModel,
			wantErr:   "hint:",
		},
		{
			name:      "from is not html",
			args:      []string{"a poster", "-f", "instagram-square", "--from", "notes.md"},
			completer: &fakeCompleter{resp: sampleDesign()},
			wantCode:  ExitUsage,
			wantErr:   "design file must have .html or .htm extension",
		},
		{
			name:      "unknown format",
			args:      []string{"a poster", "-f", "billboard"},
			completer: &fakeCompleter{resp: sampleDesign()},
			wantCode:  ExitUsage,
			wantErr:   "format not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			cfgPath := writeFile(t, dir, "designstudio.yaml", "catalog:\n  store: memory\n")
			var completer designstudio.Completer
			if tt.completer != nil {
				completer = tt.completer
			}
			env := newTestEnv(completer, tt.completerErr)
			args := append([]string{"designstudio", "generate"}, tt.args...)
			args = append(args, "-o", dir, "-c", cfgPath)

			code := runMain(context.Background(), args, env.Environment)

			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, env.stderr.String())
			}
			if !strings.Contains(env.stderr.String(), tt.wantErr) {
				t.Errorf("stderr = %q, want it to contain %q", env.stderr.String(), tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestGeneratedOutputPath - Timestamped names
// ---------------------------------------------------------------------------

func TestGeneratedOutputPath(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	story := designstudio.Format{ID: "instagram-story"}

	tests := []struct {
		name   string
		output string
		kind   outputType
		want   string
	}{
		{"working directory", "", outputPNG, "design-instagram-story-20260102-030405.png"},
		{"directory", "out", outputJPEG, filepath.Join("out", "design-instagram-story-20260102-030405.jpg")},
		{"explicit file", filepath.Join("out", "story.pdf"), outputPDF, filepath.Join("out", "story.pdf")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := generatedOutputPath(tt.output, story, tt.kind, at); got != tt.want {
				t.Errorf("generatedOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPrintGenerated - Result summary
// ---------------------------------------------------------------------------

func TestPrintGenerated(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	result := &designstudio.GenerateResult{Message: "Done.", Explanation: "Why it works."}

	printGenerated(&buf, result, []string{"a.png", "a.source.html"}, true, 1234*time.Millisecond)

	got := buf.String()
	for _, want := range []string{"Created a.png\n", "Created a.source.html\n", "Generated in 1.234s", "Done.", "Why it works."} {
		if !strings.Contains(got, want) {
			t.Errorf("output = %q, want it to contain %q", got, want)
		}
	}
}
