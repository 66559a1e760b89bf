//go:build bench

package pipeline

import (
	"fmt"
	"strings"
	"testing"
)

// BenchmarkRewriteAssets measures the per-update cost of mapping image
// names to locators. It runs on every document change.
func BenchmarkRewriteAssets(b *testing.B) {
	names := make(map[string]string, 50)
	for i := range 50 {
		names[fmt.Sprintf("photo-%d.png", i)] = fmt.Sprintf("file:///data/blobs/asset_%d.png", i)
	}

	small := `<section><h1>Sale</h1><img src="photo-1.png" alt=""></section>`
	large := strings.Repeat(`<div class="card"><img src="photo-7.png"><p>Copy text here.</p></div>`+"\n", 400)
	noImages := strings.Repeat("<p>Paragraph content here.</p>\n", 500)

	inputs := []struct {
		name   string
		markup string
	}{
		{"small", small},
		{"large_many_images", large},
		{"no_images", noImages},
		{"unknown_names", strings.ReplaceAll(large, "photo-7", "missing")},
	}

	for _, input := range inputs {
		b.Run(input.name, func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_ = RewriteAssets(input.markup, names)
			}
		})
	}
}

// BenchmarkSanitizeCSS measures escaping of stylesheet breakouts.
func BenchmarkSanitizeCSS(b *testing.B) {
	inputs := []struct {
		name string
		css  string
	}{
		{"clean", strings.Repeat(".hero { color: red; margin: 10px; }\n", 100)},
		{"breakouts", strings.Repeat(".a{} </style><script>x</script>\n", 100)},
	}

	for _, input := range inputs {
		b.Run(input.name, func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_ = SanitizeCSS(input.css)
			}
		})
	}
}
