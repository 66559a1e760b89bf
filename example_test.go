package designstudio_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-designstudio"
)

// Example exports a hand-written design as a portable HTML file.
// Image and PDF exports work the same way but need Chrome.
func Example() {
	formats, err := designstudio.Formats("")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	square, err := designstudio.FindFormat(formats, "instagram-square")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	doc := designstudio.Document{
		Markup:     `<h1 class="title">Summer Sale</h1>`,
		Stylesheet: ".title { color: tomato; }",
	}
	html, err := designstudio.ExportHTML(context.Background(), doc, square, nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if strings.Contains(string(html), "Summer Sale") {
		fmt.Printf("exported %dx%d design\n", square.Width, square.Height)
	}
	// Output: exported 1080x1080 design
}

// Example_formats lists a few built-in output formats.
func Example_formats() {
	formats, err := designstudio.Formats("")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, f := range formats[:3] {
		fmt.Printf("%s %dx%d\n", f.ID, f.Width, f.Height)
	}
	// Output:
	// instagram-square 1080x1080
	// instagram-story 1080x1920
	// facebook-post 1200x630
}
