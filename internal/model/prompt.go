package model

import (
	"fmt"
	"strings"
)

// formatLine summarizes the target format for the user message.
func formatLine(f *FormatInfo) string {
	if f == nil {
		return "No specific format selected"
	}
	return fmt.Sprintf("Format: %s (%d×%d px)", f.Name, f.Width, f.Height)
}

// SystemPrompt builds the instructions sent ahead of every request.
func SystemPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("You are an expert visual designer who builds graphics with HTML, CSS and inline SVG.\n")
	b.WriteString("Produce clean, valid HTML and CSS implementing the design the user describes.\n\n")

	if f := req.Format; f != nil {
		orientation := "landscape"
		if f.Portrait() {
			orientation = "portrait"
		} else if f.Width == f.Height {
			orientation = "square"
		}
		fmt.Fprintf(&b, "TARGET FORMAT:\n")
		fmt.Fprintf(&b, "Name: %s\n", f.Name)
		fmt.Fprintf(&b, "Canvas: %d×%d px (aspect %d:%d, %s)\n", f.Width, f.Height, f.Width, f.Height, orientation)
		fmt.Fprintf(&b, "The design is rendered in a fixed box of exactly this size and anything outside it is clipped.\n\n")
	}

	b.WriteString("Guidelines:\n")
	guidelines := []string{
		"Use modern, visually appealing layout, color and typography.",
		"Write semantic, accessible HTML.",
		"Center content horizontally and vertically unless asked otherwise; flexbox works well.",
		"Give the outermost element width: 100% and height: 100% so it fills the canvas.",
		"Keep every element inside the canvas bounds.",
		"Absolute positioning is fine when it is relative to the outermost element.",
		"Do not use <script>; scripts are blocked in the preview.",
		"Uploaded images are referenced by their exact name in img src, for example <img src=\"logo\">.",
	}
	if f := req.Format; f != nil {
		guidelines = append(guidelines, fmt.Sprintf("The canvas is exactly %d×%d px.", f.Width, f.Height))
	}
	for i, g := range guidelines {
		fmt.Fprintf(&b, "%d. %s\n", i+1, g)
	}
	b.WriteString("\n")

	if req.Revising() {
		b.WriteString("The user already has a design. Revise it as requested and keep its structure where sensible.\n\n")
	} else {
		b.WriteString("Create a new design from the user's description.\n\n")
	}

	b.WriteString(`RESPONSE FORMAT:
Reply with one raw JSON object and nothing else: no markdown fences, no text before or after it.
It must have exactly these three string fields:
{"html": "the complete HTML", "css": "the complete CSS", "explanation": "a short description of the design"}
Example: {"html":"<div class=\"card\"><h1>Hi</h1></div>","css":".card{padding:20px}","explanation":"A simple card."}`)

	return b.String()
}

// UserPrompt builds the user message, carrying the current design when
// both its markup and stylesheet are present.
func UserPrompt(req Request) string {
	if !req.Revising() {
		return formatLine(req.Format) + "\n\n" + req.Prompt
	}
	return fmt.Sprintf("Here is my current design:\n\nHTML:\n```html\n%s\n```\n\nCSS:\n```css\n%s\n```\n\n%s\n\nPlease %s",
		req.CurrentMarkup, req.CurrentStylesheet, formatLine(req.Format), req.Prompt)
}

// confirmation is the chat reply shown after a successful request.
func confirmation(revised bool) string {
	if revised {
		return "I've updated the design based on your request. What would you like to change?"
	}
	return "I've created the design based on your request. What would you like to change?"
}
