package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestExplanationRenderer_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		markdown     string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "emphasis and lists",
			markdown:     "Uses a **bold** headline.\n\n- warm palette\n- large type",
			wantContains: []string{"<strong>bold</strong>", "<li>warm palette</li>"},
		},
		{
			name:         "raw html is dropped",
			markdown:     "Hi <script>alert(1)</script> there",
			wantExcludes: []string{"<script>", "alert(1)</script>"},
		},
		{
			name:         "unsafe link scheme removed",
			markdown:     "[click](javascript:alert(1))",
			wantExcludes: []string{"javascript:"},
		},
		{
			name:         "code block keeps highlight classes",
			markdown:     "```css\n.a { color: red; }\n```",
			wantContains: []string{`class="chroma"`},
		},
	}

	r := NewExplanationRenderer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.Render(context.Background(), tt.markdown)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q\n%s", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("output contains %q\n%s", exclude, got)
				}
			}
		})
	}
}

func TestExplanationRenderer_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExplanationRenderer().Render(ctx, "text")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}
