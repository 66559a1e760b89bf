package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// wireDesign is the only reply shape accepted. Pointers tell a missing
// field apart from an empty one.
type wireDesign struct {
	HTML        *string `json:"html"`
	CSS         *string `json:"css"`
	Explanation *string `json:"explanation"`
}

// ParseResponse decodes a model reply. A surrounding ``` or ```json fence
// is tolerated; anything else that deviates from the three-field object
// fails with ErrMalformedResponse.
func ParseResponse(content string) (*Response, error) {
	body := stripFence(strings.TrimSpace(content))
	if body == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrMalformedResponse)
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()

	var w wireDesign
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrMalformedResponse)
	}

	switch {
	case w.HTML == nil:
		return nil, fmt.Errorf("%w: missing html", ErrMalformedResponse)
	case w.CSS == nil:
		return nil, fmt.Errorf("%w: missing css", ErrMalformedResponse)
	case w.Explanation == nil:
		return nil, fmt.Errorf("%w: missing explanation", ErrMalformedResponse)
	case strings.TrimSpace(*w.HTML) == "":
		return nil, fmt.Errorf("%w: empty html", ErrMalformedResponse)
	case strings.TrimSpace(*w.CSS) == "":
		return nil, fmt.Errorf("%w: empty css", ErrMalformedResponse)
	}

	return &Response{Markup: *w.HTML, Stylesheet: *w.CSS, Explanation: *w.Explanation}, nil
}

// stripFence removes one surrounding markdown code fence.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}
