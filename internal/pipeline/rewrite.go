package pipeline

import (
	"bytes"
	"html"
	"strings"

	nethtml "golang.org/x/net/html"
)

// Resolver maps a literal image source to its replacement.
// ok=false, or an empty replacement, leaves the source untouched.
type Resolver func(src string) (replacement string, ok bool)

// MapResolver resolves sources by exact match against names.
func MapResolver(names map[string]string) Resolver {
	return func(src string) (string, bool) {
		locator, ok := names[src]
		return locator, ok
	}
}

// RewriteAssets replaces every <img src> whose value exactly matches a
// display name in names with the mapped locator. Unmatched references are
// left byte-for-byte unchanged, and so is every other part of the markup.
func RewriteAssets(markup string, names map[string]string) string {
	if len(names) == 0 {
		return markup
	}
	return RewriteImageSources(markup, MapResolver(names))
}

// RewriteImageSources applies resolve to the first src attribute of every
// <img> tag. Comments, raw-text elements and non-img tags are never touched.
// The output equals the input when nothing resolves.
func RewriteImageSources(markup string, resolve Resolver) string {
	if resolve == nil || !mayContainImg(markup) {
		return markup
	}

	var b strings.Builder
	consumed := 0
	changed := false

	forEachImgTag(markup, func(start, end int, raw []byte) {
		out, ok := rewriteSrc(raw, resolve)
		if !ok {
			return
		}
		if !changed {
			b.Grow(len(markup) + 64)
			changed = true
		}
		b.WriteString(markup[consumed:start])
		b.WriteString(out)
		consumed = end
	})

	if !changed {
		return markup
	}
	b.WriteString(markup[consumed:])
	return b.String()
}

// ImageSources returns the decoded src value of every <img> tag in
// document order. Tags without a src are skipped.
func ImageSources(markup string) []string {
	if !mayContainImg(markup) {
		return nil
	}

	var srcs []string
	forEachImgTag(markup, func(_, _ int, raw []byte) {
		if attr, ok := findSrc(raw); ok {
			srcs = append(srcs, attr.value(raw))
		}
	})
	return srcs
}

func mayContainImg(markup string) bool {
	return strings.Contains(strings.ToLower(markup), "<img")
}

// forEachImgTag tokenizes markup and calls fn with the byte range and an
// unmodified copy of every <img> start or self-closing tag.
func forEachImgTag(markup string, fn func(start, end int, raw []byte)) {
	z := nethtml.NewTokenizer(strings.NewReader(markup))
	offset := 0

	for {
		tt := z.Next()
		if tt == nethtml.ErrorToken {
			return
		}

		// TagName lowercases the buffer in place, so copy first.
		raw := append([]byte(nil), z.Raw()...)
		start := offset
		offset += len(raw)

		if tt != nethtml.StartTagToken && tt != nethtml.SelfClosingTagToken {
			continue
		}
		name, _ := z.TagName()
		if string(name) != "img" {
			continue
		}
		fn(start, offset, raw)
	}
}

// attrValue locates an attribute value inside a raw tag.
type attrValue struct {
	start, end int  // value bytes, excluding quotes
	quote      byte // '"', '\'' or 0 for unquoted
}

func (a attrValue) value(raw []byte) string {
	return html.UnescapeString(string(raw[a.start:a.end]))
}

// findSrc scans a raw tag for its first src attribute.
// Later duplicates are ignored, matching how browsers parse attributes.
func findSrc(raw []byte) (attrValue, bool) {
	i := 1 // skip '<'
	for i < len(raw) && !isTagSpace(raw[i]) && raw[i] != '/' && raw[i] != '>' {
		i++
	}

	for i < len(raw) {
		for i < len(raw) && (isTagSpace(raw[i]) || raw[i] == '/') {
			i++
		}
		if i >= len(raw) || raw[i] == '>' {
			return attrValue{}, false
		}

		nameStart := i
		for i < len(raw) && !isTagSpace(raw[i]) && raw[i] != '/' && raw[i] != '>' && raw[i] != '=' {
			i++
		}
		name := raw[nameStart:i]

		for i < len(raw) && isTagSpace(raw[i]) {
			i++
		}
		if i >= len(raw) || raw[i] != '=' {
			continue
		}
		i++
		for i < len(raw) && isTagSpace(raw[i]) {
			i++
		}
		if i >= len(raw) {
			return attrValue{}, false
		}

		var v attrValue
		switch q := raw[i]; q {
		case '"', '\'':
			closing := bytes.IndexByte(raw[i+1:], q)
			if closing < 0 {
				return attrValue{}, false
			}
			v = attrValue{start: i + 1, end: i + 1 + closing, quote: q}
			i = v.end + 1
		default:
			v.start = i
			for i < len(raw) && !isTagSpace(raw[i]) && raw[i] != '>' {
				i++
			}
			v.end = i
		}

		if bytes.EqualFold(name, []byte("src")) {
			return v, true
		}
	}
	return attrValue{}, false
}

// rewriteSrc returns raw with its src value replaced, or false when the
// tag has no src or the resolver has nothing for it.
func rewriteSrc(raw []byte, resolve Resolver) (string, bool) {
	attr, ok := findSrc(raw)
	if !ok {
		return "", false
	}

	replacement, ok := resolve(attr.value(raw))
	if !ok || replacement == "" {
		return "", false
	}

	var b strings.Builder
	b.Grow(len(raw) + len(replacement))
	b.Write(raw[:attr.start])
	switch attr.quote {
	case 0:
		b.WriteByte('"')
		b.WriteString(escapeAttr(replacement, '"'))
		b.WriteByte('"')
	default:
		b.WriteString(escapeAttr(replacement, attr.quote))
	}
	b.Write(raw[attr.end:])
	return b.String(), true
}

// escapeAttr escapes a value for an attribute delimited by quote.
func escapeAttr(s string, quote byte) string {
	r := strings.NewReplacer("&", "&amp;", string(quote), quoteEntity(quote))
	return r.Replace(s)
}

func quoteEntity(quote byte) string {
	if quote == '\'' {
		return "&#39;"
	}
	return "&#34;"
}

func isTagSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
