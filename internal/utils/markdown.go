package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	orderedItem  = regexp.MustCompile(`^(\s*)(\d+)\.\s+(.*)$`)
	inlineCode   = regexp.MustCompile("`([^`]+)`")
	link         = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	bold         = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicStar   = regexp.MustCompile(`(^|[^*\w])\*([^*\s][^*]*)\*($|[^*\w])`)
	italicUscore = regexp.MustCompile(`(^|[^\w])_([^_]+)_($|[^\w])`)
)

// RenderMarkdown styles the markdown subset that assistant replies use.
// Line breaks are kept as they are: log bodies are often pre-formatted.
func RenderMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	inCode := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if lang, ok := strings.CutPrefix(trimmed, "```"); ok {
			inCode = !inCode
			if inCode {
				label := "code"
				if lang != "" {
					label = lang
				}
				out = append(out, FenceStyle().Render("┌─ "+label))
			} else {
				out = append(out, FenceStyle().Render("└─"))
			}
			continue
		}
		if inCode {
			out = append(out, CodeBlockStyle().Render(line))
			continue
		}

		out = append(out, renderBlock(line))
	}

	// An unterminated fence still gets closed.
	if inCode {
		out = append(out, FenceStyle().Render("└─"))
	}
	return strings.Join(out, "\n")
}

func renderBlock(line string) string {
	indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
	body := strings.TrimLeft(line, " ")

	for _, prefix := range []string{"### ", "## ", "# "} {
		if title, ok := strings.CutPrefix(body, prefix); ok {
			return HeadingStyle().Render(renderInline(title))
		}
	}
	if quote, ok := strings.CutPrefix(body, "> "); ok {
		return QuoteStyle().Render("│ " + renderInline(quote))
	}
	for _, bullet := range []string{"- ", "* "} {
		if item, ok := strings.CutPrefix(body, bullet); ok {
			return indent + "• " + renderInline(item)
		}
	}
	if m := orderedItem.FindStringSubmatch(line); m != nil {
		return m[1] + m[2] + ". " + renderInline(m[3])
	}
	return renderInline(line)
}

// renderInline applies code spans first so their contents are left alone.
func renderInline(s string) string {
	var spans []string
	s = inlineCode.ReplaceAllStringFunc(s, func(m string) string {
		spans = append(spans, InlineCodeStyle().Render(strings.Trim(m, "`")))
		return spanMarker(len(spans) - 1)
	})

	s = link.ReplaceAllStringFunc(s, func(m string) string {
		parts := link.FindStringSubmatch(m)
		return LinkStyle().Render(parts[1])
	})
	s = bold.ReplaceAllStringFunc(s, func(m string) string {
		return BoldStyle().Render(strings.Trim(m, "*"))
	})
	s = italicStar.ReplaceAllString(s, "$1"+ItalicStyle().Render("$2")+"$3")
	s = italicUscore.ReplaceAllString(s, "$1"+ItalicStyle().Render("$2")+"$3")

	for i, span := range spans {
		s = strings.Replace(s, spanMarker(i), span, 1)
	}
	return s
}

func spanMarker(i int) string {
	return "\x00" + strconv.Itoa(i) + "\x00"
}
