package htmlutil

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s+`)

// CleanText collapses runs of whitespace (including the non-breaking
// spaces server-rendered JSF pages are full of) into single spaces and
// trims the result.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(innerWhitespace.ReplaceAllString(s, " "))
}

// NormalizeUrl strips the redundant :443 port from https urls so two
// renderings of the same link compare equal. Unparseable input is
// returned trimmed but otherwise untouched.
func NormalizeUrl(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	link, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if link.Scheme == "https" && strings.HasSuffix(link.Host, ":443") {
		link.Host = strings.TrimSuffix(link.Host, ":443")
	}
	return link.String()
}
