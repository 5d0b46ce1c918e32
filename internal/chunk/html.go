package chunk

import (
	"bytes"
	"fmt"
	"slices"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLSerialize renders the list as HTML. Every CJK word chunk is wrapped in
// a span carrying attributes, unless maxLength is positive and the chunk is
// longer than maxLength code points. Other chunks become plain text merged
// with the text around them. Attributes are written sorted by name.
func HTMLSerialize(l *List, attributes map[string]string, maxLength int) (string, error) {
	root := newSpan(nil)
	attrs := sortedAttributes(attributes)

	for i := 0; i < l.Len(); i++ {
		c := l.At(i)
		switch {
		case c.IsSpace():
			// A leading space has nothing to separate.
			if root.LastChild != nil {
				appendText(root, " ")
			}
		case c.HasCJK() && (maxLength <= 0 || c.Len() <= maxLength):
			span := newSpan(slices.Clone(attrs))
			appendContent(span, c)
			root.AppendChild(span)
		default:
			appendContent(root, c)
		}
	}

	var buf bytes.Buffer
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
	}
	return buf.String(), nil
}

func newSpan(attrs []html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     atom.Span.String(),
		DataAtom: atom.Span,
		Attr:     attrs,
	}
}

func sortedAttributes(attributes map[string]string) []html.Attribute {
	keys := make([]string, 0, len(attributes))
	for k := range attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]html.Attribute, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, html.Attribute{Key: k, Val: attributes[k]})
	}
	return attrs
}

// appendText adds s to the trailing text node of parent, creating one if the
// last child is not text
func appendText(parent *html.Node, s string) {
	if s == "" {
		return
	}
	if last := parent.LastChild; last != nil && last.Type == html.TextNode {
		last.Data += s
		return
	}
	parent.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

// appendContent adds the chunk word to parent, rendering preserved inline
// elements as markup
func appendContent(parent *html.Node, c *Chunk) {
	if len(c.Inlines) == 0 {
		appendText(parent, c.Word)
		return
	}

	inlines := slices.Clone(c.Inlines)
	sort.SliceStable(inlines, func(i, j int) bool { return inlines[i].Offset < inlines[j].Offset })

	runes := []rune(c.Word)
	pos := 0
	for _, in := range inlines {
		end := in.Offset + in.Element.Length()
		if in.Offset < pos || end > len(runes) || string(runes[in.Offset:end]) != in.Element.Text {
			continue
		}
		nodes, err := html.ParseFragment(strings.NewReader(in.Element.Source), newSpan(nil))
		if err != nil || len(nodes) == 0 {
			continue
		}
		appendText(parent, string(runes[pos:in.Offset]))
		for _, n := range nodes {
			parent.AppendChild(n)
		}
		pos = end
	}
	appendText(parent, string(runes[pos:]))
}

// clipInlines cuts inlines to the first n code points of their chunk word.
// Only trailing white space may be cut; it is removed from the markup too.
func clipInlines(inlines []Inline, n int) []Inline {
	out := make([]Inline, 0, len(inlines))
	for _, in := range inlines {
		runes := []rune(in.Element.Text)
		keep := n - in.Offset
		if in.Offset+len(runes) <= n {
			out = append(out, in)
			continue
		}
		if keep <= 0 || strings.TrimSpace(string(runes[keep:])) != "" {
			continue
		}
		source, err := trimTrailingSpace(in.Element.Source)
		if err != nil {
			continue
		}
		in.Element.Text = string(runes[:keep])
		in.Element.Source = source
		out = append(out, in)
	}
	return out
}

// trimTrailingSpace removes the white space at the end of the text of an
// HTML fragment
func trimTrailingSpace(source string) (string, error) {
	nodes, err := html.ParseFragment(strings.NewReader(source), newSpan(nil))
	if err != nil {
		return "", fmt.Errorf("parse inline: %w", err)
	}

	var texts []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			texts = append(texts, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	for i := len(texts) - 1; i >= 0; i-- {
		texts[i].Data = strings.TrimRightFunc(texts[i].Data, unicode.IsSpace)
		if texts[i].Data != "" {
			break
		}
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("render inline: %w", err)
		}
	}
	return buf.String(), nil
}
