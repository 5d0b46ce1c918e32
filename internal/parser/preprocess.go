package parser

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dshills/gobudou/pkg/types"
)

// DefaultClassName is the class given to chunk spans when none is set
const DefaultClassName = "chunk"

// InlineTags are the elements kept as markup when KeepMarkup is set.
// Any other element contributes its text only.
var InlineTags = map[atom.Atom]bool{
	atom.A:      true,
	atom.Abbr:   true,
	atom.B:      true,
	atom.Code:   true,
	atom.Em:     true,
	atom.I:      true,
	atom.Kbd:    true,
	atom.Mark:   true,
	atom.Q:      true,
	atom.S:      true,
	atom.Small:  true,
	atom.Span:   true,
	atom.Strong: true,
	atom.Sub:    true,
	atom.Sup:    true,
	atom.U:      true,
	atom.Ruby:   true,
	atom.Rb:     true,
	atom.Rt:     true,
	atom.Rp:     true,
}

var urlAttributes = map[string]bool{"href": true, "src": true, "action": true, "formaction": true, "xlink:href": true}

// ParseAttributes returns a copy of attributes whose class defaults to
// DefaultClassName. A non-empty classname replaces the class attribute.
func ParseAttributes(attributes map[string]string, classname string) map[string]string {
	out := make(map[string]string, len(attributes)+1)
	for k, v := range attributes {
		out[k] = v
	}
	if _, ok := out["class"]; !ok {
		out["class"] = DefaultClassName
	}
	if classname != "" {
		out["class"] = classname
	}
	return out
}

// Preprocess extracts the text of an HTML fragment. Line breaks are removed,
// the text is trimmed, <br> becomes a space and runs of white space collapse
// to one space. Inline elements are returned with their code-point index in
// the resulting text.
func Preprocess(source string) (string, []types.Element, error) {
	nodes, err := html.ParseFragment(strings.NewReader(source), &html.Node{
		Type:     html.ElementNode,
		Data:     atom.Body.String(),
		DataAtom: atom.Body,
	})
	if err != nil {
		return "", nil, fmt.Errorf("parse html: %w", err)
	}

	e := &extractor{}
	for _, n := range nodes {
		e.walk(n)
	}

	text, index := normalize(e.text)

	elements := make([]types.Element, 0, len(e.spans))
	for _, sp := range e.spans {
		start, end := index[sp.start], index[sp.end]
		if start >= end {
			continue
		}
		source, err := renderInline(sp.node)
		if err != nil {
			return "", nil, err
		}
		elements = append(elements, types.Element{
			Text:   string(text[start:end]),
			Tag:    sp.node.Data,
			Source: source,
			Index:  start,
		})
	}
	return string(text), elements, nil
}

type span struct {
	node       *html.Node
	start, end int
}

// extractor collects raw text runes and the rune ranges of outermost inline
// elements
type extractor struct {
	text   []rune
	spans  []span
	inline int
}

func (e *extractor) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		e.text = append(e.text, []rune(n.Data)...)
		return
	case html.ElementNode:
		if n.DataAtom == atom.Br {
			e.text = append(e.text, ' ')
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}

	record := n.Type == html.ElementNode && InlineTags[n.DataAtom] && e.inline == 0
	start := len(e.text)
	if record {
		e.inline++
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.walk(c)
	}
	if record {
		e.inline--
		e.spans = append(e.spans, span{node: n, start: start, end: len(e.text)})
	}
}

// normalize applies the text rules to raw and returns the result together
// with a map from every raw position (including len(raw)) to the matching
// position in the result
func normalize(raw []rune) ([]rune, []int) {
	// Drop line breaks.
	kept := make([]rune, 0, len(raw))
	index := make([]int, len(raw)+1)
	for i, r := range raw {
		index[i] = len(kept)
		if r != '\n' {
			kept = append(kept, r)
		}
	}
	index[len(raw)] = len(kept)

	// Trim.
	lo, hi := 0, len(kept)
	for lo < hi && unicode.IsSpace(kept[lo]) {
		lo++
	}
	for hi > lo && unicode.IsSpace(kept[hi-1]) {
		hi--
	}

	// Collapse runs of two or more white space runes.
	out := make([]rune, 0, hi-lo)
	step := make([]int, len(kept)+1)
	for i := 0; i < len(kept); {
		if i < lo || i >= hi {
			step[i] = len(out)
			i++
			continue
		}
		if !unicode.IsSpace(kept[i]) {
			step[i] = len(out)
			out = append(out, kept[i])
			i++
			continue
		}
		j := i
		for j < hi && unicode.IsSpace(kept[j]) {
			j++
		}
		for k := i; k < j; k++ {
			step[k] = len(out)
		}
		if j-i > 1 {
			out = append(out, ' ')
		} else {
			out = append(out, kept[i])
		}
		i = j
	}
	step[len(kept)] = len(out)

	for i := range index {
		index[i] = step[index[i]]
	}
	return out, index
}

// renderInline renders a sanitized copy of an inline element. Event handler
// attributes and javascript: URLs are removed, elements outside InlineTags
// are unwrapped and text is normalized like the surrounding document.
func renderInline(n *html.Node) (string, error) {
	clone := sanitize(n)
	var buf bytes.Buffer
	for _, c := range clone {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("render element <%s>: %w", n.Data, err)
		}
	}
	return buf.String(), nil
}

func sanitize(n *html.Node) []*html.Node {
	switch n.Type {
	case html.TextNode:
		return []*html.Node{{Type: html.TextNode, Data: collapse(n.Data)}}
	case html.ElementNode:
	default:
		return nil
	}

	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Br {
			children = append(children, &html.Node{Type: html.TextNode, Data: " "})
			continue
		}
		children = append(children, sanitize(c)...)
	}
	if !InlineTags[n.DataAtom] {
		return children
	}

	out := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Data,
		DataAtom: n.DataAtom,
	}
	for _, a := range n.Attr {
		if a.Namespace != "" || strings.HasPrefix(strings.ToLower(a.Key), "on") {
			continue
		}
		if urlAttributes[strings.ToLower(a.Key)] && isJavaScriptURL(a.Val) {
			continue
		}
		out.Attr = append(out.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	for _, c := range children {
		out.AppendChild(c)
	}
	return []*html.Node{out}
}

func isJavaScriptURL(v string) bool {
	v = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return -1
		}
		return r
	}, v)
	return strings.HasPrefix(strings.ToLower(v), "javascript:")
}

// collapse removes line breaks and collapses runs of white space
func collapse(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	var sb strings.Builder
	run := 0
	var pending rune
	flush := func() {
		switch {
		case run == 1:
			sb.WriteRune(pending)
		case run > 1:
			sb.WriteByte(' ')
		}
		run = 0
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			if run == 0 {
				pending = r
			}
			run++
			continue
		}
		flush()
		sb.WriteRune(r)
	}
	flush()
	return sb.String()
}
