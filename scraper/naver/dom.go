package naver

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Node is read-only access to one element of a rendered page.
type Node interface {
	// Child returns the n-th (1-based) direct child element with the tag,
	// the same as an XPath step tag[n].
	Child(tag string, n int) (Node, bool)
	// FindAll returns every descendant with the tag, in document order.
	FindAll(tag string) []Node
	// Find returns the first descendant with the tag, in document order.
	Find(tag string) (Node, bool)
	// FindClass returns the first descendant carrying the class.
	FindClass(class string) (Node, bool)
	Attr(name string) (string, bool)
	// Text is the node's rendered text with runs of whitespace collapsed.
	// Script and style contents are not part of it.
	Text() string
	InnerHTML() (string, error)
}

type htmlNode struct {
	sel *goquery.Selection
}

// ParseFragment parses rendered markup and returns the first element
// matching selector inside it.
func ParseFragment(markup, selector string) (Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	node, ok := wrap(doc.Find(selector))
	if !ok {
		return nil, fmt.Errorf("selector %q not found in markup", selector)
	}
	return node, nil
}

func wrap(sel *goquery.Selection) (Node, bool) {
	if sel.Length() == 0 {
		return nil, false
	}
	return htmlNode{sel: sel.First()}, true
}

func (n htmlNode) Child(tag string, index int) (Node, bool) {
	if index < 1 {
		return nil, false
	}
	return wrap(n.sel.ChildrenFiltered(tag).Eq(index - 1))
}

func (n htmlNode) FindAll(tag string) []Node {
	kids := n.sel.Find(tag)
	out := make([]Node, 0, kids.Length())
	kids.Each(func(_ int, s *goquery.Selection) {
		out = append(out, htmlNode{sel: s})
	})
	return out
}

func (n htmlNode) Find(tag string) (Node, bool) {
	return wrap(n.sel.Find(tag))
}

func (n htmlNode) FindClass(class string) (Node, bool) {
	return wrap(n.sel.Find("." + class))
}

func (n htmlNode) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

// hiddenText holds elements whose contents a browser never renders as text.
const hiddenText = "script, style, noscript, template"

func (n htmlNode) Text() string {
	sel := n.sel
	if sel.Find(hiddenText).Length() > 0 {
		sel = sel.Clone()
		sel.Find(hiddenText).Remove()
	}
	return strings.Join(strings.Fields(sel.Text()), " ")
}

func (n htmlNode) InnerHTML() (string, error) {
	return n.sel.Html()
}
