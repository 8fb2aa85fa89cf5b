package page

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
)

// HTML is markup that is already safe to write to the page verbatim.
type HTML string

// Escape turns plain text into HTML.
func Escape(s string) HTML {
	return HTML(html.EscapeString(s))
}

// Span wraps text in the generic inline element.
func Span(s string) HTML {
	return "<span>" + Escape(s) + "</span>"
}

// Attribute is a single key/value pair on an opening tag. Attributes with
// an empty value are not written.
type Attribute struct {
	Key   string
	Value string
}

// Attr builds an arbitrary attribute.
func Attr(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Class joins the non-empty names into a class attribute.
func Class(names ...string) Attribute {
	var parts []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			parts = append(parts, n)
		}
	}
	return Attribute{Key: "class", Value: strings.Join(parts, " ")}
}

func Colspan(n int) Attribute {
	return Attribute{Key: "colspan", Value: strconv.Itoa(n)}
}

func Href(url string) Attribute {
	return Attribute{Key: "href", Value: url}
}

// Writer emits markup into an output stream and keeps track of the open
// tags so that callers can verify the structure they produced.
type Writer struct {
	out       io.Writer
	stack     []string
	imbalance []string
	err       error
}

// NewWriter creates a Writer on top of out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) write(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.out, s)
}

// Open writes an opening tag and pushes it on the tag stack.
func (w *Writer) Open(tag string, attrs ...Attribute) {
	w.write(openTag(tag, attrs))
	w.stack = append(w.stack, tag)
}

// Close writes a closing tag. Closing anything but the innermost open tag
// is recorded as an imbalance; the tag is still written.
func (w *Writer) Close(tag string) {
	n := len(w.stack)
	if n == 0 || w.stack[n-1] != tag {
		w.imbalance = append(w.imbalance, fmt.Sprintf("close %s with open stack %v", tag, w.stack))
	} else {
		w.stack = w.stack[:n-1]
	}
	w.write("</" + tag + ">")
}

// Element writes a complete element with trusted content.
func (w *Writer) Element(tag string, content HTML, attrs ...Attribute) {
	w.write(openTag(tag, attrs) + string(content) + "</" + tag + ">")
}

// Text writes escaped text.
func (w *Writer) Text(s string) {
	w.write(html.EscapeString(s))
}

// Write writes trusted markup.
func (w *Writer) Write(h HTML) {
	w.write(string(h))
}

func (w *Writer) Style(css string) {
	w.write("<style>" + css + "</style>\n")
}

func (w *Writer) Script(js string) {
	w.write("<script>" + js + "</script>\n")
}

// Depth is the number of currently open tags.
func (w *Writer) Depth() int { return len(w.stack) }

// Balanced reports whether every tag opened so far was closed in order.
func (w *Writer) Balanced() bool {
	return len(w.stack) == 0 && len(w.imbalance) == 0
}

// Imbalances lists the out of order closes seen so far.
func (w *Writer) Imbalances() []string { return w.imbalance }

// Err returns the first error from the underlying writer.
func (w *Writer) Err() error { return w.err }

func openTag(tag string, attrs []Attribute) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(tag)
	for _, a := range attrs {
		if a.Value == "" {
			continue
		}
		b.WriteString(" ")
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Value))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	return b.String()
}
