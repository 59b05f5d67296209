// Package writer provides an indentation-aware text builder shared by the
// language renderers.
package writer

import (
	"fmt"
	"strings"
)

// Writer accumulates generated source with proper indentation
type Writer struct {
	sb            strings.Builder
	indentLevel   int
	indentString  string
	commentPrefix string
	linePrefix    string
	needsIndent   bool
}

// NewWriter creates a writer that indents with indentString and writes
// line comments with "//"
func NewWriter(indentString string) *Writer {
	return &Writer{
		indentString:  indentString,
		commentPrefix: "//",
		needsIndent:   true,
	}
}

// WithCommentPrefix changes the line comment marker, e.g. "#" or "///"
func (w *Writer) WithCommentPrefix(prefix string) *Writer {
	w.commentPrefix = prefix
	return w
}

// Indent increases the indentation level
func (w *Writer) Indent() {
	w.indentLevel++
	w.updatePrefix()
}

// Dedent decreases the indentation level
func (w *Writer) Dedent() {
	if w.indentLevel > 0 {
		w.indentLevel--
		w.updatePrefix()
	}
}

func (w *Writer) write(s string) {
	if w.needsIndent && s != "" {
		w.sb.WriteString(w.linePrefix)
		w.needsIndent = false
	}
	w.sb.WriteString(s)
}

// WriteLine writes a string and adds a newline
func (w *Writer) WriteLine(s string) {
	w.write(s)
	w.newline()
}

// WriteLinef writes a formatted string and adds a newline
func (w *Writer) WriteLinef(format string, args ...any) {
	w.write(fmt.Sprintf(format, args...))
	w.newline()
}

func (w *Writer) newline() {
	w.sb.WriteString("\n")
	w.needsIndent = true
}

// BlankLine adds an empty line unless the output is empty or already ends with one
func (w *Writer) BlankLine() {
	if w.sb.Len() > 0 && !strings.HasSuffix(w.sb.String(), "\n\n") {
		w.newline()
	}
}

// String returns the generated code as a string
func (w *Writer) String() string {
	return w.sb.String()
}

// Bytes returns the generated code as a byte slice
func (w *Writer) Bytes() []byte {
	return []byte(w.sb.String())
}

func (w *Writer) updatePrefix() {
	w.linePrefix = strings.Repeat(w.indentString, w.indentLevel)
}

// WriteBlock writes content inside a block with proper indentation
func (w *Writer) WriteBlock(opener, closer string, content func()) {
	w.WriteLine(opener)
	w.Indent()
	content()
	w.Dedent()
	w.WriteLine(closer)
}

// WriteComment writes a single-line comment
func (w *Writer) WriteComment(comment string) {
	w.WriteLinef("%s %s", w.commentPrefix, comment)
}
