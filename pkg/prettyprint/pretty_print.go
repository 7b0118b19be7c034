package prettyprint

import (
	"bytes"
	"fmt"
	"strings"
)

// Based on http://homepages.inf.ed.ac.uk/wadler/papers/prettier/prettier.pdf
// Only the flat layout is implemented; messages are rendered on one line.

type Doc interface {
	// String returns the rendered representation.
	String() string
	// Debug returns a representation of the doc tree.
	Debug() string
}

// Text

type text struct {
	str string
}

var _ Doc = &text{}

func Text(s string) Doc {
	return &text{
		str: s,
	}
}

func Textf(format string, args ...interface{}) Doc {
	return Text(fmt.Sprintf(format, args...))
}

// Quote renders s as a double-quoted Go string literal.
func Quote(s string) Doc {
	return Textf("%q", s)
}

func (s *text) String() string {
	return s.str
}

func (s *text) Debug() string {
	return fmt.Sprintf("Text(%#v)", s.str)
}

// Seq

type concat struct {
	docs []Doc
}

func Seq(docs ...Doc) Doc {
	return &concat{
		docs: docs,
	}
}

func (c *concat) String() string {
	buf := bytes.NewBufferString("")
	for _, doc := range c.docs {
		buf.WriteString(doc.String())
	}
	return buf.String()
}

func (c *concat) Debug() string {
	docStrs := make([]string, len(c.docs))
	for idx := range c.docs {
		docStrs[idx] = c.docs[idx].Debug()
	}
	return fmt.Sprintf("Seq(%s)", strings.Join(docStrs, ", "))
}

// Combinators

func Join(docs []Doc, sep Doc) Doc {
	var out []Doc
	for idx, doc := range docs {
		if idx > 0 {
			out = append(out, sep)
		}
		out = append(out, doc)
	}
	return Seq(out...)
}

// Surround wraps d in the open and close delimiters.
func Surround(open string, d Doc, close string) Doc {
	return Seq(Text(open), d, Text(close))
}

// KV renders "key: value".
func KV(key string, value Doc) Doc {
	return Seq(Text(key), Text(": "), value)
}

var CommaSpace = Text(", ")
