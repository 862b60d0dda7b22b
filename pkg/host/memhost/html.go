package memhost

import (
	"bytes"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/fiber/pkg/element"
)

// HTMLConfig configures HTML serialization.
type HTMLConfig struct {
	// Pretty enables indented output, one element per line.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// NodeIDs adds a data-node attribute carrying each element's ID, so a
	// remote client can address events to host nodes.
	NodeIDs bool
}

// voidElements are elements that cannot have children and have no closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// booleanAttrs are rendered as just the attribute name when "true".
var booleanAttrs = map[string]bool{
	"checked": true, "disabled": true, "hidden": true, "readonly": true,
	"required": true, "selected": true, "autofocus": true, "multiple": true,
}

// OuterHTML serializes n and its subtree.
func (n *Node) OuterHTML() string {
	var buf bytes.Buffer
	_ = n.WriteHTML(&buf, HTMLConfig{})
	return buf.String()
}

// InnerHTML serializes the children of n.
func (n *Node) InnerHTML() string {
	var buf bytes.Buffer
	w := &htmlWriter{w: &buf}
	for _, c := range n.children {
		w.node(c, 0)
	}
	return buf.String()
}

// WriteHTML streams n to w. Containers write only their children.
func (n *Node) WriteHTML(w io.Writer, cfg HTMLConfig) error {
	if cfg.Indent == "" {
		cfg.Indent = "  "
	}
	hw := &htmlWriter{w: w, cfg: cfg}
	if n.tag == ContainerTag {
		for _, c := range n.children {
			hw.node(c, 0)
		}
	} else {
		hw.node(n, 0)
	}
	return hw.err
}

// htmlWriter keeps the first write error and turns later writes into no-ops.
type htmlWriter struct {
	w   io.Writer
	cfg HTMLConfig
	err error
}

func (hw *htmlWriter) write(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

func (hw *htmlWriter) indent(depth int) {
	if hw.cfg.Pretty {
		hw.write(strings.Repeat(hw.cfg.Indent, depth))
	}
}

func (hw *htmlWriter) newline() {
	if hw.cfg.Pretty {
		hw.write("\n")
	}
}

func (hw *htmlWriter) node(n *Node, depth int) {
	if n.IsText() {
		hw.indent(depth)
		hw.write(escapeHTML(n.props[element.NodeValue]))
		hw.newline()
		return
	}

	hw.indent(depth)
	hw.write("<")
	hw.write(n.tag)
	hw.attributes(n)
	hw.write(">")
	if voidElements[n.tag] {
		hw.newline()
		return
	}

	if len(n.children) > 0 {
		hw.newline()
		for _, c := range n.children {
			hw.node(c, depth+1)
		}
		hw.indent(depth)
	}
	hw.write("</")
	hw.write(n.tag)
	hw.write(">")
	hw.newline()
}

// attributes writes properties sorted by key for stable output.
func (hw *htmlWriter) attributes(n *Node) {
	keys := make([]string, 0, len(n.props))
	for k := range n.props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if hw.cfg.NodeIDs {
		hw.write(` data-node="`)
		hw.write(strconv.Itoa(n.id))
		hw.write(`"`)
	}
	for _, k := range keys {
		v := n.props[k]
		if booleanAttrs[k] {
			if v == "true" {
				hw.write(" ")
				hw.write(k)
			}
			continue
		}
		hw.write(" ")
		hw.write(k)
		hw.write(`="`)
		hw.write(escapeAttr(v))
		hw.write(`"`)
	}
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeAttr escapes text for safe inclusion in HTML attribute values.
// In addition to the standard HTML entities, it also escapes
// whitespace characters that could break attribute parsing.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}
