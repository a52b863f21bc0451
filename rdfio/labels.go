package rdfio

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"regexp"

	"github.com/c360studio/groupsheets/graph"
)

// explicitLabelPrefix is prepended to every blank node label written in a
// document. The decoder names anonymous nodes ([], collections, nested
// descriptions) b1, b2, ..., which would otherwise share a namespace with
// labels such as _:b1 or rdf:nodeID="b1".
const explicitLabelPrefix = "x"

// scopeBlankLabels renames the blank node labels written in data so they
// cannot collide with the labels the decoder generates.
func scopeBlankLabels(data []byte, format Format) []byte {
	switch format {
	case FormatTurtle:
		return scopeTurtleLabels(data)
	case FormatRDFXML:
		return scopeNodeIDs(data)
	default:
		return data
	}
}

// scopeTurtleLabels prefixes every _:label token outside IRIs, string
// literals and comments.
func scopeTurtleLabels(data []byte) []byte {
	out := make([]byte, 0, len(data)+64)
	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case c == '#':
			end := bytes.IndexByte(data[i:], '\n')
			if end < 0 {
				end = len(data) - i
			}
			out = append(out, data[i:i+end]...)
			i += end
		case c == '<':
			end := bytes.IndexByte(data[i:], '>')
			if end < 0 {
				end = len(data) - i - 1
			}
			out = append(out, data[i:i+end+1]...)
			i += end + 1
		case c == '"' || c == '\'':
			end := turtleStringEnd(data, i)
			out = append(out, data[i:end]...)
			i = end
		case c == '\\':
			end := min(i+2, len(data))
			out = append(out, data[i:end]...)
			i = end
		case c == '_' && i+1 < len(data) && data[i+1] == ':' && (i == 0 || !isTurtleNameByte(data[i-1])):
			out = append(out, '_', ':')
			out = append(out, explicitLabelPrefix...)
			i += 2
		default:
			out = append(out, c)
			i++
		}
	}
	return out
}

// turtleStringEnd returns the offset just past the string literal opening
// at start. Unterminated strings run to the end of data.
func turtleStringEnd(data []byte, start int) int {
	q := data[start]
	long := start+2 < len(data) && data[start+1] == q && data[start+2] == q
	j := start + 1
	if long {
		j = start + 3
	}
	for j < len(data) {
		switch {
		case data[j] == '\\':
			j += 2
		case long:
			if j+2 < len(data) && data[j] == q && data[j+1] == q && data[j+2] == q {
				return j + 3
			}
			j++
		case data[j] == q || data[j] == '\n':
			return j + 1
		default:
			j++
		}
	}
	return len(data)
}

func isTurtleNameByte(c byte) bool {
	return c == '_' || c == '-' || c >= 0x80 ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

var nodeIDAttr = regexp.MustCompile(`\s([A-Za-z_][\w.-]*):nodeID\s*=\s*["']`)

// scopeNodeIDs prefixes the values of rdf:nodeID attributes. Only start tags
// are rewritten; text, comments and CDATA pass through. A document that does
// not tokenize is returned unchanged for the decoder to reject.
func scopeNodeIDs(data []byte) []byte {
	rdfPrefixes := make(map[string]bool)
	var tags [][2]int64

	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		from := dec.InputOffset()
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return data
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		for _, attr := range start.Attr {
			if attr.Name.Space == "xmlns" && attr.Value == graph.RDFNamespace {
				rdfPrefixes[attr.Name.Local] = true
			}
		}
		tags = append(tags, [2]int64{from, dec.InputOffset()})
	}
	if len(rdfPrefixes) == 0 {
		return data
	}

	var out bytes.Buffer
	out.Grow(len(data) + 64)
	var last int64
	for _, tag := range tags {
		out.Write(data[last:tag[0]])
		out.Write(nodeIDAttr.ReplaceAllFunc(data[tag[0]:tag[1]], func(m []byte) []byte {
			prefix := nodeIDAttr.FindSubmatch(m)[1]
			if !rdfPrefixes[string(prefix)] {
				return m
			}
			scoped := make([]byte, 0, len(m)+len(explicitLabelPrefix))
			scoped = append(scoped, m...)
			return append(scoped, explicitLabelPrefix...)
		}))
		last = tag[1]
	}
	out.Write(data[last:])
	return out.Bytes()
}
