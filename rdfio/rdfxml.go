package rdfio

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/c360studio/groupsheets/graph"
)

var xmlNCName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// RDFXMLWriter writes a graph as RDF/XML, one rdf:Description per subject.
// Predicates are written as qualified names, so every predicate IRI must
// split into a namespace and an XML name; bindings missing from the graph
// are generated as ns1, ns2, ...
type RDFXMLWriter struct {
	g      *graph.Graph
	blanks *blankLabels

	prefixByIRI map[string]string
	used        map[string]bool
	generated   int
}

// NewRDFXMLWriter creates an RDF/XML writer for g.
func NewRDFXMLWriter(g *graph.Graph) *RDFXMLWriter {
	w := &RDFXMLWriter{
		g:           g,
		blanks:      newBlankLabels(),
		prefixByIRI: map[string]string{graph.RDFNamespace: "rdf"},
		used:        map[string]bool{"rdf": true},
	}
	for _, ns := range g.Namespaces() {
		if ns.Prefix == "" || !xmlNCName.MatchString(ns.Prefix) ||
			strings.HasPrefix(strings.ToLower(ns.Prefix), "xml") || w.used[ns.Prefix] {
			continue
		}
		if _, bound := w.prefixByIRI[ns.IRI]; bound {
			continue
		}
		w.prefixByIRI[ns.IRI] = ns.Prefix
		w.used[ns.Prefix] = true
	}
	return w
}

// WriteTo writes the document to w.
func (w *RDFXMLWriter) WriteTo(out io.Writer) error {
	var body bytes.Buffer
	for _, block := range groupBySubject(w.g) {
		if err := w.writeDescription(&body, block); err != nil {
			return err
		}
	}

	var doc bytes.Buffer
	doc.WriteString(xml.Header)
	doc.WriteString("<rdf:RDF")
	for _, ns := range w.declarations() {
		doc.WriteString(fmt.Sprintf("\n    xmlns:%s=\"%s\"", ns.Prefix, escapeXML(ns.IRI)))
	}
	doc.WriteString(">\n")
	doc.Write(body.Bytes())
	doc.WriteString("</rdf:RDF>\n")

	_, err := out.Write(doc.Bytes())
	return err
}

// declarations returns all prefixes in use, sorted by prefix.
func (w *RDFXMLWriter) declarations() []graph.Namespace {
	out := make([]graph.Namespace, 0, len(w.prefixByIRI))
	for iri, prefix := range w.prefixByIRI {
		out = append(out, graph.Namespace{Prefix: prefix, IRI: iri})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Prefix < out[j].Prefix })
	return out
}

func (w *RDFXMLWriter) writeDescription(buf *bytes.Buffer, block subjectBlock) error {
	switch block.subject.Kind {
	case graph.KindIRI:
		buf.WriteString(fmt.Sprintf("  <rdf:Description rdf:about=\"%s\">\n", escapeXML(block.subject.Value)))
	case graph.KindBlank:
		buf.WriteString(fmt.Sprintf("  <rdf:Description rdf:nodeID=\"%s\">\n", w.blanks.label(block.subject)))
	default:
		return fmt.Errorf("%w: subject %s", ErrUnsupportedTerm, block.subject)
	}

	for _, t := range block.triples {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnsupportedTerm, err)
		}
		name, err := w.qname(t.Predicate.Value)
		if err != nil {
			return err
		}
		if err := w.writeProperty(buf, name, t.Object); err != nil {
			return err
		}
	}

	buf.WriteString("  </rdf:Description>\n")
	return nil
}

func (w *RDFXMLWriter) writeProperty(buf *bytes.Buffer, name string, obj graph.Term) error {
	switch obj.Kind {
	case graph.KindIRI:
		buf.WriteString(fmt.Sprintf("    <%s rdf:resource=\"%s\"/>\n", name, escapeXML(obj.Value)))
	case graph.KindBlank:
		buf.WriteString(fmt.Sprintf("    <%s rdf:nodeID=\"%s\"/>\n", name, w.blanks.label(obj)))
	case graph.KindLiteral:
		attr := ""
		switch {
		case obj.Lang != "":
			attr = fmt.Sprintf(" xml:lang=\"%s\"", escapeXML(obj.Lang))
		case obj.Datatype != "":
			attr = fmt.Sprintf(" rdf:datatype=\"%s\"", escapeXML(obj.Datatype))
		}
		buf.WriteString(fmt.Sprintf("    <%s%s>%s</%s>\n", name, attr, escapeXML(obj.Value), name))
	default:
		return fmt.Errorf("%w: object %s", ErrUnsupportedTerm, obj)
	}
	return nil
}

// qname splits a predicate IRI into prefix:local, binding a new prefix when
// the namespace has none.
func (w *RDFXMLWriter) qname(iri string) (string, error) {
	ns, local, ok := splitIRI(iri)
	if !ok {
		return "", fmt.Errorf("%w: predicate <%s> has no XML local name", ErrUnsupportedTerm, iri)
	}
	prefix, bound := w.prefixByIRI[ns]
	if !bound {
		for {
			w.generated++
			prefix = "ns" + strconv.Itoa(w.generated)
			if !w.used[prefix] {
				break
			}
		}
		w.prefixByIRI[ns] = prefix
		w.used[prefix] = true
	}
	return prefix + ":" + local, nil
}

// splitIRI splits at the longest suffix that is a valid XML name.
func splitIRI(iri string) (ns, local string, ok bool) {
	i := strings.LastIndexAny(iri, "#/:")
	if i < 0 || i == len(iri)-1 {
		return "", "", false
	}
	ns, local = iri[:i+1], iri[i+1:]
	for local != "" && !xmlNCName.MatchString(local) {
		// Drop leading characters that cannot start a name (e.g. digits).
		ns, local = ns+local[:1], local[1:]
	}
	if local == "" {
		return "", "", false
	}
	return ns, local, true
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
