package rdfio

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/c360studio/groupsheets/graph"
)

var (
	turtlePrefixName = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_-]*)?$`)
	turtleLocalName  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)
)

// TurtleWriter writes a graph in Turtle, grouping statements by subject and
// abbreviating IRIs with the graph's namespace bindings.
type TurtleWriter struct {
	g        *graph.Graph
	prefixes []graph.Namespace
	blanks   *blankLabels
	sb       strings.Builder
}

// NewTurtleWriter creates a Turtle writer for g.
func NewTurtleWriter(g *graph.Graph) *TurtleWriter {
	var prefixes []graph.Namespace
	for _, ns := range g.Namespaces() {
		if turtlePrefixName.MatchString(ns.Prefix) && ns.IRI != "" {
			prefixes = append(prefixes, ns)
		}
	}
	// Longest namespace first, so the most specific binding wins.
	sort.SliceStable(prefixes, func(i, j int) bool {
		return len(prefixes[i].IRI) > len(prefixes[j].IRI)
	})
	return &TurtleWriter{g: g, prefixes: prefixes, blanks: newBlankLabels()}
}

// WriteTo writes the document to w.
func (w *TurtleWriter) WriteTo(out io.Writer) error {
	w.sb.Reset()
	w.writePrefixes()

	for _, block := range groupBySubject(w.g) {
		if err := w.writeBlock(block); err != nil {
			return err
		}
	}

	_, err := io.WriteString(out, w.sb.String())
	return err
}

// writePrefixes writes prefix declarations sorted by prefix.
func (w *TurtleWriter) writePrefixes() {
	sorted := make([]graph.Namespace, len(w.prefixes))
	copy(sorted, w.prefixes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Prefix < sorted[j].Prefix })

	for _, ns := range sorted {
		w.sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", ns.Prefix, ns.IRI))
	}
	if len(sorted) > 0 {
		w.sb.WriteString("\n")
	}
}

func (w *TurtleWriter) writeBlock(block subjectBlock) error {
	subj, err := w.term(block.subject)
	if err != nil {
		return err
	}
	w.sb.WriteString(subj + "\n")

	for i, t := range block.triples {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnsupportedTerm, err)
		}
		pred := "a"
		if t.Predicate.Value != graph.RDFType {
			if pred, err = w.term(t.Predicate); err != nil {
				return err
			}
		}
		obj, err := w.term(t.Object)
		if err != nil {
			return err
		}

		terminator := " ;"
		if i == len(block.triples)-1 {
			terminator = " ."
		}
		w.sb.WriteString(fmt.Sprintf("    %s %s%s\n", pred, obj, terminator))
	}
	w.sb.WriteString("\n")
	return nil
}

func (w *TurtleWriter) term(t graph.Term) (string, error) {
	switch t.Kind {
	case graph.KindIRI:
		return w.iri(t.Value), nil
	case graph.KindBlank:
		return "_:" + w.blanks.label(t), nil
	case graph.KindLiteral:
		s := `"` + escapeString(t.Value) + `"`
		switch {
		case t.Lang != "":
			return s + "@" + t.Lang, nil
		case t.Datatype != "":
			return s + "^^" + w.iri(t.Datatype), nil
		}
		return s, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedTerm, t)
	}
}

// iri returns a prefixed name when a binding covers the IRI and the local
// part is a plain name, otherwise the full <IRI>.
func (w *TurtleWriter) iri(iri string) string {
	for _, ns := range w.prefixes {
		local, ok := strings.CutPrefix(iri, ns.IRI)
		if ok && turtleLocalName.MatchString(local) {
			return ns.Prefix + ":" + local
		}
	}
	return "<" + escapeIRI(iri) + ">"
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}

// escapeIRI escapes characters that may not appear inside <...>.
func escapeIRI(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r <= 0x20, strings.ContainsRune("<>\"{}|^`\\", r):
			sb.WriteString(fmt.Sprintf("\\u%04X", r))
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
