package rdfio

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/c360studio/groupsheets/graph"
	"github.com/knakk/rdf"
)

const (
	xsdString     = "http://www.w3.org/2001/XMLSchema#string"
	rdfLangString = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)

// Decode parses data in the given format into a new graph, including the
// namespace prefixes declared by the document.
func Decode(data []byte, format Format) (*graph.Graph, error) {
	info, ok := GetFormatInfo(format)
	if !ok {
		return nil, unknownFormat(string(format))
	}

	g := graph.New()
	dec := rdf.NewTripleDecoder(bytes.NewReader(scopeBlankLabels(data, format)), info.decoder)
	for {
		tr, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		t, err := fromRDF(tr)
		if err != nil {
			return nil, err
		}
		g.Add(t)
	}

	prefixes, err := declaredPrefixes(data, format)
	if err != nil {
		return nil, fmt.Errorf("read namespace declarations: %w", err)
	}
	for _, ns := range prefixes {
		g.Bind(ns.Prefix, ns.IRI)
	}
	return g, nil
}

func fromRDF(tr rdf.Triple) (graph.Triple, error) {
	s, err := termFromRDF(tr.Subj)
	if err != nil {
		return graph.Triple{}, err
	}
	p, err := termFromRDF(tr.Pred)
	if err != nil {
		return graph.Triple{}, err
	}
	o, err := termFromRDF(tr.Obj)
	if err != nil {
		return graph.Triple{}, err
	}
	return graph.T(s, p, o), nil
}

func termFromRDF(t rdf.Term) (graph.Term, error) {
	switch t.Type() {
	case rdf.TermIRI:
		return graph.IRI(t.String()), nil
	case rdf.TermBlank:
		return graph.Blank(strings.TrimPrefix(t.String(), "_:")), nil
	case rdf.TermLiteral:
		lit, ok := t.(rdf.Literal)
		if !ok {
			return graph.Literal(t.String()), nil
		}
		if lang := lit.Lang(); lang != "" {
			return graph.LangLiteral(lit.String(), lang), nil
		}
		switch dt := lit.DataType.String(); dt {
		case "", xsdString, rdfLangString:
			return graph.Literal(lit.String()), nil
		default:
			return graph.TypedLiteral(lit.String(), dt), nil
		}
	default:
		return graph.Term{}, fmt.Errorf("%w: %s", ErrUnsupportedTerm, t.String())
	}
}

var turtlePrefix = regexp.MustCompile(`(?mi)^\s*(?:@prefix|prefix)\s+([A-Za-z][\w.-]*)?:\s*<([^>]*)>`)

// declaredPrefixes returns the prefix bindings written in the document
// itself. N-Triples has none.
func declaredPrefixes(data []byte, format Format) ([]graph.Namespace, error) {
	switch format {
	case FormatTurtle:
		var out []graph.Namespace
		for _, m := range turtlePrefix.FindAllSubmatch(data, -1) {
			out = append(out, graph.Namespace{Prefix: string(m[1]), IRI: string(m[2])})
		}
		return out, nil
	case FormatRDFXML:
		return xmlPrefixes(data)
	default:
		return nil, nil
	}
}

// xmlPrefixes reads the xmlns declarations of the document element.
func xmlPrefixes(data []byte) ([]graph.Namespace, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		var out []graph.Namespace
		for _, attr := range start.Attr {
			switch {
			case attr.Name.Space == "xmlns":
				out = append(out, graph.Namespace{Prefix: attr.Name.Local, IRI: attr.Value})
			case attr.Name.Space == "" && attr.Name.Local == "xmlns":
				out = append(out, graph.Namespace{Prefix: "", IRI: attr.Value})
			}
		}
		return out, nil
	}
}
