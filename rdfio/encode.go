package rdfio

import (
	"fmt"
	"io"
	"strconv"

	"github.com/c360studio/groupsheets/graph"
	"github.com/knakk/rdf"
)

// Encode serializes g to w in the given format.
func Encode(w io.Writer, g *graph.Graph, format Format) error {
	switch format {
	case FormatNTriples:
		return encodeNTriples(w, g)
	case FormatTurtle:
		return NewTurtleWriter(g).WriteTo(w)
	case FormatRDFXML:
		return NewRDFXMLWriter(g).WriteTo(w)
	default:
		return unknownFormat(string(format))
	}
}

// subjectBlock is the set of statements about one subject, in graph order.
type subjectBlock struct {
	subject graph.Term
	triples []graph.Triple
}

// groupBySubject groups triples by subject, ordered by first appearance.
func groupBySubject(g *graph.Graph) []subjectBlock {
	var blocks []subjectBlock
	pos := make(map[graph.Term]int)
	for _, t := range g.Triples() {
		i, ok := pos[t.Subject]
		if !ok {
			i = len(blocks)
			pos[t.Subject] = i
			blocks = append(blocks, subjectBlock{subject: t.Subject})
		}
		blocks[i].triples = append(blocks[i].triples, t)
	}
	return blocks
}

// blankLabels assigns b0, b1, ... to blank nodes in order of first use.
// Labels are file-scoped, so renaming does not change the graph.
type blankLabels struct {
	labels map[string]string
}

func newBlankLabels() *blankLabels {
	return &blankLabels{labels: make(map[string]string)}
}

func (b *blankLabels) label(t graph.Term) string {
	if l, ok := b.labels[t.Value]; ok {
		return l
	}
	l := "b" + strconv.Itoa(len(b.labels))
	b.labels[t.Value] = l
	return l
}

func encodeNTriples(w io.Writer, g *graph.Graph) error {
	enc := rdf.NewTripleEncoder(w, rdf.NTriples)
	blanks := newBlankLabels()
	for _, block := range groupBySubject(g) {
		for _, t := range block.triples {
			tr, err := toRDF(t, blanks)
			if err != nil {
				return err
			}
			if err := enc.Encode(tr); err != nil {
				return fmt.Errorf("encode triple: %w", err)
			}
		}
	}
	return enc.Close()
}

func toRDF(t graph.Triple, blanks *blankLabels) (rdf.Triple, error) {
	if err := t.Validate(); err != nil {
		return rdf.Triple{}, fmt.Errorf("%w: %v", ErrUnsupportedTerm, err)
	}
	s, err := termToRDF(t.Subject, blanks)
	if err != nil {
		return rdf.Triple{}, err
	}
	p, err := termToRDF(t.Predicate, blanks)
	if err != nil {
		return rdf.Triple{}, err
	}
	o, err := termToRDF(t.Object, blanks)
	if err != nil {
		return rdf.Triple{}, err
	}

	subj, ok := s.(rdf.Subject)
	if !ok {
		return rdf.Triple{}, fmt.Errorf("%w: subject %s", ErrUnsupportedTerm, t.Subject)
	}
	pred, ok := p.(rdf.Predicate)
	if !ok {
		return rdf.Triple{}, fmt.Errorf("%w: predicate %s", ErrUnsupportedTerm, t.Predicate)
	}
	return rdf.Triple{Subj: subj, Pred: pred, Obj: o.(rdf.Object)}, nil
}

func termToRDF(t graph.Term, blanks *blankLabels) (rdf.Term, error) {
	switch t.Kind {
	case graph.KindIRI:
		iri, err := rdf.NewIRI(t.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedTerm, t, err)
		}
		return iri, nil
	case graph.KindBlank:
		b, err := rdf.NewBlank(blanks.label(t))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedTerm, t, err)
		}
		return b, nil
	case graph.KindLiteral:
		switch {
		case t.Lang != "":
			lit, err := rdf.NewLangLiteral(t.Value, t.Lang)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedTerm, t, err)
			}
			return lit, nil
		case t.Datatype != "":
			dt, err := rdf.NewIRI(t.Datatype)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedTerm, t, err)
			}
			return rdf.NewTypedLiteral(t.Value, dt), nil
		default:
			lit, err := rdf.NewLiteral(t.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedTerm, t, err)
			}
			return lit, nil
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTerm, t)
	}
}
