// Package graph provides the in-memory RDF graph the cleanup stages operate on.
//
// A Graph is a set of triples plus the namespace-prefix bindings read from
// the source file. Terms are plain comparable values, so triples can be used
// directly as map keys and duplicates collapse on insert.
package graph

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind distinguishes the three kinds of RDF term.
type Kind uint8

const (
	KindIRI Kind = iota + 1
	KindBlank
	KindLiteral
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlank:
		return "blank"
	case KindLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Term is an IRI, a blank node, or a literal.
//
// For IRIs Value is the IRI, for blank nodes the file-scoped label (without
// "_:"), for literals the lexical form. Lang and Datatype only apply to
// literals; a plain literal has neither.
type Term struct {
	Kind     Kind
	Value    string
	Lang     string
	Datatype string
}

// IRI returns an IRI term.
func IRI(iri string) Term {
	return Term{Kind: KindIRI, Value: iri}
}

// Blank returns a blank node term with the given label.
func Blank(label string) Term {
	return Term{Kind: KindBlank, Value: label}
}

// Literal returns a plain literal.
func Literal(value string) Term {
	return Term{Kind: KindLiteral, Value: value}
}

// LangLiteral returns a language-tagged literal.
func LangLiteral(value, lang string) Term {
	return Term{Kind: KindLiteral, Value: value, Lang: lang}
}

// TypedLiteral returns a literal with a datatype IRI.
func TypedLiteral(value, datatype string) Term {
	return Term{Kind: KindLiteral, Value: value, Datatype: datatype}
}

// IsZero reports whether t is the zero Term.
func (t Term) IsZero() bool {
	return t.Kind == 0
}

func (t Term) IsIRI() bool     { return t.Kind == KindIRI }
func (t Term) IsBlank() bool   { return t.Kind == KindBlank }
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// String returns the N-Triples form of the term.
func (t Term) String() string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		s := strconv.Quote(t.Value)
		if t.Lang != "" {
			return s + "@" + t.Lang
		}
		if t.Datatype != "" {
			return s + "^^<" + t.Datatype + ">"
		}
		return s
	default:
		return "<invalid>"
	}
}

// Triple is a single (subject, predicate, object) statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// T is shorthand for building a triple.
func T(s, p, o Term) Triple {
	return Triple{Subject: s, Predicate: p, Object: o}
}

// String returns the triple as an N-Triples line without the newline.
func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s .", t.Subject, t.Predicate, t.Object)
}

// Validate checks the RDF position constraints: subjects are IRIs or blank
// nodes, predicates are IRIs.
func (t Triple) Validate() error {
	if !t.Subject.IsIRI() && !t.Subject.IsBlank() {
		return fmt.Errorf("invalid subject %s", t.Subject)
	}
	if !t.Predicate.IsIRI() {
		return fmt.Errorf("invalid predicate %s", t.Predicate)
	}
	if t.Object.IsZero() {
		return fmt.Errorf("missing object")
	}
	if t.Predicate.Value == "" || strings.ContainsAny(t.Predicate.Value, " <>") {
		return fmt.Errorf("invalid predicate IRI %q", t.Predicate.Value)
	}
	return nil
}
