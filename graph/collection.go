package graph

import (
	"sort"
	"strconv"
	"strings"
)

// RDF structural terms.
const (
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFType      = RDFNamespace + "type"
	RDFFirst     = RDFNamespace + "first"
	RDFRest      = RDFNamespace + "rest"
	RDFNil       = RDFNamespace + "nil"

	// RDFMemberPrefix prefixes container membership properties (rdf:_1, rdf:_2, ...).
	RDFMemberPrefix = RDFNamespace + "_"

	rdfSeq = RDFNamespace + "Seq"
	rdfBag = RDFNamespace + "Bag"
	rdfAlt = RDFNamespace + "Alt"
)

// TypeOf is the rdf:type predicate.
var TypeOf = IRI(RDFType)

// List returns the members of the RDF collection starting at head
// (rdf:first/rdf:rest chain terminated by rdf:nil). ok is false when head is
// not a well-formed collection: a missing rdf:first or rdf:rest, or a cycle.
func (g *Graph) List(head Term) (members []Term, ok bool) {
	first, rest, nilTerm := IRI(RDFFirst), IRI(RDFRest), IRI(RDFNil)
	seen := make(map[Term]bool)

	node := head
	for node != nilTerm {
		if seen[node] {
			return nil, false
		}
		seen[node] = true

		item, hasFirst := g.Value(node, first)
		next, hasRest := g.Value(node, rest)
		if !hasFirst || !hasRest {
			return nil, false
		}
		members = append(members, item)
		node = next
	}
	return members, true
}

// Container returns the members of an rdf:Seq, rdf:Bag or rdf:Alt node ordered
// by their membership index. ok is false when node has no membership triples
// and is not typed as a container.
func (g *Graph) Container(node Term) (members []Term, ok bool) {
	type item struct {
		n int
		t Term
	}
	var items []item
	for _, t := range g.Match(&node, nil, nil) {
		local, found := strings.CutPrefix(t.Predicate.Value, RDFMemberPrefix)
		if !found {
			continue
		}
		n, err := strconv.Atoi(local)
		if err != nil || n < 1 {
			continue
		}
		items = append(items, item{n: n, t: t.Object})
	}
	if len(items) == 0 {
		return nil, g.isContainer(node)
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].n < items[j].n })
	members = make([]Term, len(items))
	for i, it := range items {
		members[i] = it.t
	}
	return members, true
}

func (g *Graph) isContainer(node Term) bool {
	for _, typ := range g.Objects(node, TypeOf) {
		switch typ.Value {
		case rdfSeq, rdfBag, rdfAlt:
			return true
		}
	}
	return false
}
