package graph

import "sort"

// Namespace is a prefix binding.
type Namespace struct {
	Prefix string
	IRI    string
}

// Graph is a set of triples with namespace bindings.
//
// Iteration order is insertion order, which keeps query results and
// serialization deterministic for a given input file. Graph is not safe for
// concurrent use.
type Graph struct {
	triples   []Triple
	index     map[Triple]struct{}
	bySubject map[Term][]int
	byObject  map[Term][]int
	ns        map[string]string
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		index:     make(map[Triple]struct{}),
		bySubject: make(map[Term][]int),
		byObject:  make(map[Term][]int),
		ns:        make(map[string]string),
	}
}

// Add inserts t and reports whether it was new.
func (g *Graph) Add(t Triple) bool {
	if _, ok := g.index[t]; ok {
		return false
	}
	g.index[t] = struct{}{}
	i := len(g.triples)
	g.triples = append(g.triples, t)
	g.bySubject[t.Subject] = append(g.bySubject[t.Subject], i)
	g.byObject[t.Object] = append(g.byObject[t.Object], i)
	return true
}

// AddAll inserts every triple and returns the number that were new.
func (g *Graph) AddAll(ts ...Triple) int {
	n := 0
	for _, t := range ts {
		if g.Add(t) {
			n++
		}
	}
	return n
}

// Has reports whether t is in the graph.
func (g *Graph) Has(t Triple) bool {
	_, ok := g.index[t]
	return ok
}

// Len returns the number of triples.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns a copy of all triples in insertion order.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Match returns the triples matching the pattern. A nil position matches anything.
func (g *Graph) Match(s, p, o *Term) []Triple {
	var candidates []int
	switch {
	case s != nil:
		candidates = g.bySubject[*s]
	case o != nil:
		candidates = g.byObject[*o]
	default:
		out := make([]Triple, 0, len(g.triples))
		for _, t := range g.triples {
			if p == nil || t.Predicate == *p {
				out = append(out, t)
			}
		}
		return out
	}

	var out []Triple
	for _, i := range candidates {
		t := g.triples[i]
		if s != nil && t.Subject != *s {
			continue
		}
		if p != nil && t.Predicate != *p {
			continue
		}
		if o != nil && t.Object != *o {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Subjects returns the distinct subjects of triples with predicate p and object o.
func (g *Graph) Subjects(p, o Term) []Term {
	return distinct(g.Match(nil, &p, &o), func(t Triple) Term { return t.Subject })
}

// Objects returns the distinct objects of triples with subject s and predicate p.
func (g *Graph) Objects(s, p Term) []Term {
	return distinct(g.Match(&s, &p, nil), func(t Triple) Term { return t.Object })
}

// Value returns the first object of (s, p, ?), if any.
func (g *Graph) Value(s, p Term) (Term, bool) {
	for _, i := range g.bySubject[s] {
		if t := g.triples[i]; t.Predicate == p {
			return t.Object, true
		}
	}
	return Term{}, false
}

// Bind records a namespace prefix binding, replacing any previous binding of prefix.
func (g *Graph) Bind(prefix, iri string) {
	g.ns[prefix] = iri
}

// Namespaces returns the prefix bindings sorted by prefix.
func (g *Graph) Namespaces() []Namespace {
	out := make([]Namespace, 0, len(g.ns))
	for prefix, iri := range g.ns {
		out = append(out, Namespace{Prefix: prefix, IRI: iri})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Prefix < out[j].Prefix })
	return out
}

// CopyNamespaces binds every prefix of src in g.
func (g *Graph) CopyNamespaces(src *Graph) {
	for prefix, iri := range src.ns {
		g.ns[prefix] = iri
	}
}

func distinct(ts []Triple, pick func(Triple) Term) []Term {
	seen := make(map[Term]bool, len(ts))
	var out []Term
	for _, t := range ts {
		term := pick(t)
		if seen[term] {
			continue
		}
		seen[term] = true
		out = append(out, term)
	}
	return out
}
