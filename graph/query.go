package graph

// Slot is one position of a triple pattern: either a fixed term or a variable.
type Slot struct {
	term Term
	name string
}

// Var returns a variable slot.
func Var(name string) Slot {
	return Slot{name: name}
}

// Is returns a slot fixed to t.
func Is(t Term) Slot {
	return Slot{term: t}
}

// IsVar reports whether the slot is a variable.
func (s Slot) IsVar() bool {
	return s.name != ""
}

// Pattern is a triple pattern.
type Pattern struct {
	S, P, O Slot
}

// Binding maps variable names to terms for one solution.
type Binding map[string]Term

// Query is a basic graph pattern: a conjunction of triple patterns joined on
// shared variables.
//
//	q := graph.NewQuery().
//		Where(graph.Var("ms"), graph.Is(graph.TypeOf), graph.Is(manuscript)).
//		Where(graph.Var("ms"), graph.Is(author), graph.Var("auth"))
type Query struct {
	patterns []Pattern
}

// NewQuery returns an empty query.
func NewQuery() *Query {
	return &Query{}
}

// Where appends a triple pattern.
func (q *Query) Where(s, p, o Slot) *Query {
	q.patterns = append(q.patterns, Pattern{S: s, P: p, O: o})
	return q
}

// Solve evaluates the query against g. Solutions are returned in graph order
// and are not deduplicated. A query with no patterns has no solutions.
func (q *Query) Solve(g *Graph) []Binding {
	if len(q.patterns) == 0 {
		return nil
	}
	solutions := []Binding{{}}
	for _, p := range q.patterns {
		var next []Binding
		for _, b := range solutions {
			next = append(next, extend(g, p, b)...)
		}
		if len(next) == 0 {
			return nil
		}
		solutions = next
	}
	return solutions
}

// Select evaluates the query and projects one variable, keeping duplicates.
func (q *Query) Select(g *Graph, name string) []Term {
	solutions := q.Solve(g)
	out := make([]Term, 0, len(solutions))
	for _, b := range solutions {
		if t, ok := b[name]; ok {
			out = append(out, t)
		}
	}
	return out
}

func extend(g *Graph, p Pattern, b Binding) []Binding {
	s, sOK := resolve(p.S, b)
	pr, pOK := resolve(p.P, b)
	o, oOK := resolve(p.O, b)

	var out []Binding
	for _, t := range g.Match(ptr(s, sOK), ptr(pr, pOK), ptr(o, oOK)) {
		nb, ok := bind(b, p.S, t.Subject)
		if !ok {
			continue
		}
		if nb, ok = bind(nb, p.P, t.Predicate); !ok {
			continue
		}
		if nb, ok = bind(nb, p.O, t.Object); !ok {
			continue
		}
		out = append(out, nb)
	}
	return out
}

// resolve returns the concrete term for a slot under b, if it has one.
func resolve(s Slot, b Binding) (Term, bool) {
	if !s.IsVar() {
		return s.term, true
	}
	t, ok := b[s.name]
	return t, ok
}

// bind returns b extended with the slot's variable bound to t. The original
// binding is not modified. ok is false if the variable is already bound to a
// different term (the same variable used twice in one pattern).
func bind(b Binding, s Slot, t Term) (Binding, bool) {
	if !s.IsVar() {
		return b, true
	}
	if existing, ok := b[s.name]; ok {
		return b, existing == t
	}
	nb := make(Binding, len(b)+1)
	for k, v := range b {
		nb[k] = v
	}
	nb[s.name] = t
	return nb, true
}

func ptr(t Term, ok bool) *Term {
	if !ok {
		return nil
	}
	return &t
}
