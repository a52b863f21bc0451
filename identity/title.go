package identity

import (
	"github.com/c360studio/groupsheets/graph"
	"github.com/c360studio/groupsheets/vocabulary/belfast"
)

// TitleKind is the shape of a manuscript's title.
type TitleKind int

const (
	// TitleAbsent means no usable title: no title triple, or a title node
	// that is neither a literal nor an ordered list.
	TitleAbsent TitleKind = iota

	// TitleLiteral is a single literal title.
	TitleLiteral

	// TitleSequence is a title given as an RDF collection or container.
	TitleSequence
)

// Title is the normalized view of a manuscript's dc:title value.
type Title struct {
	Kind   TitleKind
	Values []string
}

// TitleOf reads the title of node. Only the first dc:title value in graph
// order is read, so a smushed node carrying several source titles keeps its
// identifier. List and container members that are not literals are ignored.
func TitleOf(g *graph.Graph, node graph.Term, v belfast.Vocabulary) Title {
	obj, ok := g.Value(node, graph.IRI(v.Title))
	if !ok {
		return Title{Kind: TitleAbsent}
	}
	if obj.IsLiteral() {
		return Title{Kind: TitleLiteral, Values: []string{obj.Value}}
	}

	members, ok := expand(g, obj)
	if !ok {
		return Title{Kind: TitleAbsent}
	}
	var values []string
	for _, m := range members {
		if m.IsLiteral() {
			values = append(values, m.Value)
		}
	}
	if len(values) == 0 {
		return Title{Kind: TitleAbsent}
	}
	return Title{Kind: TitleSequence, Values: values}
}

// expand returns the members of an ordered-list node.
func expand(g *graph.Graph, node graph.Term) ([]graph.Term, bool) {
	if node.IsLiteral() {
		return nil, false
	}
	if members, ok := g.List(node); ok {
		return members, true
	}
	return g.Container(node)
}

// AuthorOf returns the author string of node. An IRI or literal author is
// used as is; a blank-node author becomes "Family, Given" when both name
// parts are present and is otherwise absent.
func AuthorOf(g *graph.Graph, node graph.Term, v belfast.Vocabulary) (string, bool) {
	author, ok := g.Value(node, graph.IRI(v.Author))
	if !ok {
		return "", false
	}
	if !author.IsBlank() {
		return author.Value, author.Value != ""
	}

	family, hasFamily := g.Value(author, graph.IRI(v.FamilyName))
	given, hasGiven := g.Value(author, graph.IRI(v.GivenName))
	if !hasFamily || !hasGiven || !family.IsLiteral() || !given.IsLiteral() {
		return "", false
	}
	return family.Value + ", " + given.Value, true
}
