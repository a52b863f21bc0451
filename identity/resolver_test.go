package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/groupsheets/graph"
	"github.com/c360studio/groupsheets/vocabulary/belfast"
)

var (
	ms       = graph.IRI("http://example.org/ms/1")
	ms2      = graph.IRI("http://example.org/ms/2")
	poet     = graph.IRI("http://example.org/poet1")
	title    = graph.IRI(belfast.PropTitle)
	author   = graph.IRI(belfast.PropAuthor)
	given    = graph.IRI(belfast.PropGivenName)
	family   = graph.IRI(belfast.PropFamilyName)
	rdfFirst = graph.IRI(graph.RDFFirst)
	rdfRest  = graph.IRI(graph.RDFRest)
	rdfNil   = graph.IRI(graph.RDFNil)
)

func addList(g *graph.Graph, prefix string, items ...graph.Term) graph.Term {
	head := graph.Blank(prefix + "0")
	node := head
	for i, item := range items {
		g.Add(graph.T(node, rdfFirst, item))
		next := rdfNil
		if i < len(items)-1 {
			next = graph.Blank(prefix + string(rune('1'+i)))
		}
		g.Add(graph.T(node, rdfRest, next))
		node = next
	}
	return head
}

func canonical(digest string) graph.Term {
	return graph.IRI(belfast.CanonicalNamespace + digest)
}

func TestDigest(t *testing.T) {
	assert.Equal(t, "1bdb7dfb66a5fc7978c0d6eda56ee6c8", Digest("http://example.org/poet1 spring-poem"))
	assert.Equal(t, "727221a80b7ce6294f22cea7421ea273", Digest("anonymous spring-poem"))
}

func TestResolveLiteralTitle(t *testing.T) {
	g := graph.New()
	g.Add(graph.T(ms, title, graph.Literal("Spring Poem")))
	g.Add(graph.T(ms, author, poet))

	r := NewResolver(belfast.Default())
	key, ok := r.Key(g, ms)
	require.True(t, ok)
	assert.Equal(t, "http://example.org/poet1 spring-poem", key)

	id, ok := r.Resolve(g, ms)
	require.True(t, ok)
	assert.Equal(t, canonical("1bdb7dfb66a5fc7978c0d6eda56ee6c8"), id)
}

func TestResolveIgnoresTitleOrder(t *testing.T) {
	g := graph.New()
	g.Add(graph.T(ms, title, addList(g, "l", graph.Literal("A"), graph.Literal("B"))))
	g.Add(graph.T(ms, author, poet))

	g.Add(graph.T(ms2, title, addList(g, "m", graph.Literal("b"), graph.Literal("a!"))))
	g.Add(graph.T(ms2, author, poet))

	r := NewResolver(belfast.Default())
	id1, ok := r.Resolve(g, ms)
	require.True(t, ok)
	id2, ok := r.Resolve(g, ms2)
	require.True(t, ok)

	assert.Equal(t, id1, id2)
	assert.Equal(t, canonical("23483ab27d7655cab6877a1aa92a8f7a"), id1)
}

func TestResolveMergedSheetKeepsIdentifier(t *testing.T) {
	// A smushed node carries the titles of every source description.
	g := graph.New()
	sheet := canonical("23483ab27d7655cab6877a1aa92a8f7a")
	g.Add(graph.T(sheet, title, addList(g, "l", graph.Literal("A"), graph.Literal("B"))))
	g.Add(graph.T(sheet, author, poet))
	g.Add(graph.T(sheet, title, addList(g, "m", graph.Literal("B"), graph.Literal("A"))))

	r := NewResolver(belfast.Default())
	key, ok := r.Key(g, sheet)
	require.True(t, ok)
	assert.Equal(t, "http://example.org/poet1 a b", key)

	id, ok := r.Resolve(g, sheet)
	require.True(t, ok)
	assert.Equal(t, sheet, id)
}

func TestResolveNoMetadata(t *testing.T) {
	g := graph.New()
	g.Add(graph.T(ms, graph.TypeOf, graph.IRI(belfast.ClassGroupSheet)))

	_, ok := NewResolver(belfast.Default()).Resolve(g, ms)
	assert.False(t, ok)
}

func TestResolveAnonymous(t *testing.T) {
	g := graph.New()
	g.Add(graph.T(ms, title, graph.Literal("Spring Poem")))

	id, ok := NewResolver(belfast.Default()).Resolve(g, ms)
	require.True(t, ok)
	assert.Equal(t, canonical("727221a80b7ce6294f22cea7421ea273"), id)
}

func TestResolveBlankAuthor(t *testing.T) {
	g := graph.New()
	person := graph.Blank("p")
	g.Add(graph.T(ms, title, graph.Literal("The Cat, Sat")))
	g.Add(graph.T(ms, author, person))
	g.Add(graph.T(person, given, graph.Literal("Seamus")))
	g.Add(graph.T(person, family, graph.Literal("Heaney")))

	r := NewResolver(belfast.Default())
	key, ok := r.Key(g, ms)
	require.True(t, ok)
	assert.Equal(t, "Heaney, Seamus the-cat-sat", key)

	id, _ := r.Resolve(g, ms)
	assert.Equal(t, canonical("5fcfaddb37bf16c9a665fec575fb14e6"), id)
}

func TestResolveAuthorOnly(t *testing.T) {
	g := graph.New()
	g.Add(graph.T(ms, author, poet))

	key, ok := NewResolver(belfast.Default()).Key(g, ms)
	require.True(t, ok)
	assert.Equal(t, "http://example.org/poet1 ", key)
	assert.Equal(t, "c56749157c8dd6b081bd8a7687834f8b", Digest(key))
}

func TestResolveCustomNamespace(t *testing.T) {
	g := graph.New()
	g.Add(graph.T(ms, title, graph.Literal("Spring Poem")))
	g.Add(graph.T(ms, author, poet))

	v := belfast.Default()
	v.CanonicalNamespace = "urn:sheet:"
	id, ok := NewResolver(v).Resolve(g, ms)
	require.True(t, ok)
	assert.Equal(t, graph.IRI("urn:sheet:1bdb7dfb66a5fc7978c0d6eda56ee6c8"), id)
}

func TestAuthorOf(t *testing.T) {
	v := belfast.Default()

	t.Run("blank author missing given name", func(t *testing.T) {
		g := graph.New()
		person := graph.Blank("p")
		g.Add(graph.T(ms, author, person))
		g.Add(graph.T(person, family, graph.Literal("Heaney")))

		_, ok := AuthorOf(g, ms, v)
		assert.False(t, ok)
	})

	t.Run("literal author", func(t *testing.T) {
		g := graph.New()
		g.Add(graph.T(ms, author, graph.Literal("Michael Longley")))

		got, ok := AuthorOf(g, ms, v)
		require.True(t, ok)
		assert.Equal(t, "Michael Longley", got)
	})

	t.Run("no author", func(t *testing.T) {
		_, ok := AuthorOf(graph.New(), ms, v)
		assert.False(t, ok)
	})
}

func TestTitleOf(t *testing.T) {
	v := belfast.Default()

	t.Run("literal", func(t *testing.T) {
		g := graph.New()
		g.Add(graph.T(ms, title, graph.Literal("Spring Poem")))
		assert.Equal(t, Title{Kind: TitleLiteral, Values: []string{"Spring Poem"}}, TitleOf(g, ms, v))
	})

	t.Run("collection", func(t *testing.T) {
		g := graph.New()
		g.Add(graph.T(ms, title, addList(g, "l", graph.Literal("One"), graph.IRI("http://example.org/x"), graph.Literal("Two"))))
		assert.Equal(t, Title{Kind: TitleSequence, Values: []string{"One", "Two"}}, TitleOf(g, ms, v))
	})

	t.Run("container", func(t *testing.T) {
		g := graph.New()
		seq := graph.Blank("s")
		g.Add(graph.T(ms, title, seq))
		g.Add(graph.T(seq, graph.IRI(graph.RDFMemberPrefix+"2"), graph.Literal("Second")))
		g.Add(graph.T(seq, graph.IRI(graph.RDFMemberPrefix+"1"), graph.Literal("First")))
		assert.Equal(t, Title{Kind: TitleSequence, Values: []string{"First", "Second"}}, TitleOf(g, ms, v))
	})

	t.Run("first of several values", func(t *testing.T) {
		g := graph.New()
		g.Add(graph.T(ms, title, graph.Literal("Spring Poem")))
		g.Add(graph.T(ms, title, graph.Literal("Autumn Poem")))
		assert.Equal(t, Title{Kind: TitleLiteral, Values: []string{"Spring Poem"}}, TitleOf(g, ms, v))
	})

	t.Run("collection before literal", func(t *testing.T) {
		g := graph.New()
		g.Add(graph.T(ms, title, addList(g, "l", graph.Literal("One"), graph.Literal("Two"))))
		g.Add(graph.T(ms, title, graph.Literal("Three")))
		assert.Equal(t, Title{Kind: TitleSequence, Values: []string{"One", "Two"}}, TitleOf(g, ms, v))
	})

	t.Run("node that is not a list", func(t *testing.T) {
		g := graph.New()
		g.Add(graph.T(ms, title, graph.IRI("http://example.org/title")))
		assert.Equal(t, Title{Kind: TitleAbsent}, TitleOf(g, ms, v))
	})

	t.Run("absent", func(t *testing.T) {
		assert.Equal(t, TitleAbsent, TitleOf(graph.New(), ms, v).Kind)
	})
}
