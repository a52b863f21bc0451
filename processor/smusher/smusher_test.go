package smusher

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/groupsheets/graph"
	"github.com/c360studio/groupsheets/vocabulary/belfast"
)

var (
	ms1        = graph.IRI("http://example.org/ms/1")
	ms2        = graph.IRI("http://example.org/ms/2")
	doc        = graph.IRI("http://example.org/findingaid")
	poet       = graph.IRI("http://example.org/poet1")
	groupSheet = graph.IRI(belfast.ClassGroupSheet)
	title      = graph.IRI(belfast.PropTitle)
	author     = graph.IRI(belfast.PropAuthor)
	mentions   = graph.IRI(belfast.PropMentions)
	url        = graph.IRI(belfast.PropURL)

	springPoem = graph.IRI(belfast.CanonicalNamespace + "1bdb7dfb66a5fc7978c0d6eda56ee6c8")
	poemsAB    = graph.IRI(belfast.CanonicalNamespace + "23483ab27d7655cab6877a1aa92a8f7a")
)

type spyStore struct {
	graphs map[string]*graph.Graph
	saved  map[string]*graph.Graph
	saves  int
}

func newSpyStore(path string, g *graph.Graph) *spyStore {
	return &spyStore{
		graphs: map[string]*graph.Graph{path: g},
		saved:  map[string]*graph.Graph{},
	}
}

func (s *spyStore) Load(path string) (*graph.Graph, error) {
	g, ok := s.graphs[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return g, nil
}

func (s *spyStore) Save(path string, g *graph.Graph) error {
	s.saves++
	s.saved[path] = g
	return nil
}

func addList(g *graph.Graph, prefix string, items ...graph.Term) graph.Term {
	head := graph.Blank(prefix + "0")
	node := head
	for i, item := range items {
		g.Add(graph.T(node, graph.IRI(graph.RDFFirst), item))
		next := graph.IRI(graph.RDFNil)
		if i < len(items)-1 {
			next = graph.Blank(prefix + string(rune('1'+i)))
		}
		g.Add(graph.T(node, graph.IRI(graph.RDFRest), next))
		node = next
	}
	return head
}

func TestSmushSingleSheet(t *testing.T) {
	g := graph.New()
	g.Add(graph.T(ms1, graph.TypeOf, groupSheet))
	g.Add(graph.T(ms1, title, graph.Literal("Spring Poem")))
	g.Add(graph.T(ms1, author, poet))
	store := newSpyStore("a.ttl", g)

	res, err := New(store, belfast.Default(), nil).ProcessFile("a.ttl")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Matched)
	assert.Equal(t, 1, res.Resolved)
	assert.True(t, res.Written)

	saved := store.saved["a.ttl"]
	require.NotNil(t, saved)
	assert.True(t, saved.Has(graph.T(springPoem, title, graph.Literal("Spring Poem"))))
	assert.True(t, saved.Has(graph.T(springPoem, author, poet)))
	assert.Empty(t, saved.Match(&ms1, nil, nil))
}

func TestSmushMergesEquivalentSheets(t *testing.T) {
	g := graph.New()
	g.Add(graph.T(ms1, graph.TypeOf, groupSheet))
	g.Add(graph.T(ms1, title, addList(g, "l", graph.Literal("A"), graph.Literal("B"))))
	g.Add(graph.T(ms1, author, poet))

	g.Add(graph.T(ms2, graph.TypeOf, groupSheet))
	g.Add(graph.T(ms2, title, addList(g, "m", graph.Literal("b"), graph.Literal("a!"))))
	g.Add(graph.T(ms2, author, poet))

	g.Add(graph.T(doc, mentions, ms2))
	g.Add(graph.T(doc, url, ms1))
	store := newSpyStore("a.ttl", g)

	_, err := New(store, belfast.Default(), nil).ProcessFile("a.ttl")
	require.NoError(t, err)
	saved := store.saved["a.ttl"]
	require.NotNil(t, saved)

	s := New(store, belfast.Default(), nil)
	assert.Equal(t, []graph.Term{poemsAB}, s.GroupSheets(saved))
	assert.True(t, saved.Has(graph.T(doc, mentions, poemsAB)))
	assert.True(t, saved.Has(graph.T(doc, url, ms1)), "URL objects are never rewritten")
	assert.False(t, saved.Has(graph.T(doc, url, poemsAB)))

	// The type and author triples of both sheets collapse into one.
	assert.Len(t, saved.Match(&poemsAB, &graph.TypeOf, nil), 1)
	assert.Len(t, saved.Match(&poemsAB, &author, nil), 1)
	assert.Len(t, saved.Match(&poemsAB, &title, nil), 2)
}

func TestSmushMergedSheetIsStable(t *testing.T) {
	g := graph.New()
	g.Add(graph.T(ms1, graph.TypeOf, groupSheet))
	g.Add(graph.T(ms1, title, addList(g, "l", graph.Literal("A"), graph.Literal("B"))))
	g.Add(graph.T(ms1, author, poet))
	g.Add(graph.T(ms2, graph.TypeOf, groupSheet))
	g.Add(graph.T(ms2, title, addList(g, "m", graph.Literal("b"), graph.Literal("a!"))))
	g.Add(graph.T(ms2, author, poet))
	store := newSpyStore("a.ttl", g)
	s := New(store, belfast.Default(), nil)

	_, err := s.ProcessFile("a.ttl")
	require.NoError(t, err)
	first := store.saved["a.ttl"]
	require.NotNil(t, first)

	store.graphs["a.ttl"] = first
	_, err = s.ProcessFile("a.ttl")
	require.NoError(t, err)
	second := store.saved["a.ttl"]

	assert.Equal(t, []graph.Term{poemsAB}, s.GroupSheets(second))
	assert.Equal(t, first.Triples(), second.Triples())
}

func TestSmushPreservesUnrelatedTriples(t *testing.T) {
	g := graph.New()
	g.Add(graph.T(ms1, graph.TypeOf, groupSheet))
	g.Add(graph.T(ms1, title, graph.Literal("Spring Poem")))
	g.Add(graph.T(ms1, author, poet))
	other := graph.T(doc, title, graph.LangLiteral("Finding aid", "en"))
	g.Add(other)

	s := New(newSpyStore("a", g), belfast.Default(), nil)
	out := s.Rewrite(g, s.Mapping(g, s.GroupSheets(g)))
	assert.True(t, out.Has(other))
	assert.Equal(t, g.Len(), out.Len())
}

func TestSmushCopiesNamespaces(t *testing.T) {
	g := graph.New()
	g.Bind("dc", belfast.DC)
	g.Bind("schema", belfast.SchemaOrg)
	g.Add(graph.T(ms1, graph.TypeOf, groupSheet))

	s := New(newSpyStore("a", g), belfast.Default(), nil)
	out := s.Rewrite(g, map[graph.Term]graph.Term{})
	assert.Equal(t, g.Namespaces(), out.Namespaces())
}

func TestSmushWritesEvenWithEmptyMapping(t *testing.T) {
	g := graph.New()
	g.Add(graph.T(ms1, graph.TypeOf, groupSheet))
	store := newSpyStore("a.ttl", g)

	res, err := New(store, belfast.Default(), nil).ProcessFile("a.ttl")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Matched)
	assert.Zero(t, res.Resolved)
	assert.True(t, res.Written)
	assert.Equal(t, 1, store.saves)
	assert.True(t, store.saved["a.ttl"].Has(graph.T(ms1, graph.TypeOf, groupSheet)))
}

func TestSmushSkipsFileWithoutGroupSheets(t *testing.T) {
	g := graph.New()
	g.Add(graph.T(ms1, title, graph.Literal("Spring Poem")))
	store := newSpyStore("a.ttl", g)

	res, err := New(store, belfast.Default(), nil).ProcessFile("a.ttl")
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Zero(t, store.saves)
}

func TestSmushLogsCount(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	g := graph.New()
	g.Add(graph.T(ms1, graph.TypeOf, groupSheet))
	g.Add(graph.T(ms2, graph.TypeOf, groupSheet))

	_, err := New(newSpyStore("a.ttl", g), belfast.Default(), logger).ProcessFile("a.ttl")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `msg="Found groupsheets"`)
	assert.Contains(t, buf.String(), "count=2")
}

func TestSmushLogsEmptyFileAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	g := graph.New()
	g.Add(graph.T(ms1, title, graph.Literal("Spring Poem")))

	_, err := New(newSpyStore("a.ttl", g), belfast.Default(), logger).ProcessFile("a.ttl")
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "Found groupsheets")
}

func TestSmushLoadError(t *testing.T) {
	store := newSpyStore("a.ttl", graph.New())
	_, err := New(store, belfast.Default(), nil).ProcessFile("missing.ttl")
	require.Error(t, err)
	assert.Zero(t, store.saves)
}
