// Package smusher merges duplicate group sheet descriptions by rewriting
// their identifiers to content-derived canonical IRIs.
package smusher

import (
	"fmt"
	"log/slog"

	"github.com/c360studio/groupsheets/graph"
	"github.com/c360studio/groupsheets/identity"
	"github.com/c360studio/groupsheets/processor"
	"github.com/c360studio/groupsheets/vocabulary/belfast"
)

// StageName identifies the smusher in results and logs.
const StageName = "smush"

// Smusher rewrites group sheet identifiers in place.
type Smusher struct {
	store    processor.GraphStore
	vocab    belfast.Vocabulary
	resolver *identity.Resolver
	logger   *slog.Logger
}

// New creates a smusher.
func New(store processor.GraphStore, v belfast.Vocabulary, logger *slog.Logger) *Smusher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Smusher{
		store:    store,
		vocab:    v,
		resolver: identity.NewResolver(v),
		logger:   logger,
	}
}

// Name returns the stage name.
func (s *Smusher) Name() string {
	return StageName
}

// GroupSheets returns the distinct group sheet nodes of g.
func (s *Smusher) GroupSheets(g *graph.Graph) []graph.Term {
	return g.Subjects(graph.TypeOf, graph.IRI(s.vocab.GroupSheet))
}

// Mapping resolves every node and returns old identifier to canonical
// identifier. Nodes without enough metadata are left out.
func (s *Smusher) Mapping(g *graph.Graph, nodes []graph.Term) map[graph.Term]graph.Term {
	mapping := make(map[graph.Term]graph.Term, len(nodes))
	for _, node := range nodes {
		id, ok := s.resolver.Resolve(g, node)
		if !ok {
			s.logger.Debug("Group sheet has no title or author", "node", node.String())
			continue
		}
		mapping[node] = id
	}
	return mapping
}

// Rewrite returns a copy of g with subjects and objects substituted through
// mapping. Objects of the URL property are kept, so links to external
// resources survive even when they name a smushed node.
func (s *Smusher) Rewrite(g *graph.Graph, mapping map[graph.Term]graph.Term) *graph.Graph {
	url := graph.IRI(s.vocab.URL)
	out := graph.New()
	out.CopyNamespaces(g)
	for _, t := range g.Triples() {
		if id, ok := mapping[t.Subject]; ok {
			t.Subject = id
		}
		if t.Predicate != url {
			if id, ok := mapping[t.Object]; ok {
				t.Object = id
			}
		}
		out.Add(t)
	}
	return out
}

// ProcessFile smushes one file. A file with group sheets is always written,
// even when no identifier changed; a file without them is left untouched.
func (s *Smusher) ProcessFile(path string) (processor.Result, error) {
	res := processor.Result{Path: path, Stage: StageName}

	g, err := s.store.Load(path)
	if err != nil {
		return res, err
	}

	nodes := s.GroupSheets(g)
	res.Matched = len(nodes)
	if len(nodes) == 0 {
		s.logger.Debug("Found groupsheets", "path", path, "count", 0)
		res.Skipped = true
		return res, nil
	}
	s.logger.Info("Found groupsheets", "path", path, "count", len(nodes))

	mapping := s.Mapping(g, nodes)
	res.Resolved = len(mapping)

	if err := s.store.Save(path, s.Rewrite(g, mapping)); err != nil {
		return res, fmt.Errorf("save smushed graph: %w", err)
	}
	res.Written = true
	return res, nil
}
