// Package classifier tags manuscripts that belong to the Belfast Group as
// group sheets.
package classifier

import (
	"fmt"
	"log/slog"

	"github.com/c360studio/groupsheets/graph"
	"github.com/c360studio/groupsheets/processor"
	"github.com/c360studio/groupsheets/vocabulary/belfast"
)

// StageName identifies the classifier in results and logs.
const StageName = "identify"

// Classifier adds bg:GroupSheet to manuscripts associated with the group.
//
// A manuscript qualifies when it mentions the group and has an author. Only
// when no manuscript in the file qualifies that way, manuscripts mentioned by
// a document about the group are tagged instead.
type Classifier struct {
	store  processor.GraphStore
	vocab  belfast.Vocabulary
	logger *slog.Logger

	primary   *graph.Query
	secondary *graph.Query
}

// New creates a classifier.
func New(store processor.GraphStore, v belfast.Vocabulary, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	group := graph.Is(graph.IRI(v.GroupURI))
	manuscript := graph.Is(graph.IRI(v.Manuscript))
	mentions := graph.Is(graph.IRI(v.Mentions))

	return &Classifier{
		store:  store,
		vocab:  v,
		logger: logger,
		primary: graph.NewQuery().
			Where(graph.Var("ms"), graph.Is(graph.TypeOf), manuscript).
			Where(graph.Var("ms"), mentions, group).
			Where(graph.Var("ms"), graph.Is(graph.IRI(v.Author)), graph.Var("auth")),
		secondary: graph.NewQuery().
			Where(graph.Var("doc"), graph.Is(graph.IRI(v.About)), group).
			Where(graph.Var("doc"), mentions, graph.Var("ms")).
			Where(graph.Var("ms"), graph.Is(graph.TypeOf), manuscript),
	}
}

// Name returns the stage name.
func (c *Classifier) Name() string {
	return StageName
}

// Classify tags the group sheets in g and returns the number of query rows
// and the number of new type triples.
func (c *Classifier) Classify(g *graph.Graph) (rows, added int) {
	matches := c.primary.Select(g, "ms")
	if len(matches) == 0 {
		matches = c.secondary.Select(g, "ms")
	}

	groupSheet := graph.IRI(c.vocab.GroupSheet)
	for _, ms := range matches {
		if g.Add(graph.T(ms, graph.TypeOf, groupSheet)) {
			added++
		}
	}
	return len(matches), added
}

// ProcessFile classifies the manuscripts in one file. Files without matches
// are not written.
func (c *Classifier) ProcessFile(path string) (processor.Result, error) {
	res := processor.Result{Path: path, Stage: StageName}

	g, err := c.store.Load(path)
	if err != nil {
		return res, err
	}

	res.Matched, res.Added = c.Classify(g)
	if res.Matched == 0 {
		c.logger.Debug("No group sheets identified", "path", path)
		res.Skipped = true
		return res, nil
	}

	c.logger.Info("Identified group sheets", "path", path, "count", res.Matched, "added", res.Added)
	if err := c.store.Save(path, g); err != nil {
		return res, fmt.Errorf("save classified graph: %w", err)
	}
	res.Written = true
	return res, nil
}
