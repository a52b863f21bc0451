// Package inferrer adds facts implied by group sheet authorship.
package inferrer

import (
	"fmt"
	"log/slog"

	"github.com/c360studio/groupsheets/graph"
	"github.com/c360studio/groupsheets/processor"
	"github.com/c360studio/groupsheets/vocabulary/belfast"
)

// StageName identifies the inferrer in results and logs.
const StageName = "infer"

// Inferrer records every group sheet author as affiliated with the group.
type Inferrer struct {
	store  processor.GraphStore
	vocab  belfast.Vocabulary
	logger *slog.Logger

	authors *graph.Query
}

// New creates an inferrer.
func New(store processor.GraphStore, v belfast.Vocabulary, logger *slog.Logger) *Inferrer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Inferrer{
		store:  store,
		vocab:  v,
		logger: logger,
		authors: graph.NewQuery().
			Where(graph.Var("ms"), graph.Is(graph.IRI(v.Author)), graph.Var("author")).
			Where(graph.Var("ms"), graph.Is(graph.TypeOf), graph.Is(graph.IRI(v.GroupSheet))),
	}
}

// Name returns the stage name.
func (i *Inferrer) Name() string {
	return StageName
}

// Infer adds the affiliation triples missing from g and returns the number
// of authors seen and triples added. Literal authors cannot be subjects and
// are skipped.
func (i *Inferrer) Infer(g *graph.Graph) (authors, added int) {
	affiliation := graph.IRI(i.vocab.Affiliation)
	group := graph.IRI(i.vocab.GroupURI)

	for _, author := range i.authors.Select(g, "author") {
		authors++
		if author.IsLiteral() {
			i.logger.Debug("Skipping literal author", "author", author.Value)
			continue
		}
		if g.Add(graph.T(author, affiliation, group)) {
			added++
		}
	}
	return authors, added
}

// ProcessFile infers affiliations for one file and writes it only when a
// triple was added.
func (i *Inferrer) ProcessFile(path string) (processor.Result, error) {
	res := processor.Result{Path: path, Stage: StageName}

	g, err := i.store.Load(path)
	if err != nil {
		return res, err
	}

	if len(g.Subjects(graph.TypeOf, graph.IRI(i.vocab.GroupSheet))) == 0 {
		res.Skipped = true
		return res, nil
	}

	res.Matched, res.Added = i.Infer(g)
	if res.Added == 0 {
		i.logger.Debug("No new affiliations", "path", path)
		return res, nil
	}

	i.logger.Info("Inferred affiliations", "path", path, "added", res.Added)
	if err := i.store.Save(path, g); err != nil {
		return res, fmt.Errorf("save inferred graph: %w", err)
	}
	res.Written = true
	return res, nil
}
