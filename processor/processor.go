// Package processor holds the types shared by the group sheet cleanup stages.
//
// Each stage loads one RDF file through a GraphStore, mutates the graph and
// writes it back through the same store. Stages never run concurrently on the
// same file.
package processor

import "github.com/c360studio/groupsheets/graph"

// GraphStore loads and saves graphs by file path. rdfio.FileStore and
// rdfio.DryRunStore implement it.
type GraphStore interface {
	Load(path string) (*graph.Graph, error)
	Save(path string, g *graph.Graph) error
}

// Result describes what one stage did to one file.
type Result struct {
	Path  string `json:"path"`
	Stage string `json:"stage"`

	// Matched is the number of nodes the stage selected.
	Matched int `json:"matched"`

	// Resolved is the number of nodes given a canonical identifier.
	Resolved int `json:"resolved,omitempty"`

	// Added is the number of triples added to the graph.
	Added int `json:"added,omitempty"`

	Written bool `json:"written"`
	Skipped bool `json:"skipped"`
}
