// Package identity computes canonical identifiers for group sheets.
//
// Archives describe the same physical group sheet independently, with
// differing title order, case and punctuation, and with authors given either
// as VIAF URIs or as blank nodes with name parts. The Resolver reduces each
// description to a content key (author plus sorted title slugs) and mints an
// IRI from its MD5 digest, so equivalent descriptions collapse to one node.
package identity

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/c360studio/groupsheets/graph"
	"github.com/c360studio/groupsheets/vocabulary/belfast"
)

// Resolver computes canonical group sheet identifiers.
type Resolver struct {
	vocab belfast.Vocabulary
}

// NewResolver creates a resolver for the given vocabulary.
func NewResolver(v belfast.Vocabulary) *Resolver {
	return &Resolver{vocab: v}
}

// Key returns the content key of node: the author (or "anonymous") followed
// by a space and the sorted title slugs joined by spaces. ok is false when
// the node has neither a title nor an author.
func (r *Resolver) Key(g *graph.Graph, node graph.Term) (key string, ok bool) {
	title := TitleOf(g, node, r.vocab)
	slugs := make([]string, 0, len(title.Values))
	for _, t := range title.Values {
		slugs = append(slugs, Slugify(t))
	}
	sort.Strings(slugs)

	author, hasAuthor := AuthorOf(g, node, r.vocab)
	if len(slugs) == 0 && !hasAuthor {
		return "", false
	}
	if !hasAuthor {
		author = belfast.AnonymousAuthor
	}
	return author + " " + strings.Join(slugs, " "), true
}

// Resolve returns the canonical identifier for node, or false when there is
// not enough metadata to compute one.
func (r *Resolver) Resolve(g *graph.Graph, node graph.Term) (graph.Term, bool) {
	key, ok := r.Key(g, node)
	if !ok {
		return graph.Term{}, false
	}
	return graph.IRI(r.vocab.CanonicalNamespace + Digest(key)), true
}

// Digest returns the hex MD5 digest of the UTF-8 key.
func Digest(key string) string {
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}
