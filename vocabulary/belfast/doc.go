// Package belfast provides the vocabulary used to describe Belfast Group sheets.
//
// Group sheet data is published by several archives, each with its own RDF.
// The terms here are the subset the cleanup stages read or write:
//
//   - bibo:Manuscript marks a manuscript record in archival finding-aid RDF
//   - bg:GroupSheet is the local type assigned once a manuscript is known to
//     belong to the Belfast Group
//   - dc:title and schema:author carry the metadata used to compute a
//     content-derived identifier for each group sheet
//   - schema:mentions and schema:about connect finding-aid documents and
//     manuscripts to the group
//
// The IRIs are constants; a Vocabulary value bundles them so that deployments
// can override any of them through configuration:
//
//	v := belfast.Default()
//	v.GroupURI = "http://viaf.org/viaf/123393054"
//
// Canonical identifiers are minted under CanonicalNamespace.
package belfast
