// Package rdfio reads and writes RDF graph files.
//
// Decoding is delegated to github.com/knakk/rdf for all supported formats.
// N-Triples output also goes through knakk/rdf; Turtle and RDF/XML output are
// written here so that the namespace bindings of the source file survive the
// round trip.
package rdfio

import (
	"bytes"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knakk/rdf"
)

// Format is an RDF serialization format.
type Format string

const (
	// FormatRDFXML is RDF/XML (.rdf, .xml, .owl).
	FormatRDFXML Format = "rdfxml"

	// FormatTurtle is Turtle (.ttl).
	FormatTurtle Format = "turtle"

	// FormatNTriples is N-Triples (.nt).
	FormatNTriples Format = "ntriples"
)

// FormatInfo provides metadata about a format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extensions are the file extensions (with dot) mapped to the format.
	Extensions []string

	// Description describes the format.
	Description string

	// decoder is the knakk/rdf format used to parse files.
	decoder rdf.Format
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatRDFXML: {
		Name:        FormatRDFXML,
		MIMEType:    "application/rdf+xml",
		Extensions:  []string{".rdf", ".xml", ".owl"},
		Description: "RDF/XML - XML syntax for RDF",
		decoder:     rdf.RDFXML,
	},
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extensions:  []string{".ttl"},
		Description: "Turtle - Terse RDF Triple Language",
		decoder:     rdf.Turtle,
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extensions:  []string{".nt"},
		Description: "N-Triples - Line-based RDF format",
		decoder:     rdf.NTriples,
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat converts a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := FormatRegistry[f]; !ok {
		return "", unknownFormat(name)
	}
	return f, nil
}

// Extensions returns every registered file extension, sorted.
func Extensions() []string {
	var out []string
	for _, info := range FormatRegistry {
		out = append(out, info.Extensions...)
	}
	sort.Strings(out)
	return out
}

// FormatForPath returns the format registered for the file extension of path.
func FormatForPath(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for name, info := range FormatRegistry {
		for _, e := range info.Extensions {
			if e == ext {
				return name, true
			}
		}
	}
	return "", false
}

// Sniff guesses the format of data. XML content is RDF/XML; anything else is
// read as Turtle, which also accepts N-Triples.
func Sniff(data []byte) Format {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	for _, marker := range []string{"<?xml", "<!", "<rdf:RDF"} {
		if bytes.HasPrefix(trimmed, []byte(marker)) {
			return FormatRDFXML
		}
	}
	return FormatTurtle
}

// DetectFormat picks the format for a file: by extension first, then by content.
func DetectFormat(path string, data []byte) Format {
	if f, ok := FormatForPath(path); ok {
		return f
	}
	return Sniff(data)
}
