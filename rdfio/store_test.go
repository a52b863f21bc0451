package rdfio

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/c360studio/groupsheets/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNT = `<http://example.org/ms/1> <http://purl.org/dc/terms/title> "Spring Poem" .
<http://example.org/ms/1> <http://schema.org/author> <http://example.org/poet1> .
`

func TestFileStoreLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheets.nt")
	require.NoError(t, os.WriteFile(path, []byte(sampleNT), 0600))

	store := NewFileStore(nil)
	g, err := store.Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, g.Len())

	g.Add(graph.T(ms1, typeOf, msClass))
	require.NoError(t, store.Save(path, g))

	back, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, back.Len())
	assert.True(t, back.Has(graph.T(ms1, typeOf, msClass)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "permissions are preserved")
}

func TestFileStoreLoadMissing(t *testing.T) {
	_, err := NewFileStore(nil).Load(filepath.Join(t.TempDir(), "missing.ttl"))
	assert.Error(t, err)
}

func TestFileStoreLoadParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.nt")
	require.NoError(t, os.WriteFile(path, []byte("<http://a> \"b\" ."), 0644))

	_, err := NewFileStore(nil).Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestWriteFileAtomicFailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sheets.ttl")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0644))

	boom := errors.New("boom")
	err := WriteFileAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	assert.True(t, errors.Is(err, boom))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be removed")
}

func TestWriteFileAtomicCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.ttl")
	require.NoError(t, WriteFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write([]byte("content"))
		return err
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestDryRunStoreDoesNotWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheets.nt")
	require.NoError(t, os.WriteFile(path, []byte(sampleNT), 0644))

	store := NewDryRunStore(nil)
	g, err := store.Load(path)
	require.NoError(t, err)
	g.Add(graph.T(ms1, typeOf, msClass))
	require.NoError(t, store.Save(path, g))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleNT, string(data))
}

func TestSaveFormatSniffsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.data")
	require.NoError(t, os.WriteFile(path, []byte(`<?xml version="1.0"?>`+"\n<rdf:RDF/>"), 0644))

	f, err := saveFormat(path)
	require.NoError(t, err)
	assert.Equal(t, FormatRDFXML, f)
}
