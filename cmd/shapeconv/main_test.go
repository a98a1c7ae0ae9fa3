package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvertSHACLToShExWritesOutFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "shapes.ttl")
	out := filepath.Join(dir, "shapes.shex")

	src := `
@prefix sh: <http://www.w3.org/ns/shacl#> .
@prefix ex: <http://example.org/> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .

ex:PersonShape a sh:NodeShape ;
    sh:targetClass ex:Person ;
    sh:property [
        sh:path ex:name ;
        sh:datatype xsd:string ;
        sh:minCount 1 ;
        sh:maxCount 1 ;
    ] .
`
	require.NoError(t, os.WriteFile(in, []byte(src), 0o644))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"convert", "--from", "shacl", "--to", "shex", "--out", out, in})
	require.NoError(t, cmd.Execute())

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(got), "http://example.org/PersonShape")
	require.Contains(t, string(got), "http://example.org/name")
}

func TestConvertRejectsUnsupportedDirection(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "shapes.ttl")
	require.NoError(t, os.WriteFile(in, []byte("@prefix ex: <http://example.org/> .\n"), 0o644))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"convert", "--from", "shacl", "--to", "shacl", in})
	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported conversion")
}

func TestConvertMissingFileFails(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"convert", "--from", "shacl", "--to", "shex", "/no/such/file.ttl"})
	err := cmd.Execute()
	require.Error(t, err)
}
