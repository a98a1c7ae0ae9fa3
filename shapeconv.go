// Package shapeconv is the public facade over the translation pipeline:
// parse one shape language, convert the model, emit the other. Everything
// here is a thin composition of internal/shaclrdf, internal/shexc and
// internal/convert; no parsing or conversion logic lives in this file.
package shapeconv

import (
	"bytes"
	"io"

	"go.uber.org/zap"

	"github.com/rdfshapes/shapeconv/internal/convert"
	"github.com/rdfshapes/shapeconv/internal/shaclrdf"
	"github.com/rdfshapes/shapeconv/internal/shexc"
)

// Warning re-exports internal/convert.Warning so callers never have to
// import the internal package directly.
type Warning = convert.Warning

// SHACLToShEx reads a Turtle-serialized SHACL shapes graph from src and
// returns its ShExC translation, per spec.md 6.
func SHACLToShEx(src io.Reader) (string, []Warning, error) {
	return SHACLToShExWithLogger(src, nil)
}

// SHACLToShExWithLogger is SHACLToShEx, logging every collected warning at
// Warn level when logger is non-nil (spec.md 7's logging design).
func SHACLToShExWithLogger(src io.Reader, logger *zap.Logger) (string, []Warning, error) {
	triples, prefixes, err := shaclrdf.ParseTurtle(src)
	if err != nil {
		return "", nil, err
	}
	shaclSchema, err := shaclrdf.Ingest(triples, prefixes)
	if err != nil {
		return "", nil, err
	}

	shexSchema, warnings := convert.ToShEx(shaclSchema)
	logWarnings(logger, warnings)

	text, err := shexc.Emit(shexSchema)
	if err != nil {
		return "", warnings, err
	}
	return text, warnings, nil
}

// ShExToSHACL parses ShExC source text and writes its SHACL translation to
// w as Turtle, per spec.md 6.
func ShExToSHACL(src string, w io.Writer) ([]Warning, error) {
	return ShExToSHACLWithLogger(src, w, nil)
}

// ShExToSHACLWithLogger is ShExToSHACL, logging every collected warning at
// Warn level when logger is non-nil.
func ShExToSHACLWithLogger(src string, w io.Writer, logger *zap.Logger) ([]Warning, error) {
	shexSchema, err := shexc.NewParser(src).Parse()
	if err != nil {
		return nil, err
	}

	shaclSchema, warnings := convert.ToSHACL(shexSchema)
	logWarnings(logger, warnings)

	if err := shaclrdf.EmitTurtle(shaclSchema, w); err != nil {
		return warnings, err
	}
	return warnings, nil
}

// ShExToSHACLString is a convenience wrapper returning the Turtle output as
// a string instead of writing to a caller-supplied io.Writer.
func ShExToSHACLString(src string) (string, []Warning, error) {
	var buf bytes.Buffer
	warnings, err := ShExToSHACL(src, &buf)
	return buf.String(), warnings, err
}

func logWarnings(logger *zap.Logger, warnings []Warning) {
	if logger == nil {
		return
	}
	for _, w := range warnings {
		logger.Warn(w.String(), zap.String("kind", w.Kind.String()), zap.String("shape", w.Shape))
	}
}
