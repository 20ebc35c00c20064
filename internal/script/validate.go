package script

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaSource string

// ValidationError is one schema violation in a script.
type ValidationError struct {
	File    string `json:"file"`
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.File)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d:%d", e.Line, e.Column)
	}
	b.WriteString(": ")
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// Validate checks the script at path against the schema.
// A read failure is returned as the error; schema violations as the slice.
func Validate(path string) ([]ValidationError, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return ValidateBytes(path, data), nil
}

// ValidateBytes checks script source against the schema. filename is only
// used in positions.
func ValidateBytes(filename string, data []byte) []ValidationError {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fromCUE(filename, err)
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return fromCUE(filename, err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return fromCUE(filename, err)
	}

	v := schema.LookupPath(cue.ParsePath("#Script")).Unify(doc)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fromCUE(filename, err)
	}
	return nil
}

// fromCUE flattens a CUE error list. Positions inside the script are
// preferred over positions inside the schema.
func fromCUE(filename string, err error) []ValidationError {
	var out []ValidationError
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		ve := ValidationError{
			File:    filename,
			Path:    strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
		}
		if pos, ok := scriptPosition(filename, e); ok {
			ve.Line = pos.Line()
			ve.Column = pos.Column()
		}
		out = append(out, ve)
	}
	if len(out) == 0 {
		out = append(out, ValidationError{File: filename, Message: err.Error()})
	}
	return out
}

func scriptPosition(filename string, e cueerrors.Error) (token.Pos, bool) {
	candidates := append([]token.Pos{e.Position()}, e.InputPositions()...)
	for _, pos := range candidates {
		if pos.IsValid() && pos.Filename() == filename {
			return pos, true
		}
	}
	return token.NoPos, false
}
