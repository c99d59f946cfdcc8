package render

import "fmt"

type Stage string

const (
	StageTemplate Stage = "template"
	StageEngine   Stage = "engine"
	StageWrite    Stage = "write"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// RenderError identifica em que etapa e para qual formato a geração falhou.
type RenderError struct {
	Stage  Stage
	Format Format
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("falha na geração %s (etapa %s): %v", e.Format, e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

func newError(stage Stage, format Format, err error) *RenderError {
	return &RenderError{Stage: stage, Format: format, Err: err}
}

// WriteError embrulha uma falha de gravação do artefato em disco.
func WriteError(format Format, err error) *RenderError {
	return newError(StageWrite, format, err)
}
