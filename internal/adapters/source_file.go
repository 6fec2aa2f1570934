package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"linkie-web/internal/ports"
)

type SourceFileAdapter struct{}

func NewSourceFileAdapter() SourceFileAdapter {
	return SourceFileAdapter{}
}

func (a SourceFileAdapter) ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("source file not found").
				WithCause(err)
		}
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read source file").
			WithCause(err)
	}
	return string(data), nil
}

var _ ports.SourceFilePort = SourceFileAdapter{}
