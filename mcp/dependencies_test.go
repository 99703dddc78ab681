package mcp

import (
	"github.com/ludo-technologies/bcflow/domain"
)

func NewTestDependencies(fr domain.FileReader, path string) *Dependencies {
	deps := NewDependencies(path, nil)
	deps.fileReader = fr
	return deps
}
