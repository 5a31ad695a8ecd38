package payload

import (
	"strings"

	"github.com/maxbolgarin/diffsense/internal/model"
	"github.com/maxbolgarin/diffsense/internal/model/interfaces"
)

const maxContextLines = 10

var _ interfaces.SymbolExtractor = (*StubExtractor)(nil)

// StubExtractor is the default SymbolExtractor: it does no real parsing and
// emits one placeholder symbol per file for the languages the downstream
// service understands. Real AST-based extraction plugs in behind the same
// interface.
type StubExtractor struct{}

// NewStubExtractor creates the default stub extractor.
func NewStubExtractor() *StubExtractor {
	return &StubExtractor{}
}

// ExtractSymbols returns a single placeholder symbol for Python and
// JavaScript-family files and nothing for other languages.
func (e *StubExtractor) ExtractSymbols(file model.PayloadFile) []model.Symbol {
	var name, language string

	switch strings.ToLower(file.FileExtension) {
	case "py":
		name, language = "example_function", "python"
	case "js", "ts", "jsx", "tsx":
		name, language = "exampleFunction", "javascript"
	default:
		return nil
	}

	return []model.Symbol{{
		SymbolName: name,
		SymbolType: "function",
		FilePath:   file.FilePath,
		Context:    ContextFromPatch(file.Patch),
		ChangeType: file.ChangeType,
		Language:   language,
	}}
}

// ContextFromPatch extracts meaningful context from a git patch: added lines
// (prefixed "+", excluding the "+++" header) and context lines (prefixed with
// a single space), stripped of their prefix, capped at the first ten.
func ContextFromPatch(patch string) string {
	if patch == "" {
		return "No patch content available"
	}

	var contextLines []string
	for _, line := range strings.Split(patch, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"):
		case strings.HasPrefix(line, "+"):
			contextLines = append(contextLines, line[1:])
		case strings.HasPrefix(line, " "):
			contextLines = append(contextLines, line[1:])
		}
		if len(contextLines) == maxContextLines {
			break
		}
	}

	if len(contextLines) == 0 {
		return "Context extraction failed"
	}
	return strings.Join(contextLines, "\n")
}
