package payload

import (
	"strings"
	"time"

	"github.com/maxbolgarin/diffsense/internal/model"
	"github.com/maxbolgarin/diffsense/internal/model/interfaces"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
)

// Assembler combines normalized diff data into the stable contract consumed
// by the downstream embedding service.
type Assembler struct {
	cfg       Config
	extractor interfaces.SymbolExtractor
	codeExts  map[string]struct{}
	log       logze.Logger
}

// New creates a new payload assembler. A nil extractor falls back to the
// stub symbol extractor.
func New(cfg Config, extractor interfaces.SymbolExtractor) (*Assembler, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}

	codeExts := make(map[string]struct{}, len(cfg.CodeExtensions))
	for _, ext := range cfg.CodeExtensions {
		codeExts[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	if extractor == nil {
		extractor = NewStubExtractor()
	}

	return &Assembler{
		cfg:       cfg,
		extractor: extractor,
		codeExts:  codeExts,
		log:       logze.With("component", "assembler"),
	}, nil
}

// Assemble builds the downstream payload from a parsed diff. The on-demand
// path truncates long patches; the webhook path forwards them in full.
func (a *Assembler) Assemble(parsed model.ParsedDiff, trigger model.TriggerType, elapsedMS int64) model.DownstreamPayload {
	files := make([]model.PayloadFile, 0, len(parsed.Files))
	symbols := make([]model.Symbol, 0, len(parsed.Files))
	codeFiles := 0

	for _, file := range parsed.Files {
		ext := FileExtension(file.FilePath)
		isCode := a.isCodeFile(ext)

		patch := file.Patch
		if trigger == model.TriggerOnDemand {
			patch = truncatePatch(patch, a.cfg.MaxPatchChars)
		}

		pf := model.PayloadFile{
			FilePath:      file.FilePath,
			ChangeType:    file.ChangeType,
			Additions:     file.Additions,
			Deletions:     file.Deletions,
			Patch:         patch,
			FileExtension: ext,
			IsCodeFile:    isCode,
		}
		files = append(files, pf)

		if isCode {
			codeFiles++
			symbols = append(symbols, a.extractor.ExtractSymbols(pf)...)
		}
	}

	return model.DownstreamPayload{
		PRMetadata: model.PayloadMetadata{
			PRMetadata:  parsed.Metadata,
			TriggerType: trigger,
		},
		ModifiedFiles:       files,
		SymbolsForEmbedding: symbols,
		CommitMessages:      parsed.CommitMessages,
		ProcessingMetadata: model.ProcessingMetadata{
			TotalFiles:       len(files),
			CodeFiles:        codeFiles,
			TotalAdditions:   parsed.TotalAdditions,
			TotalDeletions:   parsed.TotalDeletions,
			ProcessingTimeMS: elapsedMS,
			Timestamp:        time.Now().Format(time.RFC3339),
			ServiceVersion:   a.cfg.ServiceVersion,
		},
	}
}

func (a *Assembler) isCodeFile(ext string) bool {
	_, ok := a.codeExts[strings.ToLower(ext)]
	return ok
}

// FileExtension returns the substring after the last dot of the path, empty
// when the path has no dot.
func FileExtension(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return ""
	}
	return path[idx+1:]
}

// truncatePatch bounds a patch to limit characters with a trailing ellipsis.
func truncatePatch(patch string, limit int) string {
	if len(patch) <= limit {
		return patch
	}
	return patch[:limit] + "..."
}
