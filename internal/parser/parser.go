package parser

import (
	"fmt"

	"github.com/maxbolgarin/diffsense/internal/model"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
)

// Normalize converts fetched file records into a ParsedDiff: defaulting rules
// re-applied per record, source order preserved, totals accumulated by
// summation. Individual commit messages are not sourced in this pipeline, so
// a single synthetic one is attached. Normalization always succeeds from the
// caller's perspective: an unexpected fault degrades to a minimal one-file
// placeholder result with zero totals.
func Normalize(meta model.PRMetadata, files []model.FileDiff) (parsed model.ParsedDiff) {
	defer func() {
		if r := recover(); r != nil {
			logze.With("component", "parser").Warn("normalization fault, using placeholder diff",
				"pr_number", meta.PRNumber, "panic", r)
			parsed = placeholderDiff(meta)
		}
	}()

	normalized := make([]model.FileDiff, 0, len(files))
	totalAdditions := 0
	totalDeletions := 0

	for _, file := range files {
		record := model.FileDiff{
			FilePath:   lang.Check(file.FilePath, "unknown_file"),
			ChangeType: lang.Check(file.ChangeType, "modified"),
			Additions:  max(file.Additions, 0),
			Deletions:  max(file.Deletions, 0),
			Patch:      file.Patch,
		}
		normalized = append(normalized, record)
		totalAdditions += record.Additions
		totalDeletions += record.Deletions
	}

	return model.ParsedDiff{
		Metadata:       meta,
		Files:          normalized,
		CommitMessages: []string{fmt.Sprintf("Changes in PR %d", meta.PRNumber)},
		TotalAdditions: totalAdditions,
		TotalDeletions: totalDeletions,
	}
}

func placeholderDiff(meta model.PRMetadata) model.ParsedDiff {
	return model.ParsedDiff{
		Metadata: meta,
		Files: []model.FileDiff{{
			FilePath:   "error/mock.py",
			ChangeType: "modified",
			Patch:      "Error occurred during parsing",
		}},
		CommitMessages: []string{"Error parsing commits"},
	}
}
