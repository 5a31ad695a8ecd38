package event

import (
	"github.com/maxbolgarin/diffsense/internal/model"
	"github.com/maxbolgarin/lang"
)

// Defaults applied when a source field is absent or null.
const (
	defaultAuthor     = "unknown"
	defaultTitle      = "No title"
	defaultBaseBranch = "main"
	defaultHeadBranch = "unknown"
)

// ExtractMetadata turns a webhook delivery into canonical PR metadata.
// It tolerates any level of missing nested structure and fails only when the
// PR number or the repository name cannot be determined at all.
func ExtractMetadata(delivery model.RawDelivery) (model.PRMetadata, error) {
	pr, _ := delivery.Object("pull_request")

	prNumber, ok := pr.Int("number")
	if !ok || prNumber <= 0 {
		prNumber, ok = delivery.Int("number")
		if !ok || prNumber <= 0 {
			return model.PRMetadata{}, model.NewValidationError("PR number missing from payload")
		}
	}

	repository := ""
	if repo, hasRepo := delivery.Object("repository"); hasRepo {
		repository = repo.String("full_name")
	}
	if repository == "" {
		return model.PRMetadata{}, model.NewValidationError("repository name missing from payload")
	}

	author := defaultAuthor
	if user, hasUser := pr.Object("user"); hasUser {
		author = lang.Check(user.String("login"), defaultAuthor)
	}
	base := defaultBaseBranch
	if b, hasBase := pr.Object("base"); hasBase {
		base = lang.Check(b.String("ref"), defaultBaseBranch)
	}
	head := defaultHeadBranch
	if h, hasHead := pr.Object("head"); hasHead {
		head = lang.Check(h.String("ref"), defaultHeadBranch)
	}

	return model.PRMetadata{
		PRNumber:    prNumber,
		Repository:  repository,
		Author:      author,
		Title:       lang.Check(pr.String("title"), defaultTitle),
		Description: pr.String("body"),
		BaseBranch:  base,
		HeadBranch:  head,
		CreatedAt:   pr.String("created_at"),
	}, nil
}

// MetadataFromRecord builds canonical PR metadata from an API-fetched record.
// The repository is always supplied by the caller on this path, so only the
// defaulting rules apply, nothing can fail.
func MetadataFromRecord(rec model.PRRecord, repository string) model.PRMetadata {
	return model.PRMetadata{
		PRNumber:    rec.Number,
		Repository:  repository,
		Author:      lang.Check(rec.AuthorLogin, defaultAuthor),
		Title:       lang.Check(rec.Title, defaultTitle),
		Description: rec.Body,
		BaseBranch:  lang.Check(rec.BaseRef, defaultBaseBranch),
		HeadBranch:  lang.Check(rec.HeadRef, defaultHeadBranch),
		CreatedAt:   rec.CreatedAt,
	}
}
