package event

import (
	"slices"
	"strings"

	"github.com/maxbolgarin/diffsense/internal/model"
	"github.com/maxbolgarin/logze/v2"
)

const unknownRepository = "unknown"

// Rejection reasons, fixed so callers and tests can assert on why a delivery
// was dropped.
const (
	ReasonNoPRData        = "no pull_request data and no number/repository fields"
	ReasonNotRecognized   = "action not recognized and insufficient PR data"
	ReasonEmptyRepository = "repository could not be resolved"
)

// relevantActions is the allow-list of PR actions that are always processed.
var relevantActions = []string{
	"opened",
	"synchronize",
	"reopened",
	"ready_for_review",
	"edited",
	"review_requested",
	"assigned",
	"unassigned",
	"labeled",
	"unlabeled",
	"closed",
	"converted_to_draft",
	"auto_merge_enabled",
	"auto_merge_disabled",
}

// Classify decides whether a delivery represents an actionable PR change.
// Pure decision logic, no I/O, never fails: an internal fault is treated as
// accept, so a genuine PR event is never dropped because of a classifier bug.
// The fallback rules are deliberately permissive: anything carrying a usable
// PR number and a resolved repository goes through even when the action name
// is unknown.
func Classify(delivery model.RawDelivery) (c model.Classification) {
	defer func() {
		if r := recover(); r != nil {
			logze.With("component", "classifier").Warn("classification fault, accepting event", "panic", r)
			c = model.Accept()
		}
	}()

	pr, hasPR := delivery.Object("pull_request")
	if !hasPR {
		// Alternate event shape: some deliveries carry the PR number at the
		// top level without a pull_request object.
		if delivery.Has("number") && delivery.Has("repository") {
			return model.Accept()
		}
		return model.Reject(ReasonNoPRData)
	}

	action := strings.ToLower(strings.TrimSpace(delivery.String("action")))
	prNumber, hasNumber := pr.Int("number")
	if !hasNumber {
		prNumber, hasNumber = delivery.Int("number")
	}
	repository := unknownRepository
	if repo, ok := delivery.Object("repository"); ok {
		if name := repo.String("full_name"); name != "" {
			repository = name
		}
	}

	switch {
	case action == "" && hasNumber && prNumber > 0:
		return model.Accept()

	case slices.Contains(relevantActions, action):
		return model.Accept()

	case hasNumber && prNumber > 0 && repository != unknownRepository:
		// Permissive fallback for unrecognized action names.
		return model.Accept()
	}

	return model.Reject(ReasonNotRecognized)
}
