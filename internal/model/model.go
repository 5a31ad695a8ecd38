package model

// TriggerType identifies which entry point produced a payload.
type TriggerType string

const (
	TriggerWebhook  TriggerType = "github_webhook"
	TriggerOnDemand TriggerType = "on_demand_api"
)

// PRMetadata is the canonical metadata record for a pull request.
// Every string field is always a defined, non-empty-safe value: the extractor
// guarantees no field is ever absent, even when the source omits or nulls it.
// Created once per event or lookup and immutable afterwards.
type PRMetadata struct {
	PRNumber    int    `json:"pr_number"`
	Repository  string `json:"repository"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	BaseBranch  string `json:"base_branch"`
	HeadBranch  string `json:"head_branch"`
	CreatedAt   string `json:"created_at"`
}

// FileDiff represents changes in a single file of a pull request.
// Numeric fields are never negative, patch is never absent.
type FileDiff struct {
	FilePath   string `json:"file_path"`
	ChangeType string `json:"change_type"`
	Additions  int    `json:"additions"`
	Deletions  int    `json:"deletions"`
	Patch      string `json:"patch"`
}

// ParsedDiff is the normalized result of fetching and aggregating a PR diff.
// TotalAdditions and TotalDeletions always equal the per-file sums.
type ParsedDiff struct {
	Metadata       PRMetadata `json:"pr_metadata"`
	Files          []FileDiff `json:"modified_files"`
	CommitMessages []string   `json:"commit_messages"`
	TotalAdditions int        `json:"total_additions"`
	TotalDeletions int        `json:"total_deletions"`
}

// Classification is the result of deciding whether a delivery is actionable.
// It is always a value, never an error: rejection carries a human-readable reason.
type Classification struct {
	Accepted bool
	Reason   string
}

// Accept returns an accepting classification.
func Accept() Classification {
	return Classification{Accepted: true}
}

// Reject returns a rejecting classification with the given reason.
func Reject(reason string) Classification {
	return Classification{Accepted: false, Reason: reason}
}

// PRRecord is the canonical pull request record fetched from a provider API.
type PRRecord struct {
	Number      int
	Title       string
	Body        string
	State       string
	AuthorLogin string
	BaseRef     string
	HeadRef     string
	CreatedAt   string
	UpdatedAt   string
}

// FetchOutcome reports how fetched data was obtained. Placeholder results are
// well-formed synthetic values substituted when the upstream call failed, so
// callers can keep processing; Reason names the failure that fired the fallback.
type FetchOutcome struct {
	Placeholder bool
	Reason      string
}

// LiveData marks data really fetched from the provider.
func LiveData() FetchOutcome {
	return FetchOutcome{}
}

// PlaceholderData marks synthetic fallback data with the reason it fired.
func PlaceholderData(reason string) FetchOutcome {
	return FetchOutcome{Placeholder: true, Reason: reason}
}
