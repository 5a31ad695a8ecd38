package model

// PayloadMetadata is PR metadata extended with the trigger that produced it.
type PayloadMetadata struct {
	PRMetadata
	TriggerType TriggerType `json:"trigger_type"`
}

// PayloadFile is a changed file enriched for the embedding consumer.
type PayloadFile struct {
	FilePath      string `json:"file_path"`
	ChangeType    string `json:"change_type"`
	Additions     int    `json:"additions"`
	Deletions     int    `json:"deletions"`
	Patch         string `json:"patch"`
	FileExtension string `json:"file_extension"`
	IsCodeFile    bool   `json:"is_code_file"`
}

// Symbol is one extracted code symbol prepared for embedding.
type Symbol struct {
	SymbolName string `json:"symbol_name"`
	SymbolType string `json:"symbol_type"`
	FilePath   string `json:"file_path"`
	Context    string `json:"context"`
	ChangeType string `json:"change_type"`
	Language   string `json:"language,omitempty"`
}

// ProcessingMetadata describes how a payload was produced.
type ProcessingMetadata struct {
	TotalFiles       int    `json:"total_files"`
	CodeFiles        int    `json:"code_files"`
	TotalAdditions   int    `json:"total_additions"`
	TotalDeletions   int    `json:"total_deletions"`
	ProcessingTimeMS int64  `json:"processing_time_ms"`
	Timestamp        string `json:"timestamp"`
	ServiceVersion   string `json:"service_version"`
}

// DownstreamPayload is the stable contract consumed by the embedding service.
// It is derived and recomputed per request, never persisted.
type DownstreamPayload struct {
	PRMetadata          PayloadMetadata    `json:"pr_metadata"`
	ModifiedFiles       []PayloadFile      `json:"modified_files"`
	SymbolsForEmbedding []Symbol           `json:"symbols_for_embedding"`
	CommitMessages      []string           `json:"commit_messages"`
	ProcessingMetadata  ProcessingMetadata `json:"processing_metadata"`
}

// WebhookSummary is the short processing summary returned to webhook callers.
type WebhookSummary struct {
	PRNumber         int    `json:"pr_number"`
	Repository       string `json:"repository"`
	FilesProcessed   int    `json:"files_processed"`
	TotalAdditions   int    `json:"total_additions"`
	TotalDeletions   int    `json:"total_deletions"`
	ProcessingTimeMS int64  `json:"processing_time_ms"`
}

// Webhook response statuses.
const (
	StatusSuccess = "success"
	StatusIgnored = "ignored"
	StatusError   = "error"
)

// WebhookResponse is the envelope returned to the webhook caller. Ignored
// deliveries are a benign outcome: the caller still gets a 200-class answer
// with the rejection reason.
type WebhookResponse struct {
	Status       string             `json:"status"`
	Message      string             `json:"message,omitempty"`
	Reason       string             `json:"reason,omitempty"`
	Trigger      TriggerType        `json:"trigger"`
	Timestamp    string             `json:"timestamp"`
	Summary      *WebhookSummary    `json:"webhook_summary,omitempty"`
	Payload      *DownstreamPayload `json:"payload,omitempty"`
	PayloadReady bool               `json:"payload_ready"`
}

// AnalyzeResponse is the envelope returned to on-demand callers.
type AnalyzeResponse struct {
	Status   string             `json:"status"`
	Message  string             `json:"message"`
	Trigger  TriggerType        `json:"trigger"`
	Summary  WebhookSummary     `json:"data"`
	Payload  *DownstreamPayload `json:"payload"`
	Metadata PRMetadata         `json:"pr_metadata"`
}
