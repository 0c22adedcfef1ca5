package libdiff

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// TextDiff renders the character level difference between from and to,
// marking deletions as [-text-] and insertions as {+text+}.
func TextDiff(from, to string) string {
	diffCfg := diffpatch.New()
	doMultiLine := strings.Contains(from, "\n") && strings.Contains(to, "\n")
	diffs := diffCfg.DiffMain(from, to, doMultiLine)
	diffs = diffCfg.DiffCleanupSemantic(diffs)
	var b strings.Builder
	for _, diff := range diffs {
		switch diff.Type {
		case diffpatch.DiffInsert:
			b.WriteString("{+" + diff.Text + "+}")
		case diffpatch.DiffDelete:
			b.WriteString("[-" + diff.Text + "-]")
		case diffpatch.DiffEqual:
			b.WriteString(diff.Text)
		}
	}
	return b.String()
}
