package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/alan/chainlink/internal/cache"
	"github.com/alan/chainlink/internal/lineage"
)

// stateIcon returns the marker shown next to a pull request
func stateIcon(state lineage.State) string {
	switch state {
	case lineage.StateOpen:
		return "🟢"
	case lineage.StateDraft:
		return "⚪"
	case lineage.StateMerged:
		return "🟣"
	case lineage.StateClosed:
		return "🔴"
	default:
		return "❔"
	}
}

// formatPR renders one pull request on a single line
func formatPR(pr lineage.PrInfo) string {
	return fmt.Sprintf("%s #%d %s (%s)", stateIcon(pr.State), pr.Number, pr.Title, pr.State)
}

// RenderLineage writes the ancestor, descendant and (optionally) sibling
// sections for id under the given heading
func RenderLineage(w io.Writer, heading string, id lineage.Identifier, results lineage.Results, order lineage.SortOrder, showSiblings bool) {
	fmt.Fprintf(w, "%s for %s\n", heading, id)

	renderSection(w, "Ancestors", results.AncestorPrs, order)
	renderSection(w, "Descendants", results.DescendantPrs, order)
	if showSiblings {
		renderSection(w, "Siblings", results.SiblingPrs, order)
	}
}

func renderSection(w io.Writer, title string, prs []lineage.PrInfo, order lineage.SortOrder) {
	fmt.Fprintf(w, "\n%s (%d):\n", title, len(prs))
	if len(prs) == 0 {
		fmt.Fprintln(w, "  none")
		return
	}
	for _, pr := range lineage.SortForDisplay(prs, order) {
		fmt.Fprintf(w, "  %s\n", formatPR(pr))
		if pr.Href != "" {
			fmt.Fprintf(w, "     %s\n", pr.Href)
		}
	}
}

// RenderTree writes the descendant tree rooted at node
func RenderTree(w io.Writer, node *lineage.TreeNode) {
	if node == nil {
		return
	}
	fmt.Fprintf(w, "#%d %s\n", node.PR.Number, node.PR.Title)
	renderChildren(w, node.Children, "")
}

func renderChildren(w io.Writer, children []*lineage.TreeNode, prefix string) {
	for i, child := range children {
		last := i == len(children)-1

		branch, indent := "├── ", "│   "
		if last {
			branch, indent = "└── ", "    "
		}

		fmt.Fprintf(w, "%s%s%s\n", prefix, branch, formatPR(child.PR))
		renderChildren(w, child.Children, prefix+indent)
	}
}

// RenderMigrationReport summarizes a legacy migration run
func RenderMigrationReport(w io.Writer, source string, report cache.MigrationReport) {
	if report.AlreadyMigrated {
		fmt.Fprintln(w, "Legacy cache already migrated, nothing to do.")
		return
	}

	fmt.Fprintf(w, "Migrated %d entr%s from %s\n", len(report.Migrated), plural(len(report.Migrated)), source)
	for _, id := range report.Migrated {
		fmt.Fprintf(w, "  ✅ %s\n", id)
	}
	if report.Ignored > 0 {
		fmt.Fprintf(w, "Ignored %d unrelated key(s)\n", report.Ignored)
	}
	if len(report.Failed) > 0 {
		fmt.Fprintf(w, "⚠️  %d entr%s could not be migrated and were left in place:\n", len(report.Failed), plural(len(report.Failed)))
		fmt.Fprintf(w, "  %s\n", strings.Join(report.Failed, "\n  "))
	}
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
