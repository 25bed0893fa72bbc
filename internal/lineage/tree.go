package lineage

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// LookupFunc returns the lineage of one pull request, from cache or from the API
type LookupFunc func(ctx context.Context, id Identifier) (Results, error)

// TreeNode is one pull request in a descendant tree
type TreeNode struct {
	PR       PrInfo
	Children []*TreeNode
}

// Equal compares two trees node by node
func (n *TreeNode) Equal(other *TreeNode) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.PR != other.PR || len(n.Children) != len(other.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// Size returns the number of descendants below n
func (n *TreeNode) Size() int {
	total := 0
	for _, child := range n.Children {
		total += 1 + child.Size()
	}
	return total
}

// BuildDescendantTree walks descendants of root breadth first. Each PR appears once;
// lookups within one level run concurrently, children are attached in display order
// so the same lineage always yields the same tree.
func BuildDescendantTree(ctx context.Context, lookup LookupFunc, root Identifier, order SortOrder) (*TreeNode, error) {
	if err := root.Validate(); err != nil {
		return nil, err
	}

	rootNode := &TreeNode{
		PR: PrInfo{Title: fmt.Sprintf("PR %d", root.Number), Number: root.Number},
	}

	seen := map[int]bool{root.Number: true}
	level := []*TreeNode{rootNode}

	for len(level) > 0 {
		results := make([]Results, len(level))

		g, gctx := errgroup.WithContext(ctx)
		for i, node := range level {
			id := Identifier{Owner: root.Owner, Repo: root.Repo, Number: node.PR.Number}
			g.Go(func() error {
				res, err := lookup(gctx, id)
				if err != nil {
					return fmt.Errorf("failed to look up descendants of %s: %w", id, err)
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		var next []*TreeNode
		for i, node := range level {
			for _, child := range SortForDisplay(results[i].DescendantPrs, order) {
				if seen[child.Number] {
					continue
				}
				seen[child.Number] = true

				childNode := &TreeNode{PR: child}
				node.Children = append(node.Children, childNode)
				next = append(next, childNode)
			}
		}
		level = next
	}

	return rootNode, nil
}
