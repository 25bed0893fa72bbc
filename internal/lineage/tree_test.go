package lineage

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticLookup serves descendant lists from a map keyed by PR number
func staticLookup(descendants map[int][]PrInfo) LookupFunc {
	return func(_ context.Context, id Identifier) (Results, error) {
		if id.Owner != "acme" || id.Repo != "widgets" {
			return Results{}, fmt.Errorf("unexpected repository %s/%s", id.Owner, id.Repo)
		}
		return Results{DescendantPrs: descendants[id.Number]}, nil
	}
}

func pr(number int, state State) PrInfo {
	return PrInfo{Title: fmt.Sprintf("PR %d", number), Number: number, State: state}
}

func childNumbers(node *TreeNode) []int {
	var nums []int
	for _, child := range node.Children {
		nums = append(nums, child.PR.Number)
	}
	return nums
}

func TestBuildDescendantTree(t *testing.T) {
	lookup := staticLookup(map[int][]PrInfo{
		42: {pr(55, StateOpen), pr(60, StateMerged), pr(57, StateOpen)},
		55: {pr(70, StateDraft)},
		70: {},
	})

	tree, err := BuildDescendantTree(context.Background(), lookup, target42, SortDescending)
	require.NoError(t, err)

	assert.Equal(t, 42, tree.PR.Number)
	assert.Equal(t, []int{57, 55, 60}, childNumbers(tree))
	assert.Equal(t, []int{70}, childNumbers(tree.Children[1]))
	assert.Equal(t, 4, tree.Size())
}

func TestBuildDescendantTree_VisitsEachPROnce(t *testing.T) {
	// 55 and 56 both claim 70; 70 points back at 42
	lookup := staticLookup(map[int][]PrInfo{
		42: {pr(55, StateOpen), pr(56, StateOpen)},
		55: {pr(70, StateOpen)},
		56: {pr(70, StateOpen)},
		70: {pr(42, StateOpen)},
	})

	tree, err := BuildDescendantTree(context.Background(), lookup, target42, SortAscending)
	require.NoError(t, err)

	assert.Equal(t, []int{55, 56}, childNumbers(tree))
	assert.Equal(t, []int{70}, childNumbers(tree.Children[0]))
	assert.Empty(t, tree.Children[1].Children)
	assert.Empty(t, tree.Children[0].Children[0].Children)
	assert.Equal(t, 3, tree.Size())
}

func TestBuildDescendantTree_Deterministic(t *testing.T) {
	lookup := staticLookup(map[int][]PrInfo{
		42: {pr(1, StateOpen), pr(2, StateOpen), pr(3, StateOpen)},
		1:  {pr(10, StateOpen), pr(11, StateOpen)},
		2:  {pr(11, StateOpen), pr(12, StateOpen)},
		3:  {pr(12, StateOpen), pr(10, StateOpen)},
	})

	first, err := BuildDescendantTree(context.Background(), lookup, target42, SortAscending)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := BuildDescendantTree(context.Background(), lookup, target42, SortAscending)
		require.NoError(t, err)
		require.True(t, first.Equal(again))
	}
}

func TestBuildDescendantTree_LookupError(t *testing.T) {
	boom := errors.New("boom")
	lookup := func(_ context.Context, id Identifier) (Results, error) {
		if id.Number == 55 {
			return Results{}, boom
		}
		return Results{DescendantPrs: []PrInfo{pr(55, StateOpen)}}, nil
	}

	_, err := BuildDescendantTree(context.Background(), lookup, target42, SortAscending)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "acme/widgets#55")
}

func TestTreeNode_Equal(t *testing.T) {
	a := &TreeNode{PR: pr(1, StateOpen), Children: []*TreeNode{{PR: pr(2, StateOpen)}}}
	b := &TreeNode{PR: pr(1, StateOpen), Children: []*TreeNode{{PR: pr(2, StateOpen)}}}
	c := &TreeNode{PR: pr(1, StateOpen), Children: []*TreeNode{{PR: pr(2, StateMerged)}}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))

	var nilNode *TreeNode
	assert.True(t, nilNode.Equal(nil))
}
