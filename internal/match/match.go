// Package match implements the order-independent node correspondence shared
// by the Reference Manager (C4) and the Tree Differ (C6): the two-pass
// anchor/fuzzy matcher of §4.6. Computing it once and sharing the result
// means ref continuity (C4) and diff output (C6) can never disagree about
// which old node a new node corresponds to.
package match

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/mkrivchun/browserlens/internal/model"
)

// rejectCost is the cost at/above which a candidate pair is rejected (§4.6
// "pairs with cost ≥ 3 are rejected").
const rejectCost = 3

// hungarianCap bounds Hungarian refinement to buckets of at most this many
// candidates on a side (§4.6 "k ≤ 16").
const hungarianCap = 16

// Result is the full old/new correspondence for one diff.
type Result struct {
	Pairs        []Pair
	UnmatchedOld []*model.Node
	UnmatchedNew []*model.Node

	OldParent map[*model.Node]*model.Node
	NewParent map[*model.Node]*model.Node

	PairOldToNew map[*model.Node]*model.Node
	PairNewToOld map[*model.Node]*model.Node
}

// Pair is one matched (old, new) node correspondence.
type Pair struct {
	Old, New *model.Node
}

// Match implements the two-pass algorithm of §4.6 over the visible
// (non-hidden) nodes of old and new.
func Match(old, newTree *model.StateTree) *Result {
	oldFlat, _ := old.Flatten()
	newFlat, _ := newTree.Flatten()

	res := &Result{
		OldParent:    map[*model.Node]*model.Node{},
		NewParent:    map[*model.Node]*model.Node{},
		PairOldToNew: map[*model.Node]*model.Node{},
		PairNewToOld: map[*model.Node]*model.Node{},
	}
	for _, fn := range oldFlat {
		res.OldParent[fn.Node] = fn.Parent
	}
	for _, fn := range newFlat {
		res.NewParent[fn.Node] = fn.Parent
	}

	oldRemaining := make([]*model.FlatNode, len(oldFlat))
	copy(oldRemaining, oldFlat)
	newRemaining := make([]*model.FlatNode, len(newFlat))
	copy(newRemaining, newFlat)

	// Pass A: anchor matching by identity tuple, grouped globally (ties
	// within a parent are naturally sibling-ordered since Flatten walks in
	// document order).
	oldRemaining, newRemaining = matchByIdentity(oldRemaining, newRemaining, res)

	// Pass B: fuzzy bipartite matching by cost, bucketed by role (the cost
	// function only ever lets a cross-role pair through when names agree
	// exactly and levels match, so a same-role bucket plus one cross-role
	// same-name pass covers the whole cost table without an O(n^2) global
	// search).
	oldRemaining, newRemaining = matchByRoleBucket(oldRemaining, newRemaining, res)
	oldRemaining, newRemaining = matchCrossRoleSameName(oldRemaining, newRemaining, res)

	for _, fn := range oldRemaining {
		res.UnmatchedOld = append(res.UnmatchedOld, fn.Node)
	}
	for _, fn := range newRemaining {
		res.UnmatchedNew = append(res.UnmatchedNew, fn.Node)
	}
	return res
}

func recordPair(res *Result, old, new *model.Node) {
	res.Pairs = append(res.Pairs, Pair{Old: old, New: new})
	res.PairOldToNew[old] = new
	res.PairNewToOld[new] = old
}

func identityKey(id model.Identity) string {
	var b strings.Builder
	b.WriteString(string(id.Role))
	b.WriteByte('\x00')
	b.WriteString(id.NormalizedName)
	b.WriteByte('\x00')
	b.WriteString(string(id.ParentRole))
	b.WriteByte('\x00')
	b.WriteString(strconv.Itoa(id.Level))
	return b.String()
}

func matchByIdentity(oldList, newList []*model.FlatNode, res *Result) (oldRem, newRem []*model.FlatNode) {
	oldGroups := map[string][]*model.FlatNode{}
	for _, fn := range oldList {
		k := identityKey(fn.Identity)
		oldGroups[k] = append(oldGroups[k], fn)
	}
	matchedOld := map[*model.Node]bool{}
	matchedNew := map[*model.Node]bool{}
	for _, fn := range newList {
		k := identityKey(fn.Identity)
		bucket := oldGroups[k]
		if len(bucket) == 0 {
			continue
		}
		old := bucket[0]
		oldGroups[k] = bucket[1:]
		recordPair(res, old.Node, fn.Node)
		matchedOld[old.Node] = true
		matchedNew[fn.Node] = true
	}
	for _, fn := range oldList {
		if !matchedOld[fn.Node] {
			oldRem = append(oldRem, fn)
		}
	}
	for _, fn := range newList {
		if !matchedNew[fn.Node] {
			newRem = append(newRem, fn)
		}
	}
	return oldRem, newRem
}

func matchByRoleBucket(oldList, newList []*model.FlatNode, res *Result) (oldRem, newRem []*model.FlatNode) {
	oldByRole := map[model.Role][]*model.FlatNode{}
	for _, fn := range oldList {
		oldByRole[fn.Identity.Role] = append(oldByRole[fn.Identity.Role], fn)
	}
	newByRole := map[model.Role][]*model.FlatNode{}
	for _, fn := range newList {
		newByRole[fn.Identity.Role] = append(newByRole[fn.Identity.Role], fn)
	}

	matchedOld := map[*model.Node]bool{}
	matchedNew := map[*model.Node]bool{}

	for role, oldBucket := range oldByRole {
		newBucket := newByRole[role]
		if len(newBucket) == 0 {
			continue
		}
		pairs := matchBucket(oldBucket, newBucket, sameRoleCost)
		for _, pr := range pairs {
			recordPair(res, pr.Old, pr.New)
			matchedOld[pr.Old] = true
			matchedNew[pr.New] = true
		}
	}

	for _, fn := range oldList {
		if !matchedOld[fn.Node] {
			oldRem = append(oldRem, fn)
		}
	}
	for _, fn := range newList {
		if !matchedNew[fn.Node] {
			newRem = append(newRem, fn)
		}
	}
	return oldRem, newRem
}

// matchCrossRoleSameName covers the rare reparenting-across-semantics case:
// role differs but the normalized name agrees exactly and levels match
// (cost 2, the only way a role mismatch can stay under rejectCost).
func matchCrossRoleSameName(oldList, newList []*model.FlatNode, res *Result) (oldRem, newRem []*model.FlatNode) {
	matchedOld := map[*model.Node]bool{}
	matchedNew := map[*model.Node]bool{}

	byName := map[string][]*model.FlatNode{}
	for _, fn := range oldList {
		if fn.Identity.NormalizedName == "" {
			continue
		}
		byName[fn.Identity.NormalizedName] = append(byName[fn.Identity.NormalizedName], fn)
	}
	for _, nfn := range newList {
		if nfn.Identity.NormalizedName == "" {
			continue
		}
		bucket := byName[nfn.Identity.NormalizedName]
		for i, ofn := range bucket {
			if ofn.Identity.Role == nfn.Identity.Role {
				continue // same-role already handled by Pass B proper
			}
			if ofn.Identity.Level != nfn.Identity.Level {
				continue
			}
			recordPair(res, ofn.Node, nfn.Node)
			matchedOld[ofn.Node] = true
			matchedNew[nfn.Node] = true
			byName[nfn.Identity.NormalizedName] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}

	for _, fn := range oldList {
		if !matchedOld[fn.Node] {
			oldRem = append(oldRem, fn)
		}
	}
	for _, fn := range newList {
		if !matchedNew[fn.Node] {
			newRem = append(newRem, fn)
		}
	}
	return oldRem, newRem
}

type bucketPair struct {
	Old, New *model.Node
}

// matchBucket matches two same-role candidate lists by cost, using Hungarian
// refinement when small enough, otherwise a greedy ascending-cost pass.
func matchBucket(oldBucket, newBucket []*model.FlatNode, costFn func(o, n *model.FlatNode) int) []bucketPair {
	if len(oldBucket) <= hungarianCap && len(newBucket) <= hungarianCap {
		return matchBucketHungarian(oldBucket, newBucket, costFn)
	}
	return matchBucketGreedy(oldBucket, newBucket, costFn)
}

func matchBucketHungarian(oldBucket, newBucket []*model.FlatNode, costFn func(o, n *model.FlatNode) int) []bucketPair {
	n := len(oldBucket)
	m := len(newBucket)
	size := n
	if m > size {
		size = m
	}
	const sentinel = 1000.0
	cost := make([][]float64, size)
	for i := range cost {
		cost[i] = make([]float64, size)
		for j := range cost[i] {
			cost[i][j] = sentinel
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			cost[i][j] = float64(costFn(oldBucket[i], newBucket[j]))
		}
	}
	assignment := solveAssignment(cost)
	var out []bucketPair
	for i, j := range assignment {
		if i >= n || j < 0 || j >= m {
			continue
		}
		if cost[i][j] >= rejectCost {
			continue
		}
		out = append(out, bucketPair{Old: oldBucket[i].Node, New: newBucket[j].Node})
	}
	return out
}

func matchBucketGreedy(oldBucket, newBucket []*model.FlatNode, costFn func(o, n *model.FlatNode) int) []bucketPair {
	type cand struct {
		i, j int
		cost int
	}
	var cands []cand
	for i, o := range oldBucket {
		for j, n := range newBucket {
			c := costFn(o, n)
			if c < rejectCost {
				cands = append(cands, cand{i, j, c})
			}
		}
	}
	// Sort ascending by cost; bucket sizes here are only the ones too large
	// for Hungarian, still bounded by page size.
	slices.SortFunc(cands, func(a, b cand) int { return a.cost - b.cost })
	usedOld := map[int]bool{}
	usedNew := map[int]bool{}
	var out []bucketPair
	for _, c := range cands {
		if usedOld[c.i] || usedNew[c.j] {
			continue
		}
		usedOld[c.i] = true
		usedNew[c.j] = true
		out = append(out, bucketPair{Old: oldBucket[c.i].Node, New: newBucket[c.j].Node})
	}
	return out
}

// sameRoleCost implements §4.6's cost table for a pair known to share a
// role (the role-agrees branch).
func sameRoleCost(o, n *model.FlatNode) int {
	cost := 0
	oldName, newName := o.Identity.NormalizedName, n.Identity.NormalizedName
	switch {
	case oldName == newName:
		cost = 0
	case editDistanceLE2(oldName, newName) || isPrefix(oldName, newName):
		cost = 1
	default:
		cost = 2
	}
	if o.Identity.Level != n.Identity.Level {
		cost++
	}
	return cost
}

func isPrefix(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.HasPrefix(a, b) || strings.HasPrefix(b, a)
}

// editDistanceLE2 reports whether the Levenshtein distance between a and b
// is at most 2; it computes the full distance and compares it.
func editDistanceLE2(a, b string) bool {
	return levenshtein(a, b) <= 2
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}
