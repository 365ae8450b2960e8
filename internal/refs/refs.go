// Package refs implements the Reference Manager (C4): a session-wide
// bijection between semantic node identities and short "@eN" tokens that
// stay stable across observations (§4.4).
package refs

import (
	"strconv"

	"github.com/mkrivchun/browserlens/internal/match"
	"github.com/mkrivchun/browserlens/internal/model"
)

// DefaultSessionCap matches Config's ref_session_cap default (§6).
const DefaultSessionCap = 65535

// Manager allocates and reuses "@eN" refs for one session.
type Manager struct {
	cap    int
	nextID int
	// identityOf tracks, for every ref currently in use, the identity tuple
	// it was first assigned to — invariant 5's "identity monotonicity":
	// this map is write-once per ref.
	identityOf map[string]model.Identity
}

// NewManager builds a Manager capped at sessionCap refs (0 uses the default).
func NewManager(sessionCap int) *Manager {
	if sessionCap <= 0 {
		sessionCap = DefaultSessionCap
	}
	return &Manager{cap: sessionCap, identityOf: map[string]model.Identity{}}
}

// Resolve assigns refs onto every visible node of newTree: a node matched
// (by result) to a previous node reuses that node's ref; everything else
// gets a freshly allocated token (§4.4, steps 1-2). It reports whether the
// session's ref cap was exceeded, in which case it has already compacted by
// rekeying only nodes present in newTree — the caller must force a full
// emission for this step (§4.4, §7 RefOverflow: handled internally).
func (m *Manager) Resolve(result *match.Result, newTree *model.StateTree) (overflowed bool) {
	flat, _ := newTree.Flatten()

	assigned := map[*model.Node]bool{}
	for _, pair := range result.Pairs {
		ref := pair.Old.Ref
		if ref == "" {
			continue
		}
		pair.New.Ref = ref
		assigned[pair.New] = true
	}

	var fresh []*model.FlatNode
	for _, fn := range flat {
		if !assigned[fn.Node] {
			fresh = append(fresh, fn)
		}
	}

	if m.nextID+len(fresh) > m.cap {
		m.compact(flat)
		overflowed = true
		// After compaction every visible node has already been rekeyed
		// from scratch; nothing further to assign.
		return overflowed
	}

	for _, fn := range fresh {
		m.nextID++
		ref := "@e" + strconv.Itoa(m.nextID)
		fn.Node.Ref = ref
		m.identityOf[ref] = fn.Identity
	}
	for _, fn := range flat {
		if fn.Node.Ref != "" {
			if _, ok := m.identityOf[fn.Node.Ref]; !ok {
				m.identityOf[fn.Node.Ref] = fn.Identity
			}
		}
	}
	return false
}

// compact rekeys only the nodes still present in the current tree,
// discarding the rest of the bijection (§4.4 "compacts by rekeying only
// nodes still present in the current tree").
func (m *Manager) compact(flat []*model.FlatNode) {
	newIdentityOf := make(map[string]model.Identity, len(flat))
	m.nextID = 0
	for _, fn := range flat {
		m.nextID++
		ref := "@e" + strconv.Itoa(m.nextID)
		fn.Node.Ref = ref
		newIdentityOf[ref] = fn.Identity
	}
	m.identityOf = newIdentityOf
}

// Reset clears all allocated refs, for Session.Reset() (§6).
func (m *Manager) Reset() {
	m.nextID = 0
	m.identityOf = map[string]model.Identity{}
}

// Cardinality returns the number of refs allocated so far this session.
func (m *Manager) Cardinality() int {
	return m.nextID
}
