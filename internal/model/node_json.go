package model

import (
	"encoding/json"

	"golang.org/x/exp/slices"
)

// nodeWire is Node's JSON projection: golang-set's Set doesn't round-trip
// through encoding/json on its own, so State is flattened to a sorted slice
// for a stable, diffable wire representation.
type nodeWire struct {
	Role        Role       `json:"role"`
	Name        string     `json:"name"`
	Value       string     `json:"value,omitempty"`
	State       []StateFlag `json:"state,omitempty"`
	Level       int        `json:"level,omitempty"`
	Children    []*Node    `json:"children,omitempty"`
	Origin      Origin     `json:"origin"`
	Bounds      *Bounds    `json:"bounds,omitempty"`
	Ref         string     `json:"ref,omitempty"`
	VisionToken []byte     `json:"vision_token,omitempty"`
	Fingerprint string     `json:"fingerprint,omitempty"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	w := nodeWire{
		Role:        n.Role,
		Name:        n.Name,
		Value:       n.Value,
		Level:       n.Level,
		Children:    n.Children,
		Origin:      n.Origin,
		Bounds:      n.Bounds,
		Ref:         n.Ref,
		VisionToken: n.VisionToken,
		Fingerprint: n.fingerprint,
	}
	if n.State != nil && n.State.Cardinality() > 0 {
		flags := n.State.ToSlice()
		slices.Sort(flags)
		w.State = flags
	}
	return json.Marshal(w)
}

func (n *Node) UnmarshalJSON(data []byte) error {
	var w nodeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	n.Role = w.Role
	n.Name = w.Name
	n.Value = w.Value
	n.Level = w.Level
	n.Children = w.Children
	n.Origin = w.Origin
	n.Bounds = w.Bounds
	n.Ref = w.Ref
	n.VisionToken = w.VisionToken
	n.fingerprint = w.Fingerprint
	if len(w.State) > 0 {
		n.State = NewStateSet(w.State...)
	}
	return nil
}
