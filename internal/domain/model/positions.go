package model

import "sort"

// Position slot identifiers.
const (
	Pos1 = "pos_1"
	Pos2 = "pos_2"
	Pos3 = "pos_3"
	Pos4 = "pos_4"
	Pos5 = "pos_5"
)

// Positions maps a position slot to an aptitude weight, nominally in [0,100].
type Positions map[string]float64

// Keys returns the position slots in ascending order.
func (p Positions) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Primary returns the slot with the highest weight together with the top and
// second-highest weights (both floored at zero). Slots are scanned in
// ascending key order, so on equal weights the lowest slot wins and the tie
// shows up as the second value. ok is false when there are no positions.
func (p Positions) Primary() (slot string, top, second float64, ok bool) {
	top, second = -1, -1
	for _, k := range p.Keys() {
		v := p[k]
		switch {
		case v > top:
			second = top
			top = v
			slot = k
			ok = true
		case v > second:
			second = v
		}
	}
	if !ok {
		return "", 0, 0, false
	}
	return slot, max(top, 0), max(second, 0), true
}

// IsSupportSlot reports whether slot is one of the two support lanes.
func IsSupportSlot(slot string) bool {
	return slot == Pos4 || slot == Pos5
}
