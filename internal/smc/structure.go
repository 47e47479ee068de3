package smc

// Label tags a swing pivot relative to the previous pivot of the same kind.
type Label string

const (
	HH Label = "HH"
	LH Label = "LH"
	HL Label = "HL"
	LL Label = "LL"
)

// SwingTag is a labelled pivot.
type SwingTag struct {
	Index int       `json:"index"`
	Kind  PivotKind `json:"kind"`
	Label Label     `json:"label"`
	Price float64   `json:"price"`
}

// LabelSwings tags each High pivot HH when it exceeds the previous High pivot
// and LH otherwise; Low pivots are HL when above the previous Low pivot and
// LL otherwise. The first pivot of each kind has no predecessor and so falls
// into LH or HL respectively.
func LabelSwings(pivots []Pivot) []SwingTag {
	out := make([]SwingTag, 0, len(pivots))
	lastHigh, lastLow := -1, -1
	for i, p := range pivots {
		tag := SwingTag{Index: p.Index, Kind: p.Kind, Price: p.Price}
		switch p.Kind {
		case High:
			tag.Label = LH
			if lastHigh >= 0 && p.Price > pivots[lastHigh].Price {
				tag.Label = HH
			}
			lastHigh = i
		case Low:
			tag.Label = LL
			if lastLow < 0 || p.Price > pivots[lastLow].Price {
				tag.Label = HL
			}
			lastLow = i
		}
		out = append(out, tag)
	}
	return out
}

// EventType classifies a structure event.
type EventType string

const (
	BOSUp     EventType = "BOS_UP"
	BOSDown   EventType = "BOS_DOWN"
	CHOCHUp   EventType = "CHOCH_UP"
	CHOCHDown EventType = "CHOCH_DOWN"
)

// StructureEvent is a break-of-structure or change-of-character at a pivot.
type StructureEvent struct {
	Index int       `json:"index"`
	Type  EventType `json:"type"`
}

// StructureEvents walks the tags in order. The first High-side tag emits
// CHOCH_UP and every later one BOS_UP; the first Low-side tag emits
// CHOCH_DOWN and every later one BOS_DOWN.
func StructureEvents(tags []SwingTag) []StructureEvent {
	out := make([]StructureEvent, 0, len(tags))
	seenHigh, seenLow := false, false
	for _, t := range tags {
		ev := StructureEvent{Index: t.Index}
		if t.Kind == High {
			ev.Type = CHOCHUp
			if seenHigh {
				ev.Type = BOSUp
			}
			seenHigh = true
		} else {
			ev.Type = CHOCHDown
			if seenLow {
				ev.Type = BOSDown
			}
			seenLow = true
		}
		out = append(out, ev)
	}
	return out
}
