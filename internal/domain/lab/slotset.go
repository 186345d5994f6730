package lab

// SlotSet is an ordered, duplicate-free set of time-slot labels. Order always
// follows the owning lab's grid so that persisted slot lists compare equal
// regardless of the order the caller submitted them in.
type SlotSet struct {
	labels []string
}

// NewSlotSet builds a SlotSet from raw labels, dropping duplicates while
// preserving first-seen order. Used when reconstructing from storage, where
// the list was already normalized against the lab grid at write time.
func NewSlotSet(labels []string) SlotSet {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return SlotSet{labels: out}
}

func (s SlotSet) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

func (s SlotSet) Len() int {
	return len(s.labels)
}

func (s SlotSet) IsEmpty() bool {
	return len(s.labels) == 0
}

func (s SlotSet) Contains(label string) bool {
	for _, l := range s.labels {
		if l == label {
			return true
		}
	}
	return false
}

// Intersect reports the first label present in both sets, in this set's order.
func (s SlotSet) Intersect(other SlotSet) (string, bool) {
	for _, l := range s.labels {
		if other.Contains(l) {
			return l, true
		}
	}
	return "", false
}

// Equal compares the two sets ignoring order.
func (s SlotSet) Equal(other SlotSet) bool {
	if len(s.labels) != len(other.labels) {
		return false
	}
	for _, l := range s.labels {
		if !other.Contains(l) {
			return false
		}
	}
	return true
}
