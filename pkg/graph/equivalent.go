package graph

// Equivalent reports whether two snapshots describe the same structure:
// the same element names and, per element, the same ordered sockets
// (name and direction) with the same peers. Element order, kinds and caps
// are ignored.
func Equivalent(a, b *Snapshot) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := range a.Len() {
		ea := a.Element(ElementID(i))
		id, ok := b.Lookup(ea.Name)
		if !ok {
			return false
		}
		eb := b.Element(id)
		if len(ea.Sockets) != len(eb.Sockets) {
			return false
		}
		for j := range ea.Sockets {
			sa, sb := &ea.Sockets[j], &eb.Sockets[j]
			if sa.Name != sb.Name || sa.Direction != sb.Direction || sa.Peer != sb.Peer {
				return false
			}
		}
	}
	return true
}

// SameOrder reports whether both snapshots list element names in the same
// sequence.
func SameOrder(a, b *Snapshot) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := range a.Len() {
		if a.Element(ElementID(i)).Name != b.Element(ElementID(i)).Name {
			return false
		}
	}
	return true
}
