package capture

// Buffer is the ordered collection of one cell's outputs.
type Buffer struct {
	items []Item
}

// Append classifies v and adds it to the buffer.
func (b *Buffer) Append(v any) {
	b.items = append(b.items, Classify(v))
}

// Items returns a copy of the captured items in capture order.
func (b *Buffer) Items() []Item {
	out := make([]Item, len(b.items))
	copy(out, b.items)
	return out
}

// Len returns the number of captured items.
func (b *Buffer) Len() int {
	return len(b.items)
}

// Reset empties the buffer for the next cell.
func (b *Buffer) Reset() {
	b.items = nil
}
