// Package fix applies byte-range replacements to a document and describes
// the result as a unified diff.
package fix

// TextEdit replaces the bytes [StartOffset, EndOffset) of the original
// document with NewText.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string
}

// Delta is the change in document length caused by the edit.
func (e TextEdit) Delta() int {
	return len(e.NewText) - (e.EndOffset - e.StartOffset)
}

// EditBuilder accumulates the edits for one document.
type EditBuilder struct {
	Edits []TextEdit
}

// NewEditBuilder creates an empty EditBuilder.
func NewEditBuilder() *EditBuilder {
	return &EditBuilder{
		Edits: make([]TextEdit, 0),
	}
}

// ReplaceRange adds an edit that replaces bytes [start, end) with newText.
// Replacing a range with identical text is recorded as well; ApplyEdits
// leaves such regions byte-identical.
func (b *EditBuilder) ReplaceRange(start, end int, newText string) {
	b.Edits = append(b.Edits, TextEdit{
		StartOffset: start,
		EndOffset:   end,
		NewText:     newText,
	})
}

// Len returns the number of recorded edits.
func (b *EditBuilder) Len() int {
	return len(b.Edits)
}
