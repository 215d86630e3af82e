package fix

import (
	"cmp"
	"fmt"
	"slices"
)

// RangeError describes an edit whose range does not fit the document.
type RangeError struct {
	Edit   TextEdit
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("edit [%d:%d]: %s", e.Edit.StartOffset, e.Edit.EndOffset, e.Reason)
}

// OverlapError describes two edits covering the same bytes. Invocations
// never nest, so this indicates a bug in the caller.
type OverlapError struct {
	First  TextEdit
	Second TextEdit
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("edits overlap: [%d:%d] and [%d:%d]",
		e.First.StartOffset, e.First.EndOffset,
		e.Second.StartOffset, e.Second.EndOffset)
}

// ValidateEdits checks every edit range against the document length.
func ValidateEdits(edits []TextEdit, contentLen int) error {
	for _, e := range edits {
		switch {
		case e.StartOffset < 0:
			return &RangeError{Edit: e, Reason: "negative start"}
		case e.EndOffset < e.StartOffset:
			return &RangeError{Edit: e, Reason: "end before start"}
		case e.EndOffset > contentLen:
			return &RangeError{Edit: e, Reason: fmt.Sprintf("end past document length %d", contentLen)}
		}
	}
	return nil
}

// SortEdits orders edits by start offset, then end offset.
func SortEdits(edits []TextEdit) {
	slices.SortStableFunc(edits, func(a, b TextEdit) int {
		if c := cmp.Compare(a.StartOffset, b.StartOffset); c != 0 {
			return c
		}
		return cmp.Compare(a.EndOffset, b.EndOffset)
	})
}

// DetectConflicts reports the first pair of overlapping edits in a sorted
// slice. Adjacent edits do not overlap.
func DetectConflicts(edits []TextEdit) error {
	for i := 1; i < len(edits); i++ {
		if edits[i].StartOffset < edits[i-1].EndOffset {
			return &OverlapError{First: edits[i-1], Second: edits[i]}
		}
	}
	return nil
}

// PrepareEdits returns a validated, sorted copy of edits ready for
// ApplyEdits.
func PrepareEdits(edits []TextEdit, contentLen int) ([]TextEdit, error) {
	if len(edits) == 0 {
		return edits, nil
	}

	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, err
	}

	sorted := slices.Clone(edits)
	SortEdits(sorted)

	if err := DetectConflicts(sorted); err != nil {
		return nil, err
	}

	return sorted, nil
}
