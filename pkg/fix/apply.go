package fix

// ApplyEdits applies edits prepared with PrepareEdits to content.
//
// Edits are applied in ascending order to a buffer that changes as it
// goes. Each edit's offsets refer to the original content; a running
// offset holding the summed length change of the edits applied so far
// maps them onto the current buffer. The input slice is never modified.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	buf := make([]byte, len(content))
	copy(buf, content)

	offset := 0
	for _, e := range edits {
		start := e.StartOffset + offset
		end := e.EndOffset + offset

		next := make([]byte, 0, len(buf)+e.Delta())
		next = append(next, buf[:start]...)
		next = append(next, e.NewText...)
		next = append(next, buf[end:]...)
		buf = next

		offset += e.Delta()
	}

	return buf
}
