package fix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/maudfmt/pkg/fix"
)

func TestValidateEdits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		edit    fix.TextEdit
		wantErr string
	}{
		{name: "valid", edit: fix.TextEdit{StartOffset: 0, EndOffset: 5}},
		{name: "empty range at end", edit: fix.TextEdit{StartOffset: 10, EndOffset: 10}},
		{name: "negative start", edit: fix.TextEdit{StartOffset: -1, EndOffset: 2}, wantErr: "negative start"},
		{name: "reversed", edit: fix.TextEdit{StartOffset: 4, EndOffset: 2}, wantErr: "end before start"},
		{name: "past end", edit: fix.TextEdit{StartOffset: 0, EndOffset: 11}, wantErr: "end past document length 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fix.ValidateEdits([]fix.TextEdit{tt.edit}, 10)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			var rangeErr *fix.RangeError
			require.ErrorAs(t, err, &rangeErr)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSortEdits(t *testing.T) {
	t.Parallel()

	edits := []fix.TextEdit{
		{StartOffset: 9, EndOffset: 12},
		{StartOffset: 0, EndOffset: 4},
		{StartOffset: 4, EndOffset: 6},
		{StartOffset: 4, EndOffset: 4},
	}
	fix.SortEdits(edits)

	starts := make([][2]int, len(edits))
	for i, e := range edits {
		starts[i] = [2]int{e.StartOffset, e.EndOffset}
	}
	assert.Equal(t, [][2]int{{0, 4}, {4, 4}, {4, 6}, {9, 12}}, starts)
}

func TestDetectConflicts(t *testing.T) {
	t.Parallel()

	t.Run("adjacent edits do not conflict", func(t *testing.T) {
		t.Parallel()

		err := fix.DetectConflicts([]fix.TextEdit{
			{StartOffset: 0, EndOffset: 5},
			{StartOffset: 5, EndOffset: 8},
		})
		assert.NoError(t, err)
	})

	t.Run("overlap is reported", func(t *testing.T) {
		t.Parallel()

		err := fix.DetectConflicts([]fix.TextEdit{
			{StartOffset: 0, EndOffset: 5},
			{StartOffset: 3, EndOffset: 8},
		})

		var overlap *fix.OverlapError
		require.ErrorAs(t, err, &overlap)
		assert.Equal(t, 3, overlap.Second.StartOffset)
		assert.Equal(t, "edits overlap: [0:5] and [3:8]", err.Error())
	})
}

func TestPrepareEdits(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		got, err := fix.PrepareEdits(nil, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("sorts a copy", func(t *testing.T) {
		t.Parallel()

		in := []fix.TextEdit{
			{StartOffset: 6, EndOffset: 8, NewText: "b"},
			{StartOffset: 0, EndOffset: 2, NewText: "a"},
		}
		got, err := fix.PrepareEdits(in, 10)
		require.NoError(t, err)

		assert.Equal(t, "a", got[0].NewText)
		assert.Equal(t, "b", in[0].NewText)
	})

	t.Run("invalid range", func(t *testing.T) {
		t.Parallel()

		_, err := fix.PrepareEdits([]fix.TextEdit{{StartOffset: 0, EndOffset: 20}}, 10)
		assert.Error(t, err)
	})

	t.Run("overlap", func(t *testing.T) {
		t.Parallel()

		_, err := fix.PrepareEdits([]fix.TextEdit{
			{StartOffset: 4, EndOffset: 9},
			{StartOffset: 0, EndOffset: 5},
		}, 10)
		assert.Error(t, err)
	})
}
