package letter

import (
	"testing"
)

// textPages builds a page sequence from raw page texts, numbered 1..n.
func textPages(texts ...string) []Page {
	pages := make([]Page, len(texts))
	for i, text := range texts {
		pages[i] = Page{Number: i + 1, Text: text}
	}
	return pages
}

func groupNumbers(groups []Group) [][]int {
	nums := make([][]int, len(groups))
	for i, g := range groups {
		nums[i] = g.PageNumbers()
	}
	return nums
}

func sameGroups(a, b [][]int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

func TestDetectGroups(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  [][]int
	}{
		{
			name:  "single one-page letter",
			texts: []string{"Page 1 of 1"},
			want:  [][]int{{1}},
		},
		{
			name:  "one three-page letter",
			texts: []string{"Page 1 of 3", "Page 2 of 3", "Page 3 of 3"},
			want:  [][]int{{1, 2, 3}},
		},
		{
			name: "multiple letters partition the input in order",
			texts: []string{
				"Page 1 of 2", "Page 2 of 2",
				"Page 1 of 1",
				"Page 1 of 3", "Page 2 of 3", "Page 3 of 3",
			},
			want: [][]int{{1, 2}, {3}, {4, 5, 6}},
		},
		{
			name: "unclosed group is silently discarded by a new page 1 marker",
			texts: []string{
				"Page 1 of 3", "Page 2 of 3",
				"Page 1 of 1",
			},
			want: [][]int{{3}},
		},
		{
			name: "markerless page extends the open group",
			texts: []string{
				"Page 1 of 2", "no footer here", "Page 2 of 2",
			},
			want: [][]int{{1, 2, 3}},
		},
		{
			name: "markerless pages with no open group are dropped",
			texts: []string{
				"no footer", "Page 1 of 1", "trailing junk",
			},
			want: [][]int{{2}},
		},
		{
			name: "trailing unclosed group is emitted at end of input",
			texts: []string{
				"Page 1 of 1",
				"Page 1 of 3", "Page 2 of 3",
			},
			want: [][]int{{1}, {2, 3}},
		},
		{
			name: "markerless tail after a closed group is emitted once",
			texts: []string{
				"Page 1 of 2", "Page 2 of 2",
				// no markers from here on, but the closed group reopened
				// nothing, so these only survive via the end-of-input rule
				// once a continuation marker opens an accumulator
				"Page 2 of 9", "appendix A", "appendix B",
			},
			want: [][]int{{1, 2}, {3, 4, 5}},
		},
		{
			name: "continuation trusts its own marker total",
			texts: []string{
				"Page 1 of 3", "Page 2 of 2",
			},
			want: [][]int{{1, 2}},
		},
		{
			name: "counters are not validated against group length",
			texts: []string{
				"Page 1 of 3", "Page 3 of 3",
			},
			want: [][]int{{1, 2}},
		},
		{
			name:  "empty input",
			texts: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := groupNumbers(DetectGroups(textPages(tt.texts...)))
			if !sameGroups(got, tt.want) {
				t.Errorf("DetectGroups() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectGroupsPartitionProperty(t *testing.T) {
	// Concatenating the emitted groups reproduces the original page order,
	// minus only pages dropped by the documented rules.
	texts := []string{
		"Page 1 of 2", "Page 2 of 2",
		"orphan without footer", // dropped: no open group
		"Page 1 of 1",
		"Page 1 of 4", "Page 2 of 4", // discarded: next page 1 marker
		"Page 1 of 2", "Page 2 of 2",
	}
	groups := DetectGroups(textPages(texts...))

	var flat []int
	for _, g := range groups {
		flat = append(flat, g.PageNumbers()...)
	}

	want := []int{1, 2, 4, 7, 8}
	if len(flat) != len(want) {
		t.Fatalf("flattened groups = %v, want %v", flat, want)
	}
	for i := range want {
		if flat[i] != want[i] {
			t.Fatalf("flattened groups = %v, want %v", flat, want)
		}
	}
}
