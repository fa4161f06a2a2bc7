package letter

// DetectGroups partitions a page sequence into letter groups using the
// "Page X of Y" footer counters. Both the splitter and the padder consume
// this single implementation so letter boundaries always line up between the
// individual files and the padded document.
//
// Behavior carried over from the original batch processor, intentionally
// including its quirks:
//   - a marker with current == 1 starts a new group and silently discards
//     any accumulated pages from a group that was never closed;
//   - a marker with total == 1 emits a single-page group immediately;
//   - a continuation page closes the group when its own marker reads
//     current == total; the total remembered from the group's first page is
//     not consulted and group length is not cross-checked against it;
//   - markerless pages extend an open group, and are dropped when no group
//     is open;
//   - a non-empty accumulator at end of input is emitted as a final group
//     even if its counter sequence never completed.
func DetectGroups(pages []Page) []Group {
	var groups []Group
	var acc []Page

	for _, page := range pages {
		marker, ok := ParseFooterMarker(page.Text)
		if !ok {
			if len(acc) > 0 {
				acc = append(acc, page)
			}
			continue
		}

		if marker.Current == 1 {
			acc = []Page{page}
			if marker.Total == 1 {
				groups = append(groups, Group{Pages: acc})
				acc = nil
			}
			continue
		}

		acc = append(acc, page)
		if marker.Current == marker.Total {
			groups = append(groups, Group{Pages: acc})
			acc = nil
		}
	}

	if len(acc) > 0 {
		groups = append(groups, Group{Pages: acc})
	}

	return groups
}
