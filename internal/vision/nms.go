package vision

import "sort"

// NonMaxSuppress collapses same-label candidates with geometric overlap at
// or above the IoU threshold, keeping the highest-confidence box of each
// overlapping cluster. Candidates with different labels never suppress each
// other. The result is ordered by confidence descending (ties keep input
// order), and the operation is idempotent: suppressing an already-suppressed
// list returns it unchanged.
func NonMaxSuppress(cands []Candidate, iouThreshold float64) []Candidate {
	if len(cands) <= 1 {
		out := make([]Candidate, len(cands))
		copy(out, cands)
		return out
	}

	ordered := make([]Candidate, len(cands))
	copy(ordered, cands)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Confidence > ordered[j].Confidence
	})

	kept := make([]Candidate, 0, len(ordered))
	for _, c := range ordered {
		suppressed := false
		for _, k := range kept {
			if k.Label == c.Label && k.Region.IoU(c.Region) >= iouThreshold {
				suppressed = true
				break
			}
		}
		if !suppressed {
			kept = append(kept, c)
		}
	}
	return kept
}

// DistinctLabels returns the number of different labels present in the
// candidate list. The pipeline only raises a disambiguation prompt when
// genuinely distinct garments survive suppression, not for duplicate boxes
// on one garment.
func DistinctLabels(cands []Candidate) int {
	seen := make(map[string]struct{}, len(cands))
	for _, c := range cands {
		seen[c.Label] = struct{}{}
	}
	return len(seen)
}
