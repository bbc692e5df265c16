package scan

import "github.com/stashkeep/recordpipe"

// PlanSegments splits the inclusive ID range [lo, hi] into at most segments
// contiguous, disjoint half-open ranges that together cover it. Assignment is
// deterministic: segment i covers the i-th slice of the range, with any
// remainder spread across the leading segments. A range narrower than the
// requested segment count yields fewer segments, never empty ones.
func PlanSegments(lo, hi int64, segments int) []recordpipe.Segment {
	if segments < 1 || hi < lo {
		return nil
	}

	total := hi - lo + 1
	if int64(segments) > total {
		segments = int(total)
	}

	size := total / int64(segments)
	remainder := total % int64(segments)

	plan := make([]recordpipe.Segment, 0, segments)
	cursor := lo
	for i := range segments {
		width := size
		if int64(i) < remainder {
			width++
		}
		plan = append(plan, recordpipe.Segment{Lo: cursor, Hi: cursor + width})
		cursor += width
	}
	return plan
}
