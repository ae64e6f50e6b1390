package chunker

import "strings"

// splitSurrounding chunks the content outside the detected units: the
// preamble before the first unit and the schedules or appendices from tail
// onwards. A preamble at or below the noise floor is header or blank matter
// and is dropped; tail is only past the last unit when unitEnd carved it out.
func splitSurrounding(text string, bounds []Boundary, tail int, th Thresholds) (preamble, appendix []string) {
	if len(bounds) == 0 {
		return nil, nil
	}

	if pre := strings.TrimSpace(text[:bounds[0].Start]); charLen(pre) > th.NoiseFloor {
		preamble = SplitSections(pre, th.MaxChunkSize, th.NoiseFloor)
	}
	// Carved text is never dropped, so a short intro before the first
	// section heading is kept.
	if app := strings.TrimSpace(text[tail:]); app != "" {
		appendix = SplitSections(app, th.MaxChunkSize, 0)
	}

	return preamble, appendix
}

// unitEnd returns where the last unit's own text stops. Schedules and
// appendices after a SCHEDULE or APPENDIX heading are carved off when they
// are longer than the noise floor; shorter ones stay attached to the unit.
func unitEnd(text string, last Boundary, noiseFloor int) int {
	at := appendixStart(text, last)
	if charLen(strings.TrimSpace(text[at:last.End])) <= noiseFloor {
		return last.End
	}
	return at
}
