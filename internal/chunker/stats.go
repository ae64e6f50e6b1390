package chunker

import "log/slog"

// Stats summarises a chunk sequence's size distribution. Small, Medium and
// Large count chunks under 1000 characters, under 5000, and the rest.
type Stats struct {
	Count           int     `json:"count"`
	TotalChars      int     `json:"total_chars"`
	AvgChars        float64 `json:"avg_chars"`
	MinChars        int     `json:"min_chars"`
	MaxChars        int     `json:"max_chars"`
	Small           int     `json:"under_1k"`
	Medium          int     `json:"from_1k_5k"`
	Large           int     `json:"over_5k"`
	EstimatedTokens int     `json:"estimated_tokens"`
}

// ComputeStats measures chunks. The zero Stats is returned for no chunks.
func ComputeStats(chunks []string) Stats {
	var s Stats
	for i, c := range chunks {
		n := charLen(c)
		s.Count++
		s.TotalChars += n
		s.EstimatedTokens += EstimateTokens(c)
		if i == 0 || n < s.MinChars {
			s.MinChars = n
		}
		if n > s.MaxChars {
			s.MaxChars = n
		}
		switch {
		case n < 1000:
			s.Small++
		case n < 5000:
			s.Medium++
		default:
			s.Large++
		}
	}
	if s.Count > 0 {
		s.AvgChars = float64(s.TotalChars) / float64(s.Count)
	}
	return s
}

// LogValue renders the stats as a single structured log group.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("count", s.Count),
		slog.Int("avg_chars", int(s.AvgChars+0.5)),
		slog.Int("min_chars", s.MinChars),
		slog.Int("max_chars", s.MaxChars),
		slog.Int("under_1k", s.Small),
		slog.Int("from_1k_5k", s.Medium),
		slog.Int("over_5k", s.Large),
		slog.Int("estimated_tokens", s.EstimatedTokens),
	)
}
