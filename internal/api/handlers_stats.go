package api

import "net/http"

func (s *Server) handleSegmentStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"thresholds":  s.orchestrator.Chunker().Thresholds(),
		"queue_depth": s.orchestrator.QueueDepth(),
		"stats":       s.orchestrator.SegmentStats().Snapshot(),
	})
}
