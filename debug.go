package cove

import "time"

// debugStats holds per-update metrics. Only populated when Session.debug is
// true.
type debugStats struct {
	updateTime time.Duration
	cards      int
	visible    int
	mode       string
	pending    int
}

// debugLog reports update stats at debug level.
func (s *Session) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	s.logger.Debug("update",
		"time", stats.updateTime,
		"cards", stats.cards,
		"visible", stats.visible,
		"mode", stats.mode,
		"pending", stats.pending,
	)
}

// debugMaxCards is the card count above which a warning is logged once.
const debugMaxCards = 1000

// debugCheckCardCount warns when the store grows past debugMaxCards.
func (s *Session) debugCheckCardCount() {
	if s.debug && s.store.Len() == debugMaxCards+1 {
		s.logger.Warn("card count exceeds threshold", "cards", s.store.Len(), "threshold", debugMaxCards)
	}
}
