package services

import (
	"sort"

	"github.com/greenpulse/sustainability-api/internal/models"
)

// SelectWinner ranks pending candidates by vote count and picks the winner.
// Ties break on earliest creation time, then lowest ID, so the result is
// deterministic for any input order. Returns nil for an empty candidate set.
func SelectWinner(candidates []models.Initiative, voteCounts map[uint64]int64) *models.Initiative {
	if len(candidates) == 0 {
		return nil
	}

	ranked := make([]models.Initiative, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		ci, cj := voteCounts[ranked[i].ID], voteCounts[ranked[j].ID]
		if ci != cj {
			return ci > cj
		}
		if !ranked[i].CreatedAt.Equal(ranked[j].CreatedAt) {
			return ranked[i].CreatedAt.Before(ranked[j].CreatedAt)
		}
		return ranked[i].ID < ranked[j].ID
	})

	winner := ranked[0]
	return &winner
}
