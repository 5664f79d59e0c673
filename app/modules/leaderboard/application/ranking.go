package leaderboardservice

import (
	"context"
	"sort"
	"strconv"
)

// GetAnnualRanking returns every registered player for the year ordered by
// total points, then current handicap, then name. Ranks are positional.
func (s *LeaderboardService) GetAnnualRanking(ctx context.Context, year int) ([]AnnualRankingEntry, error) {
	return withTelemetry(s, ctx, "GetAnnualRanking", strconv.Itoa(year), func(ctx context.Context) ([]AnnualRankingEntry, error) {
		if err := validateYear(year); err != nil {
			return nil, err
		}

		standings, err := s.repo.ListAnnualStandings(ctx, s.idb(), year)
		if err != nil {
			return nil, err
		}

		entries := make([]AnnualRankingEntry, len(standings))
		for i, st := range standings {
			entries[i] = AnnualRankingEntry{
				PlayerID:           st.PlayerID,
				Name:               st.Name,
				Gender:             st.Gender,
				BirthYear:          st.BirthYear,
				InitialHandicap:    st.InitialHandicap,
				CurrentHandicap:    st.CurrentHandicap,
				TotalPoints:        st.TotalPoints,
				ParticipationCount: st.ParticipationCount,
			}
		}
		sortAnnual(entries)
		for i := range entries {
			entries[i].Rank = i + 1
		}
		return entries, nil
	})
}

// sortAnnual orders by points desc, current handicap asc, name asc.
func sortAnnual(entries []AnnualRankingEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if c := a.CurrentHandicap.Cmp(b.CurrentHandicap); c != 0 {
			return c < 0
		}
		return a.Name < b.Name
	})
}
