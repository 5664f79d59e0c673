package scoreservice

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	scoredb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/score/infrastructure/repositories"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability/attr"
)

// ImportScorecard parses an uploaded CSV or XLSX card and upserts the
// strokes of every row whose name matches a participant. Unmatched names
// are reported, not rejected.
func (s *ScoreService) ImportScorecard(ctx context.Context, eventID uuid.UUID, filename string, data []byte) (*ImportResult, error) {
	return withTelemetry(s, ctx, "ImportScorecard", eventID.String(), func(ctx context.Context) (*ImportResult, error) {
		parser, err := s.parsers.GetParser(filename)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidScorecard, err)
		}
		card, err := parser.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidScorecard, err)
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (*ImportResult, error) {
			state, err := s.events.GetEventForScoreWrite(ctx, db, eventID)
			if err != nil {
				return nil, err
			}
			if state.IsFinalized {
				return nil, ErrEventFinalized
			}

			byName := make(map[string]uuid.UUID, len(state.Participants))
			for id, name := range state.Participants {
				byName[foldName(name)] = id
			}

			result := &ImportResult{EventID: eventID, MatchedPlayers: []string{}, UnmatchedNames: []string{}}
			var rows []scoredb.Score
			for _, p := range card.Players {
				playerID, ok := byName[foldName(p.PlayerName)]
				if !ok {
					result.UnmatchedNames = append(result.UnmatchedNames, p.PlayerName)
					continue
				}
				result.MatchedPlayers = append(result.MatchedPlayers, state.Participants[playerID])

				holes := make([]int, 0, len(p.Holes))
				for h := range p.Holes {
					holes = append(holes, h)
				}
				sort.Ints(holes)
				for _, h := range holes {
					rows = append(rows, scoredb.Score{
						EventID:    eventID,
						PlayerID:   playerID,
						HoleNumber: h,
						Strokes:    p.Holes[h],
					})
				}
			}

			rows = dedupeRows(rows)
			if err := s.repo.UpsertScores(ctx, db, rows); err != nil {
				return nil, err
			}
			result.HolesWritten = len(rows)

			s.logger.InfoContext(ctx, "Scorecard imported",
				attr.EventID(eventID.String()),
				attr.String("filename", filename),
				attr.Int("holes_written", result.HolesWritten),
				attr.Int("unmatched", len(result.UnmatchedNames)),
				attr.ExtractCorrelationID(ctx),
			)
			return result, nil
		})
	})
}

// foldName compares names case-insensitively and ignores inner whitespace.
func foldName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}

// dedupeRows keeps the last row per player and hole when a card lists a player twice.
func dedupeRows(rows []scoredb.Score) []scoredb.Score {
	in := make([]ScoreInput, len(rows))
	for i, r := range rows {
		in[i] = ScoreInput{EventID: r.EventID, PlayerID: r.PlayerID, HoleNumber: r.HoleNumber, Strokes: r.Strokes, Putts: r.Putts}
	}
	return dedupe(in)
}
