package compat

import (
	"cmp"
	"context"
	"slices"

	"golang.org/x/sync/errgroup"
)

// ScoreAll scores self against every candidate concurrently. Results are
// index-aligned with candidates. The only error is ctx's.
func (s *Scorer) ScoreAll(ctx context.Context, self Profile, candidates []Profile) ([]Result, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	results := make([]Result, len(candidates))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for i, c := range candidates {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = s.Score(gCtx, self, c)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Score swallows cancellation, so check once more for a partial batch.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Ranked is a candidate with its quick score.
type Ranked struct {
	Index   int     `json:"index" yaml:"index"`
	Profile Profile `json:"profile" yaml:"profile"`
	Score   int     `json:"score" yaml:"score"`
}

// Rank orders candidates by QuickScore against self, highest first. Ties
// keep their input order.
func Rank(self Profile, candidates []Profile) []Ranked {
	ranked := make([]Ranked, len(candidates))
	for i, c := range candidates {
		ranked[i] = Ranked{Index: i, Profile: c, Score: QuickScore(self, c)}
	}
	slices.SortStableFunc(ranked, func(x, y Ranked) int {
		return cmp.Compare(y.Score, x.Score)
	})
	return ranked
}
