package assess

import (
	"context"
	"fmt"

	"github.com/LeJamon/goHederad/internal/core/customfee"
	"github.com/LeJamon/goHederad/internal/core/types"
)

// ScheduleSource returns the current fee schedule of a token. A token that
// does not exist must be reported as customfee.MissingMeta, not as an error.
type ScheduleSource interface {
	LookupMetaFor(ctx context.Context, token types.TokenID) (*customfee.Meta, error)
}

// SchedulesManager memoizes schedule lookups for the duration of one
// assessment, so every trigger sees the same snapshot of each token.
type SchedulesManager struct {
	source  ScheduleSource
	byToken map[types.TokenID]*customfee.Meta
	order   []types.TokenID
}

// NewSchedulesManager returns an empty cache over source
func NewSchedulesManager(source ScheduleSource) *SchedulesManager {
	return &SchedulesManager{
		source:  source,
		byToken: make(map[types.TokenID]*customfee.Meta),
	}
}

// ManagedSchedulesFor returns the schedule of token, fetching it on first use
func (s *SchedulesManager) ManagedSchedulesFor(ctx context.Context, token types.TokenID) (*customfee.Meta, error) {
	if meta, ok := s.byToken[token]; ok {
		return meta, nil
	}
	meta, err := s.source.LookupMetaFor(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up fee schedule of %s: %w", token, err)
	}
	if meta == nil {
		meta = customfee.MissingMeta(token)
	}
	s.byToken[token] = meta
	s.order = append(s.order, token)
	return meta, nil
}

// FinalManagedSchedules returns every consulted schedule in first-requested order
func (s *SchedulesManager) FinalManagedSchedules() []*customfee.Meta {
	out := make([]*customfee.Meta, 0, len(s.order))
	for _, token := range s.order {
		out = append(out, s.byToken[token])
	}
	return out
}
