// Package marshal turns a transfer instruction into the full list of balance
// changes it implies once every triggered custom fee has been charged.
package marshal

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/LeJamon/goHederad/internal/core/assess"
	"github.com/LeJamon/goHederad/internal/core/balance"
	"github.com/LeJamon/goHederad/internal/core/customfee"
	"github.com/LeJamon/goHederad/internal/core/status"
	"github.com/LeJamon/goHederad/internal/core/types"
)

// Observer is notified of every finished assessment.
type Observer interface {
	ObserveAssessment(code status.ResponseCode, fees []customfee.AssessedCustomFee, elapsed time.Duration)
}

// Option configures a Marshal.
type Option func(*Marshal)

// WithLogger sets the logger outcomes are reported to
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Marshal) {
		m.logger = logger
	}
}

// WithObserver sets an observer of finished assessments
func WithObserver(obs Observer) Option {
	return func(m *Marshal) {
		m.observer = obs
	}
}

// Marshal assesses transfers against fee schedules and an alias index. It
// holds no per-assessment state and is safe for concurrent use as long as
// its collaborators are.
type Marshal struct {
	aliases   AliasIndex
	schedules assess.ScheduleSource
	props     ValidationProps

	checks   PureChecks
	assessor *assess.FeeAssessor

	logger   zerolog.Logger
	observer Observer
}

// NewMarshal creates a Marshal with the given collaborators and limits.
func NewMarshal(aliases AliasIndex, schedules assess.ScheduleSource, props ValidationProps, opts ...Option) *Marshal {
	m := &Marshal{
		aliases:   aliases,
		schedules: schedules,
		props:     props,
		assessor:  assess.NewFeeAssessor(),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Props returns the validation props assessments are made with
func (m *Marshal) Props() ValidationProps {
	return m.props
}

// Unmarshal validates op, resolves its aliases and charges every custom fee
// it triggers. The outcome is always reported in the result's code. A non-nil
// error means a collaborator failed, in which case the code is FailInvalid.
func (m *Marshal) Unmarshal(ctx context.Context, op types.TransferInstruction, payer types.AccountID) (*ImpliedTransfers, error) {
	start := time.Now()
	it, err := m.assessCustomFeesAndValidate(ctx, op, payer)
	elapsed := time.Since(start)

	if err != nil {
		m.logger.Error().Err(err).Str("payer", payer.String()).Msg("Assessment aborted")
	} else {
		m.logger.Debug().
			Str("payer", payer.String()).
			Str("code", it.Code().String()).
			Int("changes", len(it.Changes)).
			Int("assessed_fees", len(it.AssessedFees)).
			Int("schedules", len(it.Meta.CustomFeeMeta)).
			Dur("elapsed", elapsed).
			Msg("Assessed transfer")
	}
	if m.observer != nil {
		m.observer.ObserveAssessment(it.Code(), it.AssessedFees, elapsed)
	}
	return it, err
}

func (m *Marshal) assessCustomFeesAndValidate(ctx context.Context, op types.TransferInstruction, payer types.AccountID) (*ImpliedTransfers, error) {
	props := m.props

	if code := m.checks.FullPureValidation(op, props); code != status.OK {
		return invalid(props, code, nil, nil), nil
	}

	var resolver *AliasResolver
	if op.HasAliases() {
		resolver = NewAliasResolver()
		resolved, err := resolver.Resolve(ctx, op, m.aliases)
		if err != nil {
			return invalid(props, status.FailInvalid, nil, resolver), err
		}
		if code := aliasOutcome(resolver, props); code != status.OK {
			return invalid(props, code, nil, resolver), nil
		}
		op = resolved
	}

	changes, numHbar, code := balanceChangesFrom(op, payer)
	if code != status.OK {
		return invalid(props, code, nil, resolver), nil
	}
	if numHbar == len(changes) {
		return valid(props, changes, nil, nil, resolver), nil
	}

	ledger := balance.NewChangeManager(changes, numHbar)
	schedules := assess.NewSchedulesManager(m.schedules)
	var fees []customfee.AssessedCustomFee
	limits := props.Limits()

	for trigger := ledger.NextTriggerCandidate(); trigger != nil; trigger = ledger.NextTriggerCandidate() {
		code, err := m.assessor.Assess(ctx, trigger, schedules, ledger, &fees, limits)
		if err != nil {
			return invalid(props, status.FailInvalid, schedules.FinalManagedSchedules(), resolver), err
		}
		if code != status.OK {
			return invalid(props, code, schedules.FinalManagedSchedules(), resolver), nil
		}
	}
	return valid(props, ledger.ChangesSoFar(), schedules.FinalManagedSchedules(), fees, resolver), nil
}

func aliasOutcome(r *AliasResolver, props ValidationProps) status.ResponseCode {
	switch {
	case r.PerceivedAutoCreations() > 0 && !props.IsAutoCreationEnabled:
		return status.NotSupported
	case r.PerceivedLazyCreations() > 0 && !props.IsLazyCreationEnabled:
		return status.NotSupported
	case r.PerceivedMissing() > 0:
		return status.InvalidAccountID
	case r.PerceivedInvalidCreations() > 0:
		return status.InvalidAliasKey
	default:
		return status.OK
	}
}

type refKey struct {
	ref   types.AccountRef
	token types.TokenID
}

// balanceChangesFrom expands op into hbar changes followed by token changes.
// Adjustments to the same account and denomination are aggregated in order
// of first appearance.
func balanceChangesFrom(op types.TransferInstruction, payer types.AccountID) ([]*balance.Change, int, status.ResponseCode) {
	var changes []*balance.Change
	seen := make(map[refKey]*balance.Change)

	aggregate := func(aa types.AccountAmount, token types.TokenID, decimals *uint32) status.ResponseCode {
		k := refKey{ref: aa.Account, token: token}
		if existing, ok := seen[k]; ok {
			if aa.IsApproval {
				if err := existing.AggregateAllowanceUnits(aa.Amount); err != nil {
					return status.CustomFeeOutsideNumericRange
				}
			}
			if err := existing.AggregateUnits(aa.Amount); err != nil {
				return status.CustomFeeOutsideNumericRange
			}
			return status.OK
		}
		var c *balance.Change
		if token.IsHbar() {
			c = balance.NewHbarChange(aa.Account.ID, aa.Account.Alias, aa.Amount, aa.IsApproval, payer)
		} else {
			c = balance.NewTokenChange(aa.Account.ID, aa.Account.Alias, token, aa.Amount, aa.IsApproval, payer)
			if decimals != nil {
				c.SetExpectedDecimals(*decimals)
			}
		}
		seen[k] = c
		changes = append(changes, c)
		return status.OK
	}

	for _, aa := range op.HbarAdjusts {
		if code := aggregate(aa, types.Hbar, nil); code != status.OK {
			return nil, 0, code
		}
	}
	numHbar := len(changes)

	for _, list := range op.TokenTransfers {
		for _, aa := range list.Transfers {
			if code := aggregate(aa, list.Token, list.ExpectedDecimals); code != status.OK {
				return nil, 0, code
			}
		}
		for _, nt := range list.NftTransfers {
			changes = append(changes, balance.NewNftChange(
				list.Token, nt.Sender, nt.Receiver, nt.SerialNo, nt.IsApproval, payer))
		}
	}
	return changes, numHbar, status.OK
}
