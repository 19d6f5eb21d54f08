package assess

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goHederad/internal/core/balance"
	"github.com/LeJamon/goHederad/internal/core/customfee"
	"github.com/LeJamon/goHederad/internal/core/status"
	"github.com/LeJamon/goHederad/internal/core/types"
)

var (
	payer      = types.AccountID{Num: 1001}
	alice      = types.AccountID{Num: 1002}
	bob        = types.AccountID{Num: 1003}
	carol      = types.AccountID{Num: 1004}
	treasury   = types.AccountID{Num: 2}
	collector  = types.AccountID{Num: 98}
	collector2 = types.AccountID{Num: 99}

	fungible = types.TokenID{Num: 5001}
	feeToken = types.TokenID{Num: 5002}
	nonFung  = types.TokenID{Num: 5003}
)

type mapSource struct {
	metas   map[types.TokenID]*customfee.Meta
	lookups int
	err     error
}

func (s *mapSource) LookupMetaFor(_ context.Context, token types.TokenID) (*customfee.Meta, error) {
	s.lookups++
	if s.err != nil {
		return nil, s.err
	}
	if meta, ok := s.metas[token]; ok {
		return meta, nil
	}
	return customfee.MissingMeta(token), nil
}

func fixed(t *testing.T, units int64, denom types.TokenID, to types.AccountID, exempt bool) *customfee.CustomFee {
	t.Helper()
	fee, err := customfee.NewFixedFee(units, denom, to, exempt)
	require.NoError(t, err)
	return fee
}

func fractional(t *testing.T, num, den, minU, maxU int64, net bool, to types.AccountID) *customfee.CustomFee {
	t.Helper()
	fee, err := customfee.NewFractionalFee(num, den, minU, maxU, net, to, false)
	require.NoError(t, err)
	return fee
}

func royalty(t *testing.T, num, den int64, fallback *customfee.FixedFee, to types.AccountID) *customfee.CustomFee {
	t.Helper()
	fee, err := customfee.NewRoyaltyFee(num, den, fallback, to, false)
	require.NoError(t, err)
	return fee
}

func TestFixedFeeAddsExactlyTwoChanges(t *testing.T) {
	fee := fixed(t, 100_000, types.Hbar, collector, false)
	meta := customfee.NewMeta(fungible, treasury, customfee.FungibleCommon, []*customfee.CustomFee{fee})
	changes := balance.NewChangeManager(nil, 0)
	var assessed []customfee.AssessedCustomFee

	code := FixedFeeAssessor{}.Assess(types.RefByID(payer), meta, fee, changes, &assessed)
	require.Equal(t, status.OK, code)

	require.Equal(t, 2, changes.NumChangesSoFar())
	debit := changes.ChangesSoFar()[0]
	assert.Equal(t, payer, debit.Account())
	assert.True(t, debit.IsForHbar())
	assert.Equal(t, int64(-100_000), debit.Units())
	assert.Equal(t, status.InsufficientPayerBalanceForCustomFee, debit.CodeOnInsufficientBalance())

	credit := changes.ChangesSoFar()[1]
	assert.Equal(t, collector, credit.Account())
	assert.True(t, credit.IsForHbar())
	assert.Equal(t, int64(100_000), credit.Units())

	require.Len(t, assessed, 1)
	assert.Equal(t, customfee.NewAssessedFee(collector, types.Hbar, 100_000, payer), assessed[0])
}

func TestFixedFeesToSameCollectorMerge(t *testing.T) {
	first := fixed(t, 10, feeToken, collector, false)
	second := fixed(t, 15, feeToken, collector, false)
	meta := customfee.NewMeta(fungible, treasury, customfee.FungibleCommon, []*customfee.CustomFee{first, second})
	changes := balance.NewChangeManager(nil, 0)
	var assessed []customfee.AssessedCustomFee

	require.Equal(t, status.OK, FixedFeeAssessor{}.Assess(types.RefByID(payer), meta, first, changes, &assessed))
	require.Equal(t, status.OK, FixedFeeAssessor{}.Assess(types.RefByID(payer), meta, second, changes, &assessed))

	require.Equal(t, 2, changes.NumChangesSoFar())
	assert.Equal(t, int64(-25), changes.ChangeFor(payer, feeToken).Units())
	assert.Equal(t, int64(25), changes.ChangeFor(collector, feeToken).Units())
	assert.Len(t, assessed, 2)
}

func TestFixedFeeMergeOverflow(t *testing.T) {
	fee := fixed(t, 10, types.Hbar, collector, false)
	meta := customfee.NewMeta(fungible, treasury, customfee.FungibleCommon, []*customfee.CustomFee{fee})
	changes := balance.NewChangeManager([]*balance.Change{
		balance.NewHbarChange(collector, "", 1<<63-5, false, payer),
	}, 1)
	var assessed []customfee.AssessedCustomFee

	code := FixedFeeAssessor{}.Assess(types.RefByID(payer), meta, fee, changes, &assessed)
	assert.Equal(t, status.CustomFeeOutsideNumericRange, code)
	assert.Empty(t, assessed)
}

func TestIsPayerExempt(t *testing.T) {
	exemptFee := fixed(t, 1, types.Hbar, collector, true)
	plainFee := fixed(t, 1, types.Hbar, collector2, false)
	meta := customfee.NewMeta(fungible, treasury, customfee.FungibleCommon, []*customfee.CustomFee{exemptFee, plainFee})

	tests := []struct {
		name  string
		fee   *customfee.CustomFee
		payer types.AccountID
		want  bool
	}{
		{name: "treasury pays nothing", fee: plainFee, payer: treasury, want: true},
		{name: "treasury exempt from exempting fee", fee: exemptFee, payer: treasury, want: true},
		{name: "other collector exempt", fee: exemptFee, payer: collector2, want: true},
		{name: "own collector not another fee", fee: exemptFee, payer: collector, want: false},
		{name: "flag not set", fee: plainFee, payer: collector, want: false},
		{name: "stranger", fee: exemptFee, payer: alice, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPayerExempt(meta, tt.fee, tt.payer))
		})
	}
}

func TestAmountOwedBounds(t *testing.T) {
	spec := customfee.FractionalFee{Numerator: 1, Denominator: 100, MinUnits: 1, MaxUnits: 100}

	tests := []struct {
		units int64
		want  int64
	}{
		{units: 5000, want: 50},
		{units: 50, want: 1},
		{units: 50_000, want: 100},
	}
	for _, tt := range tests {
		got, err := AmountOwed(tt.units, spec)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "units %d", tt.units)
	}

	unbounded := customfee.FractionalFee{Numerator: 1, Denominator: 100}
	got, err := AmountOwed(50_000, unbounded)
	require.NoError(t, err)
	assert.Equal(t, int64(500), got)
}

func TestFractionalReclaimsFromReceivers(t *testing.T) {
	fee := fractional(t, 1, 10, 0, 0, false, collector)
	meta := customfee.NewMeta(fungible, treasury, customfee.FungibleCommon, []*customfee.CustomFee{fee})
	trigger := balance.NewTokenChange(alice, "", fungible, -1000, false, payer)
	changes := balance.NewChangeManager([]*balance.Change{
		trigger,
		balance.NewTokenChange(bob, "", fungible, 600, false, payer),
		balance.NewTokenChange(carol, "", fungible, 400, false, payer),
	}, 0)
	require.Same(t, trigger, changes.NextTriggerCandidate())
	var assessed []customfee.AssessedCustomFee

	code := FractionalFeeAssessor{}.AssessAll(trigger, meta, changes, &assessed)
	require.Equal(t, status.OK, code)

	assert.Equal(t, int64(-1000), trigger.Units())
	assert.Equal(t, int64(540), changes.ChangeFor(bob, fungible).Units())
	assert.Equal(t, int64(360), changes.ChangeFor(carol, fungible).Units())
	assert.Equal(t, int64(100), changes.ChangeFor(collector, fungible).Units())
	require.Len(t, assessed, 1)
	assert.Equal(t, []types.AccountRef{types.RefByID(bob), types.RefByID(carol)}, assessed[0].EffectivePayers)
}

func TestFractionalReclaimsRoundingRemainderInOrder(t *testing.T) {
	fee := fractional(t, 1, 3, 0, 0, false, collector)
	meta := customfee.NewMeta(fungible, treasury, customfee.FungibleCommon, []*customfee.CustomFee{fee})
	trigger := balance.NewTokenChange(alice, "", fungible, -3, false, payer)
	changes := balance.NewChangeManager([]*balance.Change{
		trigger,
		balance.NewTokenChange(bob, "", fungible, 1, false, payer),
		balance.NewTokenChange(carol, "", fungible, 2, false, payer),
	}, 0)
	var assessed []customfee.AssessedCustomFee

	require.Equal(t, status.OK, FractionalFeeAssessor{}.AssessAll(trigger, meta, changes, &assessed))
	assert.Equal(t, int64(0), changes.ChangeFor(bob, fungible).Units())
	assert.Equal(t, int64(2), changes.ChangeFor(carol, fungible).Units())
	assert.Equal(t, int64(1), changes.ChangeFor(collector, fungible).Units())
}

func TestFractionalNetOfTransfersChargesSender(t *testing.T) {
	fee := fractional(t, 1, 10, 0, 0, true, collector)
	meta := customfee.NewMeta(fungible, treasury, customfee.FungibleCommon, []*customfee.CustomFee{fee})
	trigger := balance.NewTokenChange(alice, "", fungible, -1000, false, payer)
	changes := balance.NewChangeManager([]*balance.Change{
		trigger,
		balance.NewTokenChange(bob, "", fungible, 1000, false, payer),
	}, 0)
	var assessed []customfee.AssessedCustomFee

	require.Equal(t, status.OK, FractionalFeeAssessor{}.AssessAll(trigger, meta, changes, &assessed))
	assert.Equal(t, int64(-1100), trigger.Units())
	assert.Equal(t, status.InsufficientPayerBalanceForCustomFee, trigger.CodeOnInsufficientBalance())
	assert.Equal(t, int64(1000), changes.ChangeFor(bob, fungible).Units())
	assert.Equal(t, int64(100), changes.ChangeFor(collector, fungible).Units())
	require.Len(t, assessed, 1)
	assert.Equal(t, []types.AccountRef{types.RefByID(alice)}, assessed[0].EffectivePayers)
}

func TestFractionalShortfallChargedToSender(t *testing.T) {
	tests := []struct {
		name       string
		credits    []*balance.Change
		wantSender int64
		wantBob    int64
		wantPayers []types.AccountRef
	}{
		{
			name:       "no credits in level",
			wantSender: -110,
			wantPayers: []types.AccountRef{types.RefByID(alice)},
		},
		{
			name:       "credits smaller than fee",
			credits:    []*balance.Change{balance.NewTokenChange(bob, "", fungible, 4, false, payer)},
			wantSender: -106,
			wantBob:    0,
			wantPayers: []types.AccountRef{types.RefByID(bob), types.RefByID(alice)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := customfee.NewMeta(fungible, treasury, customfee.FungibleCommon, []*customfee.CustomFee{
				fractional(t, 1, 10, 1, 0, false, collector),
			})
			trigger := balance.NewTokenChange(alice, "", fungible, -100, false, payer)
			changes := balance.NewChangeManager(append([]*balance.Change{trigger}, tt.credits...), 0)
			var assessed []customfee.AssessedCustomFee

			require.Equal(t, status.OK, FractionalFeeAssessor{}.AssessAll(trigger, meta, changes, &assessed))
			assert.Equal(t, tt.wantSender, trigger.Units())
			assert.Equal(t, status.InsufficientPayerBalanceForCustomFee, trigger.CodeOnInsufficientBalance())
			assert.Equal(t, int64(10), changes.ChangeFor(collector, fungible).Units())
			if len(tt.credits) > 0 {
				assert.Equal(t, tt.wantBob, changes.ChangeFor(bob, fungible).Units())
			}
			require.Len(t, assessed, 1)
			assert.Equal(t, tt.wantPayers, assessed[0].EffectivePayers)

			var net int64
			for _, c := range changes.ChangesSoFar() {
				net += c.Units()
			}
			assert.Equal(t, int64(-100)+sumUnits(tt.credits), net, "fee moves units without creating them")
		})
	}
}

func sumUnits(changes []*balance.Change) int64 {
	var sum int64
	for _, c := range changes {
		sum += c.OriginalUnits()
	}
	return sum
}

func TestFractionalFeesCannotExceedUnitsMoved(t *testing.T) {
	meta := customfee.NewMeta(fungible, treasury, customfee.FungibleCommon, []*customfee.CustomFee{
		fractional(t, 1, 2, 0, 0, false, collector),
		fractional(t, 2, 3, 0, 0, false, collector2),
	})
	trigger := balance.NewTokenChange(alice, "", fungible, -1000, false, payer)
	changes := balance.NewChangeManager([]*balance.Change{
		trigger,
		balance.NewTokenChange(bob, "", fungible, 1000, false, payer),
	}, 0)
	var assessed []customfee.AssessedCustomFee

	code := FractionalFeeAssessor{}.AssessAll(trigger, meta, changes, &assessed)
	assert.Equal(t, status.CustomFeeOutsideNumericRange, code)
}

func TestFractionalSkipsCollectorAsPayer(t *testing.T) {
	meta := customfee.NewMeta(fungible, treasury, customfee.FungibleCommon, []*customfee.CustomFee{
		fractional(t, 1, 10, 0, 0, false, alice),
	})
	trigger := balance.NewTokenChange(alice, "", fungible, -1000, false, payer)
	changes := balance.NewChangeManager([]*balance.Change{
		trigger,
		balance.NewTokenChange(bob, "", fungible, 1000, false, payer),
	}, 0)
	var assessed []customfee.AssessedCustomFee

	require.Equal(t, status.OK, FractionalFeeAssessor{}.AssessAll(trigger, meta, changes, &assessed))
	assert.Empty(t, assessed)
	assert.Equal(t, 2, changes.NumChangesSoFar())
}

func nftSale(price int64) (*balance.Change, *balance.ChangeManager) {
	nft := balance.NewNftChange(nonFung, types.RefByID(bob), types.RefByID(carol), 1, false, payer)
	return nft, balance.NewChangeManager([]*balance.Change{
		balance.NewHbarChange(carol, "", -price, false, payer),
		balance.NewHbarChange(bob, "", price, false, payer),
		nft,
	}, 2)
}

func TestRoyaltyChargesExchangedValue(t *testing.T) {
	meta := customfee.NewMeta(nonFung, treasury, customfee.NonFungibleUnique, []*customfee.CustomFee{
		royalty(t, 1, 10, nil, collector),
	})
	nft, changes := nftSale(1000)
	var assessed []customfee.AssessedCustomFee

	require.Equal(t, status.OK, RoyaltyFeeAssessor{}.AssessAll(nft, meta, changes, &assessed))
	assert.Equal(t, int64(900), changes.ChangeFor(bob, types.Hbar).Units())
	assert.Equal(t, int64(100), changes.ChangeFor(collector, types.Hbar).Units())
	require.Len(t, assessed, 1)
	assert.Equal(t, customfee.NewAssessedFee(collector, types.Hbar, 100, bob), assessed[0])
	assert.True(t, changes.IsRoyaltyPaid(nonFung, bob))

	// a second serial from the same sender is not charged again
	second := balance.NewNftChange(nonFung, types.RefByID(bob), types.RefByID(carol), 2, false, payer)
	require.Equal(t, status.OK, RoyaltyFeeAssessor{}.AssessAll(second, meta, changes, &assessed))
	assert.Len(t, assessed, 1)
}

func TestRoyaltyFallbackChargesReceiver(t *testing.T) {
	meta := customfee.NewMeta(nonFung, treasury, customfee.NonFungibleUnique, []*customfee.CustomFee{
		royalty(t, 1, 10, &customfee.FixedFee{Units: 50, DenominatingToken: feeToken}, collector),
	})
	nft := balance.NewNftChange(nonFung, types.RefByID(bob), types.RefByID(carol), 1, false, payer)
	changes := balance.NewChangeManager([]*balance.Change{nft}, 0)
	var assessed []customfee.AssessedCustomFee

	require.Equal(t, status.OK, RoyaltyFeeAssessor{}.AssessAll(nft, meta, changes, &assessed))
	debit := changes.ChangeFor(carol, feeToken)
	require.NotNil(t, debit)
	assert.Equal(t, int64(-50), debit.Units())
	assert.Equal(t, status.InsufficientPayerBalanceForCustomFee, debit.CodeOnInsufficientBalance())
	assert.Equal(t, int64(50), changes.ChangeFor(collector, feeToken).Units())
	require.Len(t, assessed, 1)
	assert.Equal(t, []types.AccountRef{types.RefByID(carol)}, assessed[0].EffectivePayers)
}

func TestRoyaltyFallbackExemption(t *testing.T) {
	fallback := &customfee.FixedFee{Units: 50, DenominatingToken: feeToken}
	tests := []struct {
		name     string
		receiver types.AccountID
		charged  bool
	}{
		{name: "own collector pays its fallback", receiver: collector, charged: true},
		{name: "collector of another fee exempt", receiver: collector2, charged: false},
		{name: "stranger pays", receiver: carol, charged: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			own, err := customfee.NewRoyaltyFee(1, 10, fallback, collector, true)
			require.NoError(t, err)
			meta := customfee.NewMeta(nonFung, treasury, customfee.NonFungibleUnique, []*customfee.CustomFee{
				own,
				fixed(t, 1, types.Hbar, collector2, false),
			})
			nft := balance.NewNftChange(nonFung, types.RefByID(bob), types.RefByID(tt.receiver), 1, false, payer)
			changes := balance.NewChangeManager([]*balance.Change{nft}, 0)
			var assessed []customfee.AssessedCustomFee

			require.Equal(t, status.OK, RoyaltyFeeAssessor{}.AssessAll(nft, meta, changes, &assessed))
			if !tt.charged {
				assert.Empty(t, assessed)
				return
			}
			require.Len(t, assessed, 1)
			assert.Equal(t, []types.AccountRef{types.RefByID(tt.receiver)}, assessed[0].EffectivePayers)
			assert.Equal(t, int64(50), assessed[0].Units)
		})
	}
}

func TestRoyaltyFallbackChargesNewAlias(t *testing.T) {
	alias := types.Alias("\x12\x20" + string(make([]byte, 32)))
	meta := customfee.NewMeta(nonFung, treasury, customfee.NonFungibleUnique, []*customfee.CustomFee{
		royalty(t, 1, 10, &customfee.FixedFee{Units: 5}, collector),
	})
	nft := balance.NewNftChange(nonFung, types.RefByID(bob), types.RefByAlias(alias), 1, false, payer)
	changes := balance.NewChangeManager([]*balance.Change{nft}, 0)
	var assessed []customfee.AssessedCustomFee

	require.Equal(t, status.OK, RoyaltyFeeAssessor{}.AssessAll(nft, meta, changes, &assessed))
	debit := changes.ChangeForRef(types.RefByAlias(alias), types.Hbar)
	require.NotNil(t, debit)
	assert.Equal(t, int64(-5), debit.Units())
	assert.Equal(t, alias, debit.Alias())
	assert.Nil(t, changes.ChangeFor(types.MissingAccountID, types.Hbar))
	require.Len(t, assessed, 1)
	assert.Equal(t, []types.AccountRef{types.RefByAlias(alias)}, assessed[0].EffectivePayers)
}

func TestRoyaltyWithoutExchangeOrFallbackIsFree(t *testing.T) {
	meta := customfee.NewMeta(nonFung, treasury, customfee.NonFungibleUnique, []*customfee.CustomFee{
		royalty(t, 1, 10, nil, collector),
	})
	nft := balance.NewNftChange(nonFung, types.RefByID(bob), types.RefByID(carol), 1, false, payer)
	changes := balance.NewChangeManager([]*balance.Change{nft}, 0)
	var assessed []customfee.AssessedCustomFee

	require.Equal(t, status.OK, RoyaltyFeeAssessor{}.AssessAll(nft, meta, changes, &assessed))
	assert.Empty(t, assessed)
	assert.Equal(t, 1, changes.NumChangesSoFar())
}

func TestRoyaltiesExceedingExchangeFail(t *testing.T) {
	meta := customfee.NewMeta(nonFung, treasury, customfee.NonFungibleUnique, []*customfee.CustomFee{
		royalty(t, 6, 10, nil, collector),
		royalty(t, 6, 10, nil, collector2),
	})
	nft, changes := nftSale(1000)
	var assessed []customfee.AssessedCustomFee

	code := RoyaltyFeeAssessor{}.AssessAll(nft, meta, changes, &assessed)
	assert.Equal(t, status.InsufficientSenderAccountBalanceForCustomFee, code)
}

func TestFeeAssessorSkipsTreasuryForEveryKind(t *testing.T) {
	fungibleMeta := customfee.NewMeta(fungible, treasury, customfee.FungibleCommon, []*customfee.CustomFee{
		fixed(t, 5, types.Hbar, collector, false),
		fractional(t, 1, 10, 0, 0, false, collector),
	})
	nftMeta := customfee.NewMeta(nonFung, treasury, customfee.NonFungibleUnique, []*customfee.CustomFee{
		fixed(t, 5, types.Hbar, collector, false),
		royalty(t, 1, 10, &customfee.FixedFee{Units: 3}, collector),
	})
	source := &mapSource{metas: map[types.TokenID]*customfee.Meta{fungible: fungibleMeta, nonFung: nftMeta}}

	ftTrigger := balance.NewTokenChange(treasury, "", fungible, -100, false, payer)
	nftTrigger := balance.NewNftChange(nonFung, types.RefByID(treasury), types.RefByID(carol), 1, false, payer)
	changes := balance.NewChangeManager([]*balance.Change{
		ftTrigger,
		balance.NewTokenChange(bob, "", fungible, 100, false, payer),
		nftTrigger,
	}, 0)
	schedules := NewSchedulesManager(source)
	var assessed []customfee.AssessedCustomFee
	limits := Limits{MaxFeeNesting: 1, MaxBalanceChanges: 20}

	for trigger := changes.NextTriggerCandidate(); trigger != nil; trigger = changes.NextTriggerCandidate() {
		code, err := NewFeeAssessor().Assess(context.Background(), trigger, schedules, changes, &assessed, limits)
		require.NoError(t, err)
		require.Equal(t, status.OK, code)
	}
	assert.Empty(t, assessed)
	assert.Equal(t, 3, changes.NumChangesSoFar())
}

func TestFeeAssessorLimits(t *testing.T) {
	meta := customfee.NewMeta(fungible, treasury, customfee.FungibleCommon, []*customfee.CustomFee{
		fixed(t, 1, types.Hbar, collector, false),
		fixed(t, 1, feeToken, collector2, false),
	})
	source := &mapSource{metas: map[types.TokenID]*customfee.Meta{fungible: meta}}

	newLedger := func() (*balance.Change, *balance.ChangeManager) {
		trigger := balance.NewTokenChange(alice, "", fungible, -100, false, payer)
		return trigger, balance.NewChangeManager([]*balance.Change{
			trigger,
			balance.NewTokenChange(bob, "", fungible, 100, false, payer),
		}, 0)
	}

	t.Run("ceiling checked after each fixed fee", func(t *testing.T) {
		trigger, changes := newLedger()
		changes.NextTriggerCandidate()
		var assessed []customfee.AssessedCustomFee
		code, err := NewFeeAssessor().Assess(context.Background(), trigger, NewSchedulesManager(source), changes, &assessed, Limits{MaxFeeNesting: 1, MaxBalanceChanges: 3})
		require.NoError(t, err)
		assert.Equal(t, status.CustomFeeChargingExceededMaxAccountAmounts, code)
		assert.Len(t, assessed, 1)
	})

	t.Run("within ceiling", func(t *testing.T) {
		trigger, changes := newLedger()
		changes.NextTriggerCandidate()
		var assessed []customfee.AssessedCustomFee
		code, err := NewFeeAssessor().Assess(context.Background(), trigger, NewSchedulesManager(source), changes, &assessed, Limits{MaxFeeNesting: 1, MaxBalanceChanges: 6})
		require.NoError(t, err)
		assert.Equal(t, status.OK, code)
		assert.Equal(t, 6, changes.NumChangesSoFar())
	})

	t.Run("nesting", func(t *testing.T) {
		trigger, changes := newLedger()
		changes.NextTriggerCandidate()
		var assessed []customfee.AssessedCustomFee
		code, err := NewFeeAssessor().Assess(context.Background(), trigger, NewSchedulesManager(source), changes, &assessed, Limits{MaxFeeNesting: -1, MaxBalanceChanges: 20})
		require.NoError(t, err)
		assert.Equal(t, status.CustomFeeChargingExceededMaxRecursionDepth, code)
	})
}

func TestFeeAssessorReportsLookupFailure(t *testing.T) {
	source := &mapSource{err: errors.New("disk on fire")}
	trigger := balance.NewTokenChange(alice, "", fungible, -100, false, payer)
	changes := balance.NewChangeManager([]*balance.Change{trigger}, 0)
	var assessed []customfee.AssessedCustomFee

	code, err := NewFeeAssessor().Assess(context.Background(), trigger, NewSchedulesManager(source), changes, &assessed, Limits{MaxFeeNesting: 1, MaxBalanceChanges: 20})
	assert.Error(t, err)
	assert.Equal(t, status.FailInvalid, code)
}

func TestSchedulesManagerMemoizes(t *testing.T) {
	meta := customfee.NewMeta(fungible, treasury, customfee.FungibleCommon, nil)
	source := &mapSource{metas: map[types.TokenID]*customfee.Meta{fungible: meta}}
	schedules := NewSchedulesManager(source)
	ctx := context.Background()

	got, err := schedules.ManagedSchedulesFor(ctx, nonFung)
	require.NoError(t, err)
	assert.True(t, got.Treasury().IsMissing())

	got, err = schedules.ManagedSchedulesFor(ctx, fungible)
	require.NoError(t, err)
	assert.Same(t, meta, got)
	_, err = schedules.ManagedSchedulesFor(ctx, fungible)
	require.NoError(t, err)

	assert.Equal(t, 2, source.lookups)
	final := schedules.FinalManagedSchedules()
	require.Len(t, final, 2)
	assert.Equal(t, nonFung, final[0].TokenID())
	assert.Same(t, meta, final[1])
}
