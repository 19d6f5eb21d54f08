package balance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goHederad/internal/core/safemath"
	"github.com/LeJamon/goHederad/internal/core/status"
	"github.com/LeJamon/goHederad/internal/core/types"
)

var (
	payer      = types.AccountID{Num: 1001}
	alice      = types.AccountID{Num: 1002}
	bob        = types.AccountID{Num: 1003}
	carol      = types.AccountID{Num: 1004}
	fungible   = types.TokenID{Num: 5001}
	otherToken = types.TokenID{Num: 5002}
	nonFung    = types.TokenID{Num: 5003}
)

func originalChanges() []*Change {
	return []*Change{
		NewHbarChange(alice, "", -100, false, payer),
		NewHbarChange(bob, "", 100, false, payer),
		NewTokenChange(alice, "", fungible, -10, false, payer),
		NewTokenChange(bob, "", fungible, 10, false, payer),
		NewNftChange(nonFung, types.RefByID(bob), types.RefByID(carol), 1, false, payer),
		NewTokenChange(carol, "", otherToken, -5, false, payer),
		NewTokenChange(bob, "", otherToken, 5, false, payer),
	}
}

func TestNextTriggerCandidateSkipsHbarAndCredits(t *testing.T) {
	m := NewChangeManager(originalChanges(), 2)

	first := m.NextTriggerCandidate()
	require.NotNil(t, first)
	assert.Equal(t, alice, first.Account())
	assert.Equal(t, fungible, first.Token())

	second := m.NextTriggerCandidate()
	require.NotNil(t, second)
	assert.True(t, second.IsForNft())

	third := m.NextTriggerCandidate()
	require.NotNil(t, third)
	assert.Equal(t, carol, third.Account())

	assert.Nil(t, m.NextTriggerCandidate())
	assert.Equal(t, 0, m.LevelNo())
}

func TestLevelsAdvanceOverIncludedChanges(t *testing.T) {
	m := NewChangeManager(originalChanges(), 2)
	for m.NextTriggerCandidate() != nil {
	}

	m.IncludeChange(NewAdjustment(types.RefByID(carol), fungible, -3))
	m.IncludeChange(NewAdjustment(types.RefByID(types.AccountID{Num: 98}), fungible, 3))

	next := m.NextTriggerCandidate()
	require.NotNil(t, next)
	assert.Equal(t, carol, next.Account())
	assert.Equal(t, 1, m.LevelNo())

	m.IncludeChange(NewAdjustment(types.RefByID(alice), otherToken, -1))
	require.NotNil(t, m.NextTriggerCandidate())
	assert.Equal(t, 2, m.LevelNo())
	assert.Equal(t, 10, m.NumChangesSoFar())
}

func TestLevelAdvancesOnlyWhenCursorCrossesEnd(t *testing.T) {
	m := NewChangeManager(originalChanges(), 2)
	require.NotNil(t, m.NextTriggerCandidate())

	// included before the original level is exhausted; still reached after it
	m.IncludeChange(NewAdjustment(types.RefByID(carol), fungible, -3))
	assert.Equal(t, 0, m.LevelNo())

	require.NotNil(t, m.NextTriggerCandidate())
	require.NotNil(t, m.NextTriggerCandidate())
	assert.Equal(t, 0, m.LevelNo())

	last := m.NextTriggerCandidate()
	require.NotNil(t, last)
	assert.Equal(t, int64(-3), last.Units())
	assert.Equal(t, 1, m.LevelNo())
}

func TestChangeForAndIncludeChange(t *testing.T) {
	m := NewChangeManager(originalChanges(), 2)

	assert.Same(t, m.ChangesSoFar()[2], m.ChangeFor(alice, fungible))
	assert.Same(t, m.ChangesSoFar()[0], m.ChangeFor(alice, types.Hbar))
	assert.Nil(t, m.ChangeFor(carol, fungible))
	assert.Nil(t, m.ChangeFor(bob, nonFung), "nft changes are not indexed")

	added := NewAdjustment(types.RefByID(carol), fungible, 7)
	m.IncludeChange(added)
	assert.Same(t, added, m.ChangeFor(carol, fungible))

	assert.Panics(t, func() {
		m.IncludeChange(NewAdjustment(types.RefByID(carol), fungible, 1))
	})
}

func TestCreditsInCurrentLevel(t *testing.T) {
	m := NewChangeManager(originalChanges(), 2)
	m.IncludeChange(NewAdjustment(types.RefByID(carol), fungible, 4))

	credits := m.CreditsInCurrentLevel(fungible)
	require.Len(t, credits, 1)
	assert.Equal(t, bob, credits[0].Account())

	exchanged := m.FungibleCreditsInCurrentLevel(bob)
	require.Len(t, exchanged, 3)
	assert.True(t, exchanged[0].IsForHbar())
	assert.Equal(t, fungible, exchanged[1].Token())
	assert.Equal(t, otherToken, exchanged[2].Token())

	assert.Empty(t, m.FungibleCreditsInCurrentLevel(alice))
}

func TestRoyaltiesPaid(t *testing.T) {
	m := NewChangeManager(nil, 0)
	assert.False(t, m.IsRoyaltyPaid(nonFung, bob))
	m.MarkRoyaltyPaid(nonFung, bob)
	assert.True(t, m.IsRoyaltyPaid(nonFung, bob))
	assert.False(t, m.IsRoyaltyPaid(nonFung, carol))
	assert.Nil(t, m.NextTriggerCandidate())
}

func TestChangeAggregation(t *testing.T) {
	c := NewTokenChange(alice, "", fungible, -10, true, payer)
	assert.Equal(t, int64(-10), c.AllowanceUnits())
	assert.Equal(t, status.InsufficientTokenBalance, c.CodeOnInsufficientBalance())

	require.NoError(t, c.AggregateUnits(-5))
	assert.Equal(t, int64(-15), c.Units())
	assert.Equal(t, int64(-10), c.OriginalUnits())

	big := NewHbarChange(alice, "", math.MaxInt64, false, payer)
	err := big.AggregateUnits(1)
	assert.ErrorIs(t, err, safemath.ErrOverflow)
	assert.Equal(t, int64(math.MaxInt64), big.Units(), "failed aggregation leaves units unchanged")
}

func TestChangeDefaults(t *testing.T) {
	assert.Equal(t, status.InsufficientAccountBalance, NewAdjustment(types.RefByID(alice), types.Hbar, 1).CodeOnInsufficientBalance())
	assert.Equal(t, status.InsufficientTokenBalance, NewAdjustment(types.RefByID(alice), fungible, 1).CodeOnInsufficientBalance())

	nft := NewNftChange(nonFung, types.RefByID(alice), types.RefByID(bob), 3, false, payer)
	assert.Equal(t, status.SenderDoesNotOwnNftSerialNo, nft.CodeOnInsufficientBalance())
	assert.True(t, nft.IsForNft())
	assert.False(t, nft.IsForFungibleToken())

	rec := nft.Record()
	require.NotNil(t, rec.CounterParty)
	assert.Equal(t, bob, *rec.CounterParty)
	assert.Equal(t, int64(3), rec.SerialNo)
}

func TestNftChangeToNewAlias(t *testing.T) {
	alias := types.Alias("\x12\x20" + string(make([]byte, 32)))
	nft := NewNftChange(nonFung, types.RefByID(alice), types.RefByAlias(alias), 4, false, payer)

	assert.Equal(t, types.RefByAlias(alias), nft.CounterPartyRef())
	assert.True(t, nft.CounterParty().IsMissing())

	rec := nft.Record()
	assert.Equal(t, alias.Hex(), rec.CounterPartyAlias)

	m := NewChangeManager([]*Change{nft}, 0)
	m.IncludeChange(NewAdjustment(types.RefByAlias(alias), types.Hbar, -5))
	assert.NotNil(t, m.ChangeForRef(types.RefByAlias(alias), types.Hbar))
	assert.Nil(t, m.ChangeFor(types.MissingAccountID, types.Hbar), "alias changes are keyed by alias")
}
