package balance

import (
	"fmt"

	"github.com/LeJamon/goHederad/internal/core/types"
)

type royaltyKey struct {
	token   types.TokenID
	account types.AccountID
}

// ChangeManager is the ordered set of changes produced by one assessment.
//
// Changes are grouped into levels: level 0 holds the changes of the original
// transfer, level n+1 the changes created while charging fees triggered by
// level n. Hbar changes are assumed to be the first numHbar entries.
type ChangeManager struct {
	changes []*Change
	index   map[Key]int

	nextCandidate int
	levelNo       int
	levelStart    int
	levelEnd      int

	royaltiesPaid map[royaltyKey]struct{}
}

// NewChangeManager starts a ledger from the already aggregated changes of a transfer
func NewChangeManager(changes []*Change, numHbar int) *ChangeManager {
	m := &ChangeManager{
		changes:       make([]*Change, 0, len(changes)),
		index:         make(map[Key]int, len(changes)),
		nextCandidate: numHbar,
		levelEnd:      len(changes),
		royaltiesPaid: make(map[royaltyKey]struct{}),
	}
	for _, c := range changes {
		if !c.IsForNft() {
			if _, ok := m.index[c.Key()]; !ok {
				m.index[c.Key()] = len(m.changes)
			}
		}
		m.changes = append(m.changes, c)
	}
	return m
}

// NextTriggerCandidate returns the next change that may trigger custom fees:
// every NFT change and every fungible debit, in order. Hbar changes never
// trigger fees. Returns nil once every change has been considered.
func (m *ChangeManager) NextTriggerCandidate() *Change {
	for m.nextCandidate < len(m.changes) {
		if m.nextCandidate == m.levelEnd {
			m.levelNo++
			m.levelStart = m.levelEnd
			m.levelEnd = len(m.changes)
		}
		candidate := m.changes[m.nextCandidate]
		m.nextCandidate++
		if candidate.IsForHbar() {
			continue
		}
		if candidate.IsForNft() || candidate.Units() < 0 {
			return candidate
		}
	}
	return nil
}

// LevelNo returns the nesting level of the last returned candidate
func (m *ChangeManager) LevelNo() int {
	return m.levelNo
}

// ChangeFor returns the fungible or hbar change for (account, token), or nil
func (m *ChangeManager) ChangeFor(account types.AccountID, token types.TokenID) *Change {
	return m.ChangeForRef(types.RefByID(account), token)
}

// ChangeForRef is ChangeFor for an account that may still be known only by alias
func (m *ChangeManager) ChangeForRef(ref types.AccountRef, token types.TokenID) *Change {
	i, ok := m.index[KeyOf(ref, token)]
	if !ok {
		return nil
	}
	return m.changes[i]
}

// IncludeChange appends a change created while charging a fee.
// It panics if a change with the same identity is already present.
func (m *ChangeManager) IncludeChange(c *Change) {
	if !c.IsForNft() {
		if _, ok := m.index[c.Key()]; ok {
			panic(fmt.Sprintf("balance change %s already included", c))
		}
		m.index[c.Key()] = len(m.changes)
	}
	m.changes = append(m.changes, c)
}

// CreditsInCurrentLevel returns the positive fungible changes of token in the current level
func (m *ChangeManager) CreditsInCurrentLevel(token types.TokenID) []*Change {
	var credits []*Change
	for i := m.levelStart; i < m.levelEnd; i++ {
		c := m.changes[i]
		if c.IsForNft() || c.Token() != token {
			continue
		}
		if c.Units() > 0 {
			credits = append(credits, c)
		}
	}
	return credits
}

// FungibleCreditsInCurrentLevel returns the hbar and fungible changes of the
// current level that originally credited beneficiary
func (m *ChangeManager) FungibleCreditsInCurrentLevel(beneficiary types.AccountID) []*Change {
	var credits []*Change
	for i := m.levelStart; i < m.levelEnd; i++ {
		c := m.changes[i]
		if c.IsForNft() {
			continue
		}
		if c.Account() == beneficiary && c.OriginalUnits() > 0 {
			credits = append(credits, c)
		}
	}
	return credits
}

// IsRoyaltyPaid returns true if account already paid royalties on token
func (m *ChangeManager) IsRoyaltyPaid(token types.TokenID, account types.AccountID) bool {
	_, ok := m.royaltiesPaid[royaltyKey{token: token, account: account}]
	return ok
}

// MarkRoyaltyPaid records that account paid royalties on token
func (m *ChangeManager) MarkRoyaltyPaid(token types.TokenID, account types.AccountID) {
	m.royaltiesPaid[royaltyKey{token: token, account: account}] = struct{}{}
}

// ChangesSoFar returns every change in creation order
func (m *ChangeManager) ChangesSoFar() []*Change {
	return m.changes
}

// NumChangesSoFar returns the number of changes
func (m *ChangeManager) NumChangesSoFar() int {
	return len(m.changes)
}
