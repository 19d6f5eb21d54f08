package balance

import (
	"fmt"

	"github.com/LeJamon/goHederad/internal/core/safemath"
	"github.com/LeJamon/goHederad/internal/core/status"
	"github.com/LeJamon/goHederad/internal/core/types"
)

// Change is one pending adjustment to an account's holdings: hbar, units of a
// fungible token, or ownership of one NFT serial. Fungible and hbar changes are
// identified by (account, token) and accumulate; NFT changes are never merged.
type Change struct {
	account types.AccountID
	alias   types.Alias
	token   types.TokenID

	nft               bool
	serialNo          int64
	counterParty      types.AccountID
	counterPartyAlias types.Alias

	units          int64
	originalUnits  int64
	allowanceUnits int64
	isApproval     bool
	payer          types.AccountID

	expectedDecimals *uint32
	code             status.ResponseCode
}

// NewHbarChange builds an hbar adjustment. An approved debit is also recorded
// as allowance units spent by payer.
func NewHbarChange(account types.AccountID, alias types.Alias, units int64, isApproval bool, payer types.AccountID) *Change {
	c := &Change{
		account:       account,
		alias:         alias,
		token:         types.Hbar,
		units:         units,
		originalUnits: units,
		isApproval:    isApproval,
		payer:         payer,
		code:          status.InsufficientAccountBalance,
	}
	if isApproval {
		c.allowanceUnits = units
	}
	return c
}

// NewTokenChange builds a fungible token adjustment
func NewTokenChange(account types.AccountID, alias types.Alias, token types.TokenID, units int64, isApproval bool, payer types.AccountID) *Change {
	c := &Change{
		account:       account,
		alias:         alias,
		token:         token,
		units:         units,
		originalUnits: units,
		isApproval:    isApproval,
		payer:         payer,
		code:          status.InsufficientTokenBalance,
	}
	if isApproval {
		c.allowanceUnits = units
	}
	return c
}

// NewNftChange builds the ownership change of one serial from sender to receiver.
// The change is attributed to the sender, who gives up one unit. A receiver
// still to be created keeps its alias.
func NewNftChange(token types.TokenID, sender types.AccountRef, receiver types.AccountRef, serialNo int64, isApproval bool, payer types.AccountID) *Change {
	return &Change{
		account:           sender.ID,
		alias:             sender.Alias,
		token:             token,
		nft:               true,
		serialNo:          serialNo,
		counterParty:      receiver.ID,
		counterPartyAlias: receiver.Alias,
		units:             -1,
		originalUnits:     -1,
		isApproval:        isApproval,
		payer:             payer,
		code:              status.SenderDoesNotOwnNftSerialNo,
	}
}

// NewAdjustment builds a change created while charging a fee to or from ref
func NewAdjustment(ref types.AccountRef, token types.TokenID, units int64) *Change {
	if token.IsHbar() {
		return NewHbarChange(ref.ID, ref.Alias, units, false, types.MissingAccountID)
	}
	return NewTokenChange(ref.ID, ref.Alias, token, units, false, types.MissingAccountID)
}

// Account returns the account whose holdings change
func (c *Change) Account() types.AccountID { return c.account }

// Alias returns the alias the account was referenced by, if any
func (c *Change) Alias() types.Alias { return c.alias }

// Token returns the denomination, types.Hbar for hbar changes
func (c *Change) Token() types.TokenID { return c.token }

// Units returns the aggregated signed units
func (c *Change) Units() int64 { return c.units }

// OriginalUnits returns the units the change was created with
func (c *Change) OriginalUnits() int64 { return c.originalUnits }

// AllowanceUnits returns the part of the units moved under an approval
func (c *Change) AllowanceUnits() int64 { return c.allowanceUnits }

func (c *Change) IsApproval() bool { return c.isApproval }

func (c *Change) Payer() types.AccountID { return c.payer }

func (c *Change) SerialNo() int64 { return c.serialNo }

// CounterParty returns the receiver of an NFT change
func (c *Change) CounterParty() types.AccountID { return c.counterParty }

// CounterPartyRef returns the receiver of an NFT change, by alias if the
// receiver is still to be created.
func (c *Change) CounterPartyRef() types.AccountRef {
	return refOf(c.counterParty, c.counterPartyAlias)
}

// Ref returns the account of the change, by alias if it is still to be created
func (c *Change) Ref() types.AccountRef {
	return refOf(c.account, c.alias)
}

func refOf(id types.AccountID, alias types.Alias) types.AccountRef {
	if id.IsMissing() && len(alias) > 0 {
		return types.RefByAlias(alias)
	}
	return types.RefByID(id)
}

func (c *Change) ExpectedDecimals() (uint32, bool) {
	if c.expectedDecimals == nil {
		return 0, false
	}
	return *c.expectedDecimals, true
}

// SetExpectedDecimals records the decimals the sender expects the token to have
func (c *Change) SetExpectedDecimals(decimals uint32) {
	c.expectedDecimals = &decimals
}

func (c *Change) IsForHbar() bool { return c.token.IsHbar() }

func (c *Change) IsForNft() bool { return c.nft }

func (c *Change) IsForFungibleToken() bool { return !c.nft && !c.token.IsHbar() }

// IsDebit returns true if the change removes value from the account
func (c *Change) IsDebit() bool { return c.units < 0 }

// IsCredit returns true if the change adds value to the account
func (c *Change) IsCredit() bool { return c.units > 0 }

// CodeOnInsufficientBalance returns the failure reported if the account
// cannot cover the change
func (c *Change) CodeOnInsufficientBalance() status.ResponseCode { return c.code }

// SetCodeOnInsufficientBalance overrides the failure for an uncovered change
func (c *Change) SetCodeOnInsufficientBalance(code status.ResponseCode) {
	c.code = code
}

// AggregateUnits adds units to the change, failing with safemath.ErrOverflow
// if the total leaves the int64 range.
func (c *Change) AggregateUnits(units int64) error {
	sum, err := safemath.AddExact(c.units, units)
	if err != nil {
		return err
	}
	c.units = sum
	return nil
}

// AggregateAllowanceUnits adds approved units to the change
func (c *Change) AggregateAllowanceUnits(units int64) error {
	sum, err := safemath.AddExact(c.allowanceUnits, units)
	if err != nil {
		return err
	}
	c.allowanceUnits = sum
	return nil
}

// Key returns the identity fungible and hbar changes are indexed by.
// Changes to accounts still to be created are told apart by alias.
func (c *Change) Key() Key {
	return KeyOf(c.Ref(), c.token)
}

// KeyOf returns the identity of the change of ref in token
func KeyOf(ref types.AccountRef, token types.TokenID) Key {
	if ref.ID.IsMissing() {
		return Key{Alias: ref.Alias, Token: token}
	}
	return Key{Account: ref.ID, Token: token}
}

func (c *Change) String() string {
	if c.nft {
		return fmt.Sprintf("nft %s/%d %s->%s", c.token, c.serialNo, c.Ref(), c.CounterPartyRef())
	}
	return fmt.Sprintf("%s %s %+d", c.account, c.token, c.units)
}

// Key identifies a fungible or hbar change.
type Key struct {
	Account types.AccountID
	Alias   types.Alias
	Token   types.TokenID
}

// Record is the serializable form of a change.
type Record struct {
	Account           types.AccountID     `json:"account"`
	Alias             string              `json:"alias,omitempty"`
	Token             types.TokenID       `json:"token"`
	Units             int64               `json:"units"`
	AllowanceUnits    int64               `json:"allowance_units,omitempty"`
	SerialNo          int64               `json:"serial_no,omitempty"`
	CounterParty      *types.AccountID    `json:"counter_party,omitempty"`
	CounterPartyAlias string              `json:"counter_party_alias,omitempty"`
	ExpectedDecimals  *uint32             `json:"expected_decimals,omitempty"`
	Code              status.ResponseCode `json:"code_on_insufficient_balance"`
}

// Record returns a snapshot of the change
func (c *Change) Record() Record {
	r := Record{
		Account:        c.account,
		Token:          c.token,
		Units:          c.units,
		AllowanceUnits: c.allowanceUnits,
		Code:           c.code,
	}
	if len(c.alias) > 0 {
		r.Alias = c.alias.Hex()
	}
	if c.nft {
		r.SerialNo = c.serialNo
		cp := c.counterParty
		r.CounterParty = &cp
		if len(c.counterPartyAlias) > 0 {
			r.CounterPartyAlias = c.counterPartyAlias.Hex()
		}
	}
	if c.expectedDecimals != nil {
		d := *c.expectedDecimals
		r.ExpectedDecimals = &d
	}
	return r
}
