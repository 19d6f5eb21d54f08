package types

// AccountAmount is a single signed adjustment to an account's balance.
// IsApproval marks a debit moved by a spender under an allowance.
type AccountAmount struct {
	Account    AccountRef `json:"account"`
	Amount     int64      `json:"amount"`
	IsApproval bool       `json:"is_approval,omitempty"`
}

// NftTransfer moves one serial of a non-fungible token.
type NftTransfer struct {
	Sender     AccountRef `json:"sender"`
	Receiver   AccountRef `json:"receiver"`
	SerialNo   int64      `json:"serial_no"`
	IsApproval bool       `json:"is_approval,omitempty"`
}

// TokenTransferList groups the adjustments of one token.
type TokenTransferList struct {
	Token            TokenID         `json:"token"`
	ExpectedDecimals *uint32         `json:"expected_decimals,omitempty"`
	Transfers        []AccountAmount `json:"transfers,omitempty"`
	NftTransfers     []NftTransfer   `json:"nft_transfers,omitempty"`
}

// IsNonFungible returns true if the list only carries ownership changes
func (l TokenTransferList) IsNonFungible() bool {
	return len(l.NftTransfers) > 0
}

// TransferInstruction is the raw body of a crypto transfer.
type TransferInstruction struct {
	HbarAdjusts    []AccountAmount     `json:"hbar_adjusts,omitempty"`
	TokenTransfers []TokenTransferList `json:"token_transfers,omitempty"`
}

// HasAliases returns true if any reference in the instruction is in alias form
func (ti TransferInstruction) HasAliases() bool {
	for _, aa := range ti.HbarAdjusts {
		if aa.Account.IsAlias() {
			return true
		}
	}
	for _, tl := range ti.TokenTransfers {
		for _, aa := range tl.Transfers {
			if aa.Account.IsAlias() {
				return true
			}
		}
		for _, nt := range tl.NftTransfers {
			if nt.Sender.IsAlias() || nt.Receiver.IsAlias() {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy of the instruction
func (ti TransferInstruction) Clone() TransferInstruction {
	out := TransferInstruction{
		HbarAdjusts: append([]AccountAmount(nil), ti.HbarAdjusts...),
	}
	if len(ti.TokenTransfers) > 0 {
		out.TokenTransfers = make([]TokenTransferList, len(ti.TokenTransfers))
		for i, tl := range ti.TokenTransfers {
			cp := tl
			if tl.ExpectedDecimals != nil {
				d := *tl.ExpectedDecimals
				cp.ExpectedDecimals = &d
			}
			cp.Transfers = append([]AccountAmount(nil), tl.Transfers...)
			cp.NftTransfers = append([]NftTransfer(nil), tl.NftTransfers...)
			out.TokenTransfers[i] = cp
		}
	}
	return out
}
