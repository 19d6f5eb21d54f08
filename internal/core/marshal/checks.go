package marshal

import (
	"github.com/LeJamon/goHederad/internal/core/safemath"
	"github.com/LeJamon/goHederad/internal/core/status"
	"github.com/LeJamon/goHederad/internal/core/types"
)

// PureChecks validates a transfer without consulting any state.
type PureChecks struct{}

// FullPureValidation runs every check in a fixed order and returns the first failure.
func (c PureChecks) FullPureValidation(op types.TransferInstruction, props ValidationProps) status.ResponseCode {
	hbar := op.HbarAdjusts
	if c.HasRepeatedAccount(hbar) {
		return status.AccountRepeatedInAccountAmounts
	}
	if !c.IsNetZeroAdjustment(hbar) {
		return status.InvalidAccountAmounts
	}
	if len(hbar) > props.MaxHbarAdjusts {
		return status.TransferListSizeLimitExceeded
	}
	if !props.AreAllowancesEnabled && hasAllowanceTransfers(hbar) {
		return status.NotSupported
	}

	if code := c.ValidateTokenTransferSyntax(op.TokenTransfers, props); code != status.OK {
		return code
	}
	return c.ValidateTokenTransferSemantics(op.TokenTransfers)
}

// HasRepeatedAccount returns true if two adjustments name the same account
// with the same approval flag.
func (PureChecks) HasRepeatedAccount(adjusts []types.AccountAmount) bool {
	type key struct {
		account    types.AccountRef
		isApproval bool
	}
	seen := make(map[key]struct{}, len(adjusts))
	for _, aa := range adjusts {
		k := key{account: aa.Account, isApproval: aa.IsApproval}
		if _, ok := seen[k]; ok {
			return true
		}
		seen[k] = struct{}{}
	}
	return false
}

// IsNetZeroAdjustment returns true if the adjustments sum to zero without overflow
func (PureChecks) IsNetZeroAdjustment(adjusts []types.AccountAmount) bool {
	return netOf(adjusts) == 0
}

// ValidateTokenTransferSyntax checks the shape and size of the token lists.
func (PureChecks) ValidateTokenTransferSyntax(lists []types.TokenTransferList, props ValidationProps) status.ResponseCode {
	numAdjusts := 0
	numOwnershipChanges := 0
	for _, list := range lists {
		fungibleHere := len(list.Transfers)
		ownershipChangesHere := len(list.NftTransfers)
		if fungibleHere == 0 && ownershipChangesHere == 0 {
			return status.EmptyTokenTransferAccountAmounts
		}
		if !props.AreAllowancesEnabled && (hasAllowanceTransfers(list.Transfers) || hasAllowanceNftTransfers(list.NftTransfers)) {
			return status.NotSupported
		}
		if ownershipChangesHere > 0 {
			if !props.AreNftsEnabled {
				return status.NotSupported
			}
			if fungibleHere > 0 {
				return status.InvalidAccountAmounts
			}
			numOwnershipChanges += ownershipChangesHere
		} else {
			numAdjusts += fungibleHere
		}
	}
	if numOwnershipChanges > props.MaxOwnershipChanges {
		return status.BatchSizeLimitExceeded
	}
	if numAdjusts > props.MaxTokenAdjusts {
		return status.TokenTransferListSizeLimitExceeded
	}
	return status.OK
}

// ValidateTokenTransferSemantics checks ids, sums and repetitions in the token lists.
func (c PureChecks) ValidateTokenTransferSemantics(lists []types.TokenTransferList) status.ResponseCode {
	uniqueTokens := make(map[types.TokenID]struct{}, len(lists))
	for _, list := range lists {
		if code := c.validateScopedTransferSemantics(list); code != status.OK {
			return code
		}
		uniqueTokens[list.Token] = struct{}{}
	}
	if len(uniqueTokens) < len(lists) {
		return status.TokenIDRepeatedInTokenList
	}
	return status.OK
}

func (c PureChecks) validateScopedTransferSemantics(list types.TokenTransferList) status.ResponseCode {
	if list.Token.IsHbar() {
		return status.InvalidTokenID
	}
	for _, aa := range list.Transfers {
		if isUnset(aa.Account) {
			return status.InvalidAccountID
		}
	}
	if c.HasRepeatedAccount(list.Transfers) {
		return status.AccountRepeatedInAccountAmounts
	}
	if !c.IsNetZeroAdjustment(list.Transfers) {
		return status.TransfersNotZeroSumForToken
	}

	serials := make(map[int64]struct{}, len(list.NftTransfers))
	for _, nt := range list.NftTransfers {
		if isUnset(nt.Sender) || isUnset(nt.Receiver) {
			return status.InvalidAccountID
		}
		if nt.Sender == nt.Receiver {
			return status.AccountRepeatedInAccountAmounts
		}
		if _, ok := serials[nt.SerialNo]; ok {
			return status.InvalidAccountAmounts
		}
		serials[nt.SerialNo] = struct{}{}
	}
	return status.OK
}

func isUnset(ref types.AccountRef) bool {
	return !ref.IsAlias() && ref.ID.IsMissing()
}

// netOf returns the sum of adjusts, or 1 if the sum overflows.
func netOf(adjusts []types.AccountAmount) int64 {
	var net int64
	for _, aa := range adjusts {
		sum, err := safemath.AddExact(net, aa.Amount)
		if err != nil {
			return 1
		}
		net = sum
	}
	return net
}

func hasAllowanceTransfers(adjusts []types.AccountAmount) bool {
	for _, aa := range adjusts {
		if aa.IsApproval {
			return true
		}
	}
	return false
}

func hasAllowanceNftTransfers(transfers []types.NftTransfer) bool {
	for _, nt := range transfers {
		if nt.IsApproval {
			return true
		}
	}
	return false
}
