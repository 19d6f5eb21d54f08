package assess

import (
	"github.com/LeJamon/goHederad/internal/core/customfee"
	"github.com/LeJamon/goHederad/internal/core/types"
)

// IsPayerExempt reports whether payer is excused from fee. The treasury never
// pays its own token's fees. When the fee exempts all collectors, so is any
// account collecting another fee of the same schedule.
func IsPayerExempt(meta *customfee.Meta, fee *customfee.CustomFee, payer types.AccountID) bool {
	if payer == meta.Treasury() {
		return true
	}
	if !fee.AllCollectorsExempt() {
		return false
	}
	for _, other := range meta.Fees() {
		if other != fee && other.Collector() == payer {
			return true
		}
	}
	return false
}
