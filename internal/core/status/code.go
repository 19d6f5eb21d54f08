package status

import "fmt"

// ResponseCode is the outcome of validating or assessing a transfer.
type ResponseCode int

// Response codes, grouped by the stage that produces them.
const (
	OK           ResponseCode = 0
	FailInvalid  ResponseCode = 1
	NotSupported ResponseCode = 2

	// Structural and semantic transfer-list failures (100-199)
	InvalidAccountID                   ResponseCode = 100
	InvalidTokenID                     ResponseCode = 101
	InvalidAliasKey                    ResponseCode = 102
	InvalidAccountAmounts              ResponseCode = 103
	AccountRepeatedInAccountAmounts    ResponseCode = 104
	TransferListSizeLimitExceeded      ResponseCode = 105
	TokenTransferListSizeLimitExceeded ResponseCode = 106
	EmptyTokenTransferAccountAmounts   ResponseCode = 107
	BatchSizeLimitExceeded             ResponseCode = 108
	TransfersNotZeroSumForToken        ResponseCode = 109
	TokenIDRepeatedInTokenList         ResponseCode = 110
	EmptyTokenTransferBody             ResponseCode = 111

	// Balance failures reported by the ledger that applies the changes (200-299)
	InsufficientAccountBalance                   ResponseCode = 200
	InsufficientTokenBalance                     ResponseCode = 201
	SenderDoesNotOwnNftSerialNo                  ResponseCode = 202
	InsufficientPayerBalanceForCustomFee         ResponseCode = 203
	InsufficientSenderAccountBalanceForCustomFee ResponseCode = 204

	// Custom fee assessment failures (300-399)
	CustomFeeChargingExceededMaxRecursionDepth ResponseCode = 300
	CustomFeeChargingExceededMaxAccountAmounts ResponseCode = 301
	CustomFeeOutsideNumericRange               ResponseCode = 302

	// Custom fee construction failures (400-499)
	FractionDividesByZero                           ResponseCode = 400
	CustomFeeMustBePositive                         ResponseCode = 401
	FractionalFeeMaxAmountLessThanMinAmount         ResponseCode = 402
	CustomFeeNotFullySpecified                      ResponseCode = 403
	RoyaltyFractionCannotExceedOne                  ResponseCode = 404
	CustomFractionalFeeOnlyAllowedForFungibleCommon ResponseCode = 405
	CustomRoyaltyFeeOnlyAllowedForNonFungibleUnique ResponseCode = 406
	CustomFeeDenominationMustBeFungibleCommon       ResponseCode = 407
	InvalidCustomFeeCollector                       ResponseCode = 408
)

var codeNames = map[ResponseCode]string{
	OK:           "OK",
	FailInvalid:  "FAIL_INVALID",
	NotSupported: "NOT_SUPPORTED",

	InvalidAccountID:                   "INVALID_ACCOUNT_ID",
	InvalidTokenID:                     "INVALID_TOKEN_ID",
	InvalidAliasKey:                    "INVALID_ALIAS_KEY",
	InvalidAccountAmounts:              "INVALID_ACCOUNT_AMOUNTS",
	AccountRepeatedInAccountAmounts:    "ACCOUNT_REPEATED_IN_ACCOUNT_AMOUNTS",
	TransferListSizeLimitExceeded:      "TRANSFER_LIST_SIZE_LIMIT_EXCEEDED",
	TokenTransferListSizeLimitExceeded: "TOKEN_TRANSFER_LIST_SIZE_LIMIT_EXCEEDED",
	EmptyTokenTransferAccountAmounts:   "EMPTY_TOKEN_TRANSFER_ACCOUNT_AMOUNTS",
	BatchSizeLimitExceeded:             "BATCH_SIZE_LIMIT_EXCEEDED",
	TransfersNotZeroSumForToken:        "TRANSFERS_NOT_ZERO_SUM_FOR_TOKEN",
	TokenIDRepeatedInTokenList:         "TOKEN_ID_REPEATED_IN_TOKEN_LIST",
	EmptyTokenTransferBody:             "EMPTY_TOKEN_TRANSFER_BODY",

	InsufficientAccountBalance:                   "INSUFFICIENT_ACCOUNT_BALANCE",
	InsufficientTokenBalance:                     "INSUFFICIENT_TOKEN_BALANCE",
	SenderDoesNotOwnNftSerialNo:                  "SENDER_DOES_NOT_OWN_NFT_SERIAL_NO",
	InsufficientPayerBalanceForCustomFee:         "INSUFFICIENT_PAYER_BALANCE_FOR_CUSTOM_FEE",
	InsufficientSenderAccountBalanceForCustomFee: "INSUFFICIENT_SENDER_ACCOUNT_BALANCE_FOR_CUSTOM_FEE",

	CustomFeeChargingExceededMaxRecursionDepth: "CUSTOM_FEE_CHARGING_EXCEEDED_MAX_RECURSION_DEPTH",
	CustomFeeChargingExceededMaxAccountAmounts: "CUSTOM_FEE_CHARGING_EXCEEDED_MAX_ACCOUNT_AMOUNTS",
	CustomFeeOutsideNumericRange:               "CUSTOM_FEE_OUTSIDE_NUMERIC_RANGE",

	FractionDividesByZero:                           "FRACTION_DIVIDES_BY_ZERO",
	CustomFeeMustBePositive:                         "CUSTOM_FEE_MUST_BE_POSITIVE",
	FractionalFeeMaxAmountLessThanMinAmount:         "FRACTIONAL_FEE_MAX_AMOUNT_LESS_THAN_MIN_AMOUNT",
	CustomFeeNotFullySpecified:                      "CUSTOM_FEE_NOT_FULLY_SPECIFIED",
	RoyaltyFractionCannotExceedOne:                  "ROYALTY_FRACTION_CANNOT_EXCEED_ONE",
	CustomFractionalFeeOnlyAllowedForFungibleCommon: "CUSTOM_FRACTIONAL_FEE_ONLY_ALLOWED_FOR_FUNGIBLE_COMMON",
	CustomRoyaltyFeeOnlyAllowedForNonFungibleUnique: "CUSTOM_ROYALTY_FEE_ONLY_ALLOWED_FOR_NON_FUNGIBLE_UNIQUE",
	CustomFeeDenominationMustBeFungibleCommon:       "CUSTOM_FEE_DENOMINATION_MUST_BE_FUNGIBLE_COMMON",
	InvalidCustomFeeCollector:                       "INVALID_CUSTOM_FEE_COLLECTOR",
}

var codesByName = func() map[string]ResponseCode {
	m := make(map[string]ResponseCode, len(codeNames))
	for code, name := range codeNames {
		m[name] = code
	}
	return m
}()

// String returns the canonical upper snake case name of the code
func (c ResponseCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(c))
}

// IsOK returns true if the code is OK
func (c ResponseCode) IsOK() bool {
	return c == OK
}

// IsAssessmentFailure returns true for failures produced while charging custom fees
func (c ResponseCode) IsAssessmentFailure() bool {
	return c >= 300 && c < 400
}

// IsConstructionFailure returns true for codes rejecting a custom fee definition
func (c ResponseCode) IsConstructionFailure() bool {
	return c >= 400 && c < 500
}

// Parse returns the code with the given canonical name.
func Parse(name string) (ResponseCode, error) {
	if code, ok := codesByName[name]; ok {
		return code, nil
	}
	return FailInvalid, fmt.Errorf("unknown response code %q", name)
}

// MarshalText implements encoding.TextMarshaler
func (c ResponseCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *ResponseCode) UnmarshalText(text []byte) error {
	code, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = code
	return nil
}
