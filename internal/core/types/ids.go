package types

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidEntityID is returned when a shard.realm.num string cannot be parsed
	ErrInvalidEntityID = errors.New("invalid entity id")
)

// EVMAddressLen is the length of an alias that names an EVM address.
const EVMAddressLen = 20

// AccountID identifies an account by shard, realm and number.
// The zero value is the missing account.
type AccountID struct {
	Shard int64
	Realm int64
	Num   int64
}

// MissingAccountID is substituted for references that cannot be resolved.
var MissingAccountID = AccountID{}

// IsMissing returns true if the id does not name any account
func (a AccountID) IsMissing() bool {
	return a == MissingAccountID
}

func (a AccountID) String() string {
	return formatEntity(a.Shard, a.Realm, a.Num)
}

// MarshalText implements encoding.TextMarshaler
func (a AccountID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (a *AccountID) UnmarshalText(text []byte) error {
	id, err := ParseAccountID(string(text))
	if err != nil {
		return err
	}
	*a = id
	return nil
}

// ParseAccountID parses an account id in "shard.realm.num" form
func ParseAccountID(s string) (AccountID, error) {
	shard, realm, num, err := parseEntity(s)
	if err != nil {
		return AccountID{}, err
	}
	return AccountID{Shard: shard, Realm: realm, Num: num}, nil
}

// TokenID identifies a token. The zero value denotes hbar, the native currency.
type TokenID struct {
	Shard int64
	Realm int64
	Num   int64
}

// Hbar is the denomination of native currency changes.
var Hbar = TokenID{}

// IsHbar returns true if the id denotes the native currency
func (t TokenID) IsHbar() bool {
	return t == Hbar
}

func (t TokenID) String() string {
	if t.IsHbar() {
		return "hbar"
	}
	return formatEntity(t.Shard, t.Realm, t.Num)
}

// MarshalText implements encoding.TextMarshaler
func (t TokenID) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *TokenID) UnmarshalText(text []byte) error {
	id, err := ParseTokenID(string(text))
	if err != nil {
		return err
	}
	*t = id
	return nil
}

// ParseTokenID parses a token id in "shard.realm.num" form; "hbar" and "" yield Hbar.
func ParseTokenID(s string) (TokenID, error) {
	if s == "" || s == "hbar" {
		return Hbar, nil
	}
	shard, realm, num, err := parseEntity(s)
	if err != nil {
		return TokenID{}, err
	}
	return TokenID{Shard: shard, Realm: realm, Num: num}, nil
}

// NftID identifies a single non-fungible unit.
type NftID struct {
	Token    TokenID
	SerialNo int64
}

func (n NftID) String() string {
	return fmt.Sprintf("%s/%d", n.Token, n.SerialNo)
}

// Alias is an alternate account name: the raw bytes of a serialized public key
// or a 20-byte EVM address. Stored as a string so it can key maps.
type Alias string

// AliasFromHex decodes a hex alias, with or without a 0x prefix.
func AliasFromHex(s string) (Alias, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("invalid alias %q: %w", s, err)
	}
	return Alias(raw), nil
}

// Bytes returns the raw alias bytes
func (a Alias) Bytes() []byte {
	return []byte(a)
}

// Hex returns the alias hex encoded with a 0x prefix
func (a Alias) Hex() string {
	return "0x" + hex.EncodeToString([]byte(a))
}

// IsEVMAddress returns true if the alias has the length of an EVM address
func (a Alias) IsEVMAddress() bool {
	return len(a) == EVMAddressLen
}

func (a Alias) String() string {
	return a.Hex()
}

// AccountRef is a reference to an account, either by id or by alias.
type AccountRef struct {
	ID    AccountID
	Alias Alias
}

// RefByID returns a reference naming the account directly
func RefByID(id AccountID) AccountRef {
	return AccountRef{ID: id}
}

// RefByAlias returns an alias-form reference
func RefByAlias(alias Alias) AccountRef {
	return AccountRef{Alias: alias}
}

// IsAlias returns true if the reference is in alias form
func (r AccountRef) IsAlias() bool {
	return len(r.Alias) > 0
}

func (r AccountRef) String() string {
	if r.IsAlias() {
		return r.Alias.Hex()
	}
	return r.ID.String()
}

// MarshalText implements encoding.TextMarshaler
func (r AccountRef) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText accepts "shard.realm.num" or a hex encoded alias.
func (r *AccountRef) UnmarshalText(text []byte) error {
	ref, err := ParseAccountRef(string(text))
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

// ParseAccountRef parses an account reference
func ParseAccountRef(s string) (AccountRef, error) {
	if strings.Contains(s, ".") {
		id, err := ParseAccountID(s)
		if err != nil {
			return AccountRef{}, err
		}
		return RefByID(id), nil
	}
	alias, err := AliasFromHex(s)
	if err != nil {
		return AccountRef{}, err
	}
	return RefByAlias(alias), nil
}

func formatEntity(shard, realm, num int64) string {
	return strconv.FormatInt(shard, 10) + "." + strconv.FormatInt(realm, 10) + "." + strconv.FormatInt(num, 10)
}

func parseEntity(s string) (int64, int64, int64, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidEntityID, s)
	}
	var out [3]int64
	for i, p := range parts {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil || v < 0 {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidEntityID, s)
		}
		out[i] = v
	}
	return out[0], out[1], out[2], nil
}
