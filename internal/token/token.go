// Package token provides the domain model for DigitalNft dog tokens.
package token

import (
	"fmt"
	"math/big"
	"strings"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
)

// DogType identifies one of the fixed dog categories minted by the
// DigitalNft contract. The numeric values match the contract enum.
type DogType uint8

const (
	BabyPug DogType = iota
	BabyShibaInu
	BabyStBernard
	AdultPug
	AdultShibaInu
	AdultStBernard
)

// MintableTypeCount is the number of dog types accepted by mintNft.
// Only baby types are mintable; adult types exist only through evolution.
const MintableTypeCount = 3

// UnknownDogType is a sentinel outside the contract enum.
const UnknownDogType DogType = 0xFF

// dogTypeNames maps contract enum values to display names.
var dogTypeNames = map[DogType]string{
	BabyPug:        "BABY_PUG",
	BabyShibaInu:   "BABY_SHIBA_INU",
	BabyStBernard:  "BABY_ST_BERNARD",
	AdultPug:       "ADULT_PUG",
	AdultShibaInu:  "ADULT_SHIBA_INU",
	AdultStBernard: "ADULT_ST_BERNARD",
}

// String returns the canonical enum name for the dog type.
func (d DogType) String() string {
	if name, ok := dogTypeNames[d]; ok {
		return name
	}
	return fmt.Sprintf("DOG_TYPE(%d)", uint8(d))
}

// IsValid reports whether the value is a member of the contract enum.
func (d DogType) IsValid() bool {
	_, ok := dogTypeNames[d]
	return ok
}

// IsMintable reports whether mintNft accepts this type.
func (d DogType) IsMintable() bool {
	return uint8(d) < MintableTypeCount
}

// Evolved returns the adult counterpart of a baby type.
func (d DogType) Evolved() (DogType, bool) {
	if !d.IsMintable() {
		return d, false
	}
	return d + MintableTypeCount, true
}

// ParseDogType resolves a canonical enum name to its value.
func ParseDogType(name string) (DogType, error) {
	for d, n := range dogTypeNames {
		if n == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown dog type: %q", name)
}

// MintableTypes returns the mintable types in enum order.
func MintableTypes() []DogType {
	return []DogType{BabyPug, BabyShibaInu, BabyStBernard}
}

// Token is the client-side view of one minted dog NFT.
// IDs are assigned sequentially by the contract starting at zero.
type Token struct {
	ID      uint64
	Owner   common.Address
	URI     string
	Evolved bool
}

// Metadata is the off-chain token metadata document referenced by a
// token URI. Image is itself a content-addressed URI.
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Dog mirrors the contract's getDog return struct.
type Dog struct {
	DogType DogType
	Evolved bool
}

// Default payment amounts, in native-currency decimal units. The
// on-chain getMintPrice/getEvolvePrice calls remain authoritative;
// these back the CLI when a session is not yet established.
const (
	DefaultMintPrice   = "0.001"
	DefaultEvolvePrice = "0.0005"
)

// ParseNative converts a decimal native-currency amount ("0.001") to wei.
func ParseNative(amount string) (*big.Int, error) {
	dec, err := sdkmath.LegacyNewDecFromStr(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid native amount %q: %w", amount, err)
	}
	wei := dec.MulInt(sdkmath.NewIntFromUint64(params.Ether)).TruncateInt()
	if wei.IsNegative() {
		return nil, fmt.Errorf("negative native amount %q", amount)
	}
	return wei.BigInt(), nil
}

// FormatNative renders a wei amount as a trimmed decimal string.
func FormatNative(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	dec := sdkmath.LegacyNewDecFromBigIntWithPrec(new(big.Int).Set(wei), sdkmath.LegacyPrecision)
	s := strings.TrimRight(dec.String(), "0")
	return strings.TrimSuffix(s, ".")
}
