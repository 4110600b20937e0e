package contract

import (
	"bytes"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// digitalNftABI is the contract ABI for the functions, events, and custom
// errors the client consumes.
const digitalNftABI = `[
  {"type":"function","name":"mintNft","stateMutability":"payable","inputs":[{"name":"dogType","type":"uint8"}],"outputs":[]},
  {"type":"function","name":"evolve","stateMutability":"payable","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"tokenURI","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"ownerOf","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"getTokenCounter","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getDogTokenUri","stateMutability":"view","inputs":[{"name":"dogType","type":"uint8"}],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"getDog","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"tuple","components":[{"name":"dogType","type":"uint8"},{"name":"evolved","type":"bool"}]}]},
  {"type":"function","name":"getMintPrice","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getEvolvePrice","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"event","name":"NFTMinted","anonymous":false,"inputs":[{"name":"tokenId","type":"uint256","indexed":false},{"name":"requester","type":"address","indexed":false}]},
  {"type":"event","name":"NFTEvolved","anonymous":false,"inputs":[{"name":"tokenId","type":"uint256","indexed":false}]},
  {"type":"error","name":"DigitalNft__InvalidMintType","inputs":[]},
  {"type":"error","name":"DigitalNft__InsufficientETHSent","inputs":[]},
  {"type":"error","name":"DigitalNft__InvalidOwner","inputs":[]},
  {"type":"error","name":"DigitalNft__InvalidTokenId","inputs":[]},
  {"type":"error","name":"DigitalNft__NftAlreadyEvolved","inputs":[]}
]`

var (
	parsedABIOnce sync.Once
	parsedABI     abi.ABI
	parsedABIErr  error
)

// ParsedABI returns the parsed DigitalNft ABI.
func ParsedABI() (abi.ABI, error) {
	parsedABIOnce.Do(func() {
		parsedABI, parsedABIErr = abi.JSON(strings.NewReader(digitalNftABI))
	})
	return parsedABI, parsedABIErr
}

// RevertReason maps revert data from a failed call back to the contract's
// custom error signature ("DigitalNft__InvalidOwner()"). Returns false when
// the data does not match a known custom error.
func RevertReason(data []byte) (string, bool) {
	if len(data) < 4 {
		return "", false
	}
	parsed, err := ParsedABI()
	if err != nil {
		return "", false
	}
	for name, e := range parsed.Errors {
		if bytes.Equal(e.ID.Bytes()[:4], data[:4]) {
			return name + "()", true
		}
	}
	return "", false
}
