package registry

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// CNSRegistryABI is the read-only subset of the CNS Registry contract.
const CNSRegistryABI = `[
	{"inputs":[{"name":"tokenId","type":"uint256"}],"name":"resolverOf","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"}
]`

// CNSResolverABI is the read-only subset of the CNS Resolver contract.
const CNSResolverABI = `[
	{"inputs":[{"name":"key","type":"string"},{"name":"tokenId","type":"uint256"}],"name":"get","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"}
]`

// ENSRegistryABI is the read-only subset of the ENS Registry contract.
const ENSRegistryABI = `[
	{"inputs":[{"name":"node","type":"bytes32"}],"name":"resolver","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"node","type":"bytes32"}],"name":"owner","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"}
]`

// ENSResolverABI is the read-only subset of the ENS PublicResolver contract.
const ENSResolverABI = `[
	{"inputs":[{"name":"node","type":"bytes32"}],"name":"addr","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"node","type":"bytes32"},{"name":"key","type":"string"}],"name":"text","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"}
]`

var (
	cnsRegistryABI = mustParseABI(CNSRegistryABI)
	cnsResolverABI = mustParseABI(CNSResolverABI)
	ensRegistryABI = mustParseABI(ENSRegistryABI)
	ensResolverABI = mustParseABI(ENSResolverABI)
)

func mustParseABI(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(err)
	}
	return parsed
}
