// Package config loads and validates the naming-service sources: which
// blockchain node each service talks to and which registry contract it reads.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/ruteri/domain-resolution/interfaces"
)

// Source configures one naming service.
type Source struct {
	// Disabled excludes the service from routing.
	Disabled bool `yaml:"disabled"`

	// URL is the blockchain node RPC endpoint.
	URL string `yaml:"url"`

	// Network selects the registry from the static table. Ignored when Registry is set.
	Network string `yaml:"network"`

	// Registry overrides the registry contract address.
	Registry string `yaml:"registry"`
}

// Config is the full resolution configuration.
type Config struct {
	CNS Source `yaml:"cns"`
	ZNS Source `yaml:"zns"`
	ENS Source `yaml:"ens"`

	// Content lists website content locations (ipfs://, s3://, file://), tried in order. Optional.
	Content []string `yaml:"content"`
}

// Default endpoints for mainnet.
const (
	DefaultEthereumURL = "https://cloudflare-eth.com"
	DefaultZilliqaURL  = "https://api.zilliqa.com"
	MainnetNetwork     = "mainnet"
)

// Registry contract addresses per network.
var (
	CNSRegistries = map[string]string{
		MainnetNetwork: "0xD1E5b0FF1287aA9f9A268759062E4Ab08b9Dacbe",
	}
	ZNSRegistries = map[string]string{
		MainnetNetwork: "0x9611c53BE6d1b32058b2747bdeCECed7e1216793",
	}
	ENSRegistries = map[string]string{
		MainnetNetwork: "0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e",
		"ropsten":      "0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e",
		"rinkeby":      "0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e",
		"goerli":       "0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e",
	}
)

// DefaultConfig returns mainnet sources for every service.
func DefaultConfig() *Config {
	return &Config{
		CNS: Source{URL: DefaultEthereumURL, Network: MainnetNetwork},
		ZNS: Source{URL: DefaultZilliqaURL, Network: MainnetNetwork},
		ENS: Source{URL: DefaultEthereumURL, Network: MainnetNetwork},
	}
}

// LoadFromPath reads a YAML config on top of the defaults.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resolution config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse resolution config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every enabled source can be dialed and mapped to a registry.
func (c *Config) Validate() error {
	if c.CNS.Disabled && c.ZNS.Disabled && c.ENS.Disabled {
		return interfaces.NewConfigurationError("all naming services are disabled")
	}

	for _, s := range []struct {
		name   string
		source Source
		table  map[string]string
	}{
		{"cns", c.CNS, CNSRegistries},
		{"zns", c.ZNS, ZNSRegistries},
		{"ens", c.ENS, ENSRegistries},
	} {
		if s.source.Disabled {
			continue
		}
		if _, err := s.source.registryAddress(s.name, s.table); err != nil {
			return err
		}
	}
	return nil
}

// CNSRegistry returns the CNS registry address for the configured network.
func (c *Config) CNSRegistry() (string, error) {
	return c.CNS.registryAddress("cns", CNSRegistries)
}

// ZNSRegistry returns the ZNS registry address for the configured network.
func (c *Config) ZNSRegistry() (string, error) {
	return c.ZNS.registryAddress("zns", ZNSRegistries)
}

// ENSRegistry returns the ENS registry address for the configured network.
func (c *Config) ENSRegistry() (string, error) {
	return c.ENS.registryAddress("ens", ENSRegistries)
}

func (s Source) registryAddress(name string, table map[string]string) (string, error) {
	if strings.TrimSpace(s.URL) == "" {
		return "", interfaces.NewConfigurationError("%s: url is required", name)
	}

	if s.Registry != "" {
		if !common.IsHexAddress(s.Registry) {
			return "", interfaces.NewConfigurationError("%s: invalid registry address %q", name, s.Registry)
		}
		return s.Registry, nil
	}

	if s.Network == "" {
		return "", interfaces.NewConfigurationError("%s: network or registry is required", name)
	}

	address, ok := table[strings.ToLower(s.Network)]
	if !ok {
		return "", interfaces.NewConfigurationError("%s: no registry known for network %q, set the registry address explicitly", name, s.Network)
	}
	return address, nil
}
