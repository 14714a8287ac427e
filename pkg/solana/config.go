package solana

import "strings"

type Environment string

const (
	EnvironmentDev   Environment = "https://api.devnet.solana.com"
	EnvironmentTest  Environment = "https://api.testnet.solana.com"
	EnvironmentProd  Environment = "https://api.mainnet-beta.solana.com"
	EnvironmentLocal Environment = "http://localhost:8899"
)

// EndpointFromMoniker expands a cluster moniker, as accepted by the Solana
// CLI, into its RPC URL. Anything that is not a moniker is returned as is.
func EndpointFromMoniker(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "m", "mainnet-beta":
		return string(EnvironmentProd)
	case "t", "testnet":
		return string(EnvironmentTest)
	case "d", "devnet":
		return string(EnvironmentDev)
	case "l", "localhost":
		return string(EnvironmentLocal)
	}
	return value
}
