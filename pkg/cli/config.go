// Package cli loads the settings shared with the Solana command line tools.
package cli

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/code-payments/code-token-cli/pkg/keypair"
	"github.com/code-payments/code-token-cli/pkg/solana"
)

// Config mirrors the Solana CLI config file, usually found at
// ~/.config/solana/cli/config.yml, plus the settings of this tool.
type Config struct {
	JsonRpcUrl   string `mapstructure:"json_rpc_url"`
	WebsocketUrl string `mapstructure:"websocket_url"`
	KeypairPath  string `mapstructure:"keypair_path"`
	Commitment   string `mapstructure:"commitment"`

	BridgeProgramId    string `mapstructure:"bridge_program_id"`
	LogLevel           string `mapstructure:"log_level"`
	NewRelicLicenseKey string `mapstructure:"new_relic_license_key"`
}

var defaultConfig = Config{
	JsonRpcUrl:  string(solana.EnvironmentProd),
	KeypairPath: filepath.Join("~", ".config", "solana", "id.json"),
	Commitment:  "confirmed",
	LogLevel:    "warn",
}

// DefaultConfigPath is where the Solana CLI keeps its config file.
func DefaultConfigPath() string {
	path, err := keypair.ExpandHome(filepath.Join("~", ".config", "solana", "cli", "config.yml"))
	if err != nil {
		return ""
	}
	return path
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	_ = v.BindEnv("json_rpc_url", "SOLANA_JSON_RPC_URL")
	_ = v.BindEnv("websocket_url", "SOLANA_WEBSOCKET_URL")
	_ = v.BindEnv("keypair_path", "SOLANA_KEYPAIR_PATH")
	_ = v.BindEnv("commitment", "SOLANA_COMMITMENT")

	_ = v.BindEnv("bridge_program_id", "BRIDGE_PROGRAM_ID")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("new_relic_license_key", "NEW_RELIC_LICENSE_KEY")

	return v
}

// LoadConfig reads the config file at path. A missing file yields the
// defaults, as the Solana CLI does. Environment variables take precedence
// over the file.
func LoadConfig(path string) (*Config, error) {
	v := newViper()

	if len(path) > 0 {
		expanded, err := keypair.ExpandHome(path)
		if err != nil {
			return nil, err
		}

		if _, err := os.Stat(expanded); err == nil {
			v.SetConfigFile(expanded)
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Wrapf(err, "failed to read config %s", expanded)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to check config %s", expanded)
		}
	}

	config := defaultConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	config.JsonRpcUrl = solana.EndpointFromMoniker(config.JsonRpcUrl)
	if len(config.WebsocketUrl) == 0 {
		config.WebsocketUrl = WebsocketURL(config.JsonRpcUrl)
	}

	return &config, nil
}

// WebsocketURL derives the pubsub endpoint of an RPC URL: the scheme becomes
// ws or wss and an explicit port is incremented by one.
func WebsocketURL(rpcURL string) string {
	parsed, err := url.Parse(rpcURL)
	if err != nil || len(parsed.Host) == 0 {
		return ""
	}

	switch strings.ToLower(parsed.Scheme) {
	case "https":
		parsed.Scheme = "wss"
	default:
		parsed.Scheme = "ws"
	}

	if port := parsed.Port(); len(port) > 0 {
		if n, err := strconv.Atoi(port); err == nil {
			parsed.Host = parsed.Hostname() + ":" + strconv.Itoa(n+1)
		}
	}

	return parsed.String()
}
