package tokenops

import (
	"time"

	"github.com/code-payments/code-token-cli/pkg/config"
	"github.com/code-payments/code-token-cli/pkg/config/env"
	"github.com/code-payments/code-token-cli/pkg/config/memory"
	"github.com/code-payments/code-token-cli/pkg/config/wrapper"
)

const (
	envConfigPrefix = "TOKEN_OPS_"

	ComputeUnitPriceConfigEnvName = envConfigPrefix + "COMPUTE_UNIT_PRICE"
	defaultComputeUnitPrice       = 0

	ComputeUnitLimitConfigEnvName = envConfigPrefix + "COMPUTE_UNIT_LIMIT"
	defaultComputeUnitLimit       = 0

	SubmitCommitmentConfigEnvName = envConfigPrefix + "SUBMIT_COMMITMENT"
	defaultSubmitCommitment       = "confirmed"

	ValidateMetadataLengthsConfigEnvName = envConfigPrefix + "VALIDATE_METADATA_LENGTHS"
	defaultValidateMetadataLengths       = true

	SubmitTimeoutConfigEnvName = envConfigPrefix + "SUBMIT_TIMEOUT"
	defaultSubmitTimeout       = 30 * time.Second
)

type conf struct {
	computeUnitPrice        config.Uint64
	computeUnitLimit        config.Uint64
	submitCommitment        config.String
	validateMetadataLengths config.Bool
	submitTimeout           config.Duration
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			computeUnitPrice:        env.NewUint64Config(ComputeUnitPriceConfigEnvName, defaultComputeUnitPrice),
			computeUnitLimit:        env.NewUint64Config(ComputeUnitLimitConfigEnvName, defaultComputeUnitLimit),
			submitCommitment:        env.NewStringConfig(SubmitCommitmentConfigEnvName, defaultSubmitCommitment),
			validateMetadataLengths: env.NewBoolConfig(ValidateMetadataLengthsConfigEnvName, defaultValidateMetadataLengths),
			submitTimeout:           env.NewDurationConfig(SubmitTimeoutConfigEnvName, defaultSubmitTimeout),
		}
	}
}

// Overrides are explicit values that take precedence over the defaults, for
// callers such as the CLI that take settings from flags.
type Overrides struct {
	ComputeUnitPrice        *uint64
	ComputeUnitLimit        *uint64
	SubmitCommitment        *string
	ValidateMetadataLengths *bool
	SubmitTimeout           *time.Duration
}

// WithOverrides layers overrides on top of the environment. Unset overrides
// fall back to the environment, then to the defaults.
func WithOverrides(overrides *Overrides) ConfigProvider {
	return func() *conf {
		c := WithEnvConfigs()()
		if overrides.ComputeUnitPrice != nil {
			c.computeUnitPrice = wrapper.NewUint64Config(memory.NewConfig(*overrides.ComputeUnitPrice), defaultComputeUnitPrice)
		}
		if overrides.ComputeUnitLimit != nil {
			c.computeUnitLimit = wrapper.NewUint64Config(memory.NewConfig(*overrides.ComputeUnitLimit), defaultComputeUnitLimit)
		}
		if overrides.SubmitCommitment != nil {
			c.submitCommitment = wrapper.NewStringConfig(memory.NewConfig(*overrides.SubmitCommitment), defaultSubmitCommitment)
		}
		if overrides.ValidateMetadataLengths != nil {
			c.validateMetadataLengths = wrapper.NewBoolConfig(memory.NewConfig(*overrides.ValidateMetadataLengths), defaultValidateMetadataLengths)
		}
		if overrides.SubmitTimeout != nil {
			c.submitTimeout = wrapper.NewDurationConfig(memory.NewConfig(*overrides.SubmitTimeout), defaultSubmitTimeout)
		}
		return c
	}
}

type testOverrides struct {
	computeUnitPrice        uint64
	computeUnitLimit        uint64
	disableMetadataValidate bool
	submitTimeout           time.Duration
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			computeUnitPrice:        wrapper.NewUint64Config(memory.NewConfig(overrides.computeUnitPrice), defaultComputeUnitPrice),
			computeUnitLimit:        wrapper.NewUint64Config(memory.NewConfig(overrides.computeUnitLimit), defaultComputeUnitLimit),
			submitCommitment:        wrapper.NewStringConfig(memory.NewConfig(defaultSubmitCommitment), defaultSubmitCommitment),
			validateMetadataLengths: wrapper.NewBoolConfig(memory.NewConfig(!overrides.disableMetadataValidate), defaultValidateMetadataLengths),
			submitTimeout:           wrapper.NewDurationConfig(memory.NewConfig(overrides.submitTimeout), defaultSubmitTimeout),
		}
	}
}
