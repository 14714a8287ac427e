package tokenops

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/code-payments/code-token-cli/pkg/pointer"
)

func TestWithEnvConfigs(t *testing.T) {
	ctx := context.Background()

	c := WithEnvConfigs()()
	assert.EqualValues(t, defaultComputeUnitPrice, c.computeUnitPrice.Get(ctx))
	assert.Equal(t, defaultSubmitCommitment, c.submitCommitment.Get(ctx))
	assert.True(t, c.validateMetadataLengths.Get(ctx))
	assert.Equal(t, defaultSubmitTimeout, c.submitTimeout.Get(ctx))

	t.Setenv(ComputeUnitPriceConfigEnvName, "750")
	t.Setenv(ValidateMetadataLengthsConfigEnvName, "false")
	t.Setenv(SubmitTimeoutConfigEnvName, "5")

	c = WithEnvConfigs()()
	assert.EqualValues(t, 750, c.computeUnitPrice.Get(ctx))
	assert.False(t, c.validateMetadataLengths.Get(ctx))
	assert.Equal(t, 5*time.Second, c.submitTimeout.Get(ctx))
}

func TestWithOverrides(t *testing.T) {
	ctx := context.Background()

	t.Setenv(ComputeUnitPriceConfigEnvName, "750")
	t.Setenv(ComputeUnitLimitConfigEnvName, "100000")
	t.Setenv(SubmitCommitmentConfigEnvName, "finalized")

	c := WithOverrides(&Overrides{
		ComputeUnitPrice:        pointer.To[uint64](1_000),
		ValidateMetadataLengths: pointer.To(false),
		SubmitTimeout:           pointer.To(time.Minute),
	})()

	// Overridden values win over the environment.
	assert.EqualValues(t, 1_000, c.computeUnitPrice.Get(ctx))
	assert.False(t, c.validateMetadataLengths.Get(ctx))
	assert.Equal(t, time.Minute, c.submitTimeout.Get(ctx))

	// Unset overrides fall back to the environment.
	assert.EqualValues(t, 100_000, c.computeUnitLimit.Get(ctx))
	assert.Equal(t, "finalized", c.submitCommitment.Get(ctx))

	c = WithOverrides(&Overrides{ComputeUnitPrice: pointer.To[uint64](0)})()
	assert.EqualValues(t, 0, c.computeUnitPrice.Get(ctx))
}
