package iwl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompatibleWithOwnSource(t *testing.T) {
	for d := 1; d <= 3; d++ {
		for _, c := range Configurations(d) {
			assert.True(t, Compatible(c, c.Source()), "configuration %s", c)
		}
	}
}

func TestCompatibleIsOneSided(t *testing.T) {
	uniform := Distribution{0.25, 0.25, 0.25, 0.25}
	// the source may vanish where p does not
	assert.True(t, Compatible(Configuration{Fixed0, Fixed1}, uniform))
	assert.True(t, Compatible(Configuration{Free, Fixed1}, uniform))

	diagonal := Distribution{0.5, 0, 0, 0.5}
	// but never put mass on a hole of p
	assert.False(t, Compatible(Configuration{Fixed0, Free}, diagonal))
	assert.False(t, Compatible(Configuration{Free, Free}, diagonal))
	assert.True(t, Compatible(Configuration{Fixed1, Fixed1}, diagonal))
	assert.False(t, Compatible(Configuration{Fixed0, Fixed1}, diagonal))
}

func TestCompatibleSourceLengthMismatch(t *testing.T) {
	assert.False(t, CompatibleSource(Distribution{0.5, 0.5}, Distribution{0.25, 0.25, 0.25, 0.25}))
}
