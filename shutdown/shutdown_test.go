package shutdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShutdown_RunsHooksWithoutHandler(t *testing.T) {
	var ran []string

	BeforeShutdown(func() { ran = append(ran, "first") })
	BeforeShutdown(func() { ran = append(ran, "second") })

	Shutdown()

	assert.Equal(t, []string{"first", "second"}, ran)

	// Hooks are consumed; a second Shutdown is a no-op.
	Shutdown()
	assert.Len(t, ran, 2)
}
