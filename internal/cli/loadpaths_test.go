package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The SRID flag default must not be frozen at command construction: the
// environment (.env) is only loaded by the root command's PersistentPreRun,
// so a configured SRID has to win over any build-time fallback when the
// flag is left unset.
func TestLoadPathsSRIDDefaultsFromConfigAtRunTime(t *testing.T) {
	cmd := newLoadPathsCmd()
	flag := cmd.Flags().Lookup("srid")
	require.NotNil(t, flag)
	assert.Equal(t, "0", flag.DefValue)

	t.Setenv("SRID", "4326")
	assert.Equal(t, 4326, resolveSRID(0))
}

func TestLoadPathsSRIDFlagWinsWhenSet(t *testing.T) {
	t.Setenv("SRID", "4326")
	assert.Equal(t, 2154, resolveSRID(2154))
}
