package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "none", info.Commit)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestStringIsOneLine(t *testing.T) {
	s := GetInfo().String()
	assert.Contains(t, s, "hostsync dev")
	assert.NotContains(t, s, "\n")
}
