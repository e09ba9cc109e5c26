package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePlatform(t *testing.T) {
	host := platform{os: "linux", arch: "amd64"}
	tests := []struct {
		name   string
		cross  platform
		board  string
		expect platform
	}{
		{name: "host", expect: host},
		{name: "cross", cross: platform{os: "linux", arch: "arm64"}, expect: platform{os: "linux", arch: "arm64"}},
		{name: "partial cross", cross: platform{os: "windows"}, expect: host},
		{name: "board", cross: platform{os: "linux", arch: "arm64"}, board: "nanopi", expect: platform{os: "linux", arch: "arm"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p, err := resolvePlatform(host, test.cross, test.board)
			require.NoError(t, err)
			assert.Equal(t, test.expect, p)
		})
	}
}

func TestResolvePlatform_UnknownBoard(t *testing.T) {
	_, err := resolvePlatform(platform{}, platform{}, "beaglebone")
	assert.Error(t, err)
}

func TestRunChecks(t *testing.T) {
	var ran []string
	ok := func(name string) check {
		return check{use: name, run: func() error { ran = append(ran, name); return nil }}
	}
	fail := check{use: "lint", run: func() error { return errors.New("boom") }}

	require.NoError(t, runChecks(ok("test"), ok("vet")))
	assert.Equal(t, []string{"test", "vet"}, ran)

	err := runChecks(ok("test"), fail, ok("never"))
	assert.EqualError(t, err, "lint failed: boom")
	assert.Equal(t, []string{"test", "vet", "test"}, ran)
}

func TestQualityCmds(t *testing.T) {
	var uses []string
	for _, c := range QualityCmds() {
		uses = append(uses, c.Use)
	}
	assert.Equal(t, []string{"test", "lint", "integration-test", "check"}, uses)
}
