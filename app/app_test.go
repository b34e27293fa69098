package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Montana/dirt/config"
)

type stubApp struct{ name string }

func (s *stubApp) Name() string { return s.name }
func (s *stubApp) API() any     { return s }

func TestRegisterLookupBuild(t *testing.T) {
	Register("app_test.Stub", func(settings config.AppSettings) (App, error) {
		return &stubApp{name: "stub"}, nil
	})

	factory, ok := Lookup("app_test.Stub")
	require.True(t, ok)
	built, err := factory(config.AppSettings{})
	require.NoError(t, err)
	assert.Equal(t, "stub", built.Name())

	built2, err := Build("app_test.Stub", config.AppSettings{})
	require.NoError(t, err)
	assert.Equal(t, "stub", built2.Name())
}

func TestBuildUnregisteredAppClassErrors(t *testing.T) {
	_, err := Build("app_test.Nonexistent", config.AppSettings{})
	require.Error(t, err)
}

func TestLookupUnregisteredReportsNotFound(t *testing.T) {
	_, ok := Lookup("app_test.DoesNotExist")
	assert.False(t, ok)
}
