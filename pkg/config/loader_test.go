package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundscope/authd/pkg/config"
)

type testConfig struct {
	Name    string        `env:"CONFIG_TEST_NAME" envDefault:"authd"`
	Timeout time.Duration `env:"CONFIG_TEST_TIMEOUT" envDefault:"5s"`
}

type requiredConfig struct {
	Secret string `env:"CONFIG_TEST_REQUIRED_SECRET,required"`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		var cfg testConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "authd", cfg.Name)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("reads environment overrides", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_OVERRIDE", "from-env")

		type overrideConfig struct {
			Value string `env:"CONFIG_TEST_OVERRIDE"`
		}
		var cfg overrideConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "from-env", cfg.Value)
	})

	t.Run("fails on missing required variable", func(t *testing.T) {
		var cfg requiredConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("returns cached value on repeat load", func(t *testing.T) {
		var first testConfig
		require.NoError(t, config.Load(&first))

		var second testConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, first, second)
	})

	t.Run("rejects nil pointer", func(t *testing.T) {
		err := config.Load[testConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})
}
