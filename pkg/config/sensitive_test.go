package config

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSensitiveString_String(t *testing.T) {
	t.Run("Should redact non-empty values", func(t *testing.T) {
		s := SensitiveString("secret-token-123")
		assert.Equal(t, "[REDACTED]", s.String())
		assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", s))
	})

	t.Run("Should return empty string for empty values", func(t *testing.T) {
		assert.Equal(t, "", SensitiveString("").String())
	})
}

func TestSensitiveString_Value(t *testing.T) {
	t.Run("Should return actual value", func(t *testing.T) {
		assert.Equal(t, "my-token", SensitiveString("my-token").Value())
	})
}

func TestSensitiveString_Marshal(t *testing.T) {
	type holder struct {
		Token SensitiveString `json:"token" yaml:"token"`
		Name  string          `json:"name"  yaml:"name"`
	}

	t.Run("Should marshal JSON as redacted string", func(t *testing.T) {
		data, err := json.Marshal(holder{Token: "abc", Name: "admin"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"token":"[REDACTED]","name":"admin"}`, string(data))
	})

	t.Run("Should marshal YAML as redacted string", func(t *testing.T) {
		data, err := yaml.Marshal(holder{Token: "abc", Name: "admin"})
		require.NoError(t, err)
		assert.Contains(t, string(data), "token: '[REDACTED]'")
		assert.NotContains(t, string(data), "abc")
	})

	t.Run("Should unmarshal JSON into the raw value", func(t *testing.T) {
		var s SensitiveString
		require.NoError(t, json.Unmarshal([]byte(`"secret-value"`), &s))
		assert.Equal(t, "secret-value", s.Value())
	})
}
