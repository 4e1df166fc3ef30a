package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetters(t *testing.T) {
	t.Setenv("IRREG_STR", "value")
	t.Setenv("IRREG_INT", "42")
	t.Setenv("IRREG_BAD_INT", "forty-two")
	t.Setenv("IRREG_BOOL", "true")
	t.Setenv("IRREG_DURATION", "90s")
	t.Setenv("IRREG_BAD_DURATION", "soon")

	assert.Equal(t, "value", GetString("IRREG_STR", "fallback"))
	assert.Equal(t, "fallback", GetString("IRREG_MISSING", "fallback"))

	assert.Equal(t, 42, GetInt("IRREG_INT", 1))
	assert.Equal(t, 1, GetInt("IRREG_BAD_INT", 1))
	assert.Equal(t, 1, GetInt("IRREG_MISSING", 1))

	assert.True(t, GetBool("IRREG_BOOL", false))
	assert.False(t, GetBool("IRREG_MISSING", false))

	assert.Equal(t, 90*time.Second, GetDuration("IRREG_DURATION", time.Minute))
	assert.Equal(t, time.Minute, GetDuration("IRREG_BAD_DURATION", time.Minute))
}
