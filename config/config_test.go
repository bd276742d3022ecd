package config

import (
	"testing"

	"github.com/rpupo63/inventory-catalog/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("INVENTORY_TEST_KEY", "a=b")

	c := New()
	assert.Equal(t, "a=b", c["INVENTORY_TEST_KEY"])
}

func TestGetters(t *testing.T) {
	c := map[string]string{
		"PORT":             "9090",
		"BAD_INT":          "nine",
		"SEED_CATEGORIES":  "false",
		"BAD_BOOL":         "maybe",
		"ACCEPTED_ORIGINS": " http://a.test, ,http://b.test ",
	}

	assert.Equal(t, 9090, GetInt(c, "PORT", 8080))
	assert.Equal(t, 8080, GetInt(c, "BAD_INT", 8080))
	assert.Equal(t, 8080, GetInt(c, "MISSING", 8080))
	assert.Equal(t, 8080, GetInt(nil, "PORT", 8080))

	assert.False(t, GetBool(c, "SEED_CATEGORIES", true))
	assert.True(t, GetBool(c, "BAD_BOOL", true))
	assert.True(t, GetBool(c, "MISSING", true))

	assert.Equal(t, "fallback", GetString(c, "MISSING", "fallback"))
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, GetList(c, "ACCEPTED_ORIGINS"))
	assert.Nil(t, GetList(c, "MISSING"))
}

func TestRequire(t *testing.T) {
	c := map[string]string{"JWT_SECRET": "s3cret", "BLANK": "  "}

	val, err := Require(c, "JWT_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", val)

	_, err = Require(c, "BLANK")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConfigMissing)
	assert.True(t, errs.IsInternal(err))
}
