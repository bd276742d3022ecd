package catalog

import (
	"strings"
	"testing"

	"github.com/rpupo63/inventory-catalog/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTags(t *testing.T) {
	tags, err := NormalizeTags([]string{" Blue ", "blue", "", "   ", "ÉTÉ", "Green"})
	require.NoError(t, err)
	assert.Equal(t, []string{"blue", "été", "green"}, tags)
}

func TestNormalizeTagNameIsLocaleIndependent(t *testing.T) {
	assert.Equal(t, "title", NormalizeTagName("TITLE"))
}

func TestNormalizeTagsRejectsLongNames(t *testing.T) {
	_, err := NormalizeTags([]string{strings.Repeat("a", 61)})
	assert.True(t, errs.IsBadRequest(err))

	tags, err := NormalizeTags([]string{strings.Repeat("é", 60)})
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}
