package parselly_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ydah/parselly"
)

func TestParse_PublicEntryPoint(t *testing.T) {
	root, err := parselly.Parse("div.foo > span")
	require.NoError(t, err)
	assert.Equal(t, "div.foo > span", root.ToSelector())
}

func TestParse_LexErrorType(t *testing.T) {
	_, err := parselly.Parse("@foo")
	require.Error(t, err)
	var lexErr *parselly.LexError
	assert.ErrorAs(t, err, &lexErr)
}

func TestParse_ParseErrorType(t *testing.T) {
	_, err := parselly.Parse("div >")
	require.Error(t, err)
	var parseErr *parselly.ParseError
	assert.ErrorAs(t, err, &parseErr)
}
