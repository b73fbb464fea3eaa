package bquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_PlainName(t *testing.T) {
	tokens, err := Tokenize("foo")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, Token{Kind: TokenName, Name: "foo"}, tokens[0])
}

func TestTokenize_LeadingIndex(t *testing.T) {
	tokens, err := Tokenize("[0]")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, Token{Kind: TokenIndex, Index: 0}, tokens[0])
}

func TestTokenize_MixedChain(t *testing.T) {
	tokens, err := Tokenize("vdata.layers[0].data[3]")
	require.NoError(t, err)
	require.Equal(t, []Token{
		{Kind: TokenName, Name: "vdata"},
		{Kind: TokenName, Name: "layers"},
		{Kind: TokenIndex, Index: 0},
		{Kind: TokenName, Name: "data"},
		{Kind: TokenIndex, Index: 3},
	}, tokens)
}

func TestTokenize_TrimsSurroundingWhitespace(t *testing.T) {
	tokens, err := Tokenize("  id.next[0]  ")
	require.NoError(t, err)
	require.Equal(t, []Token{
		{Kind: TokenName, Name: "id"},
		{Kind: TokenName, Name: "next"},
		{Kind: TokenIndex, Index: 0},
	}, tokens)
}

func TestTokenize_RejectsInvalid(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"1bad",
		"bad!name",
		"arr[",
		"arr[x]",
		"arr[]",
	}
	for _, c := range cases {
		_, err := Tokenize(c)
		assert.Error(t, err, "expected tokenize(%q) to fail", c)
	}
}
