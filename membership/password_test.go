package membership

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Unit_Password_ShouldVerify_AfterHashing(t *testing.T) {
	// arrange
	hash, salt, err := hashPassword("correct horse battery staple")
	require.NoError(t, err)

	// act
	matches, verifyErr := verifyPassword("correct horse battery staple", salt, hash)

	// assert
	assert.NoError(t, verifyErr)
	assert.True(t, matches)
}

func Test_Unit_Password_ShouldNotVerify_WithWrongPassword(t *testing.T) {
	// arrange
	hash, salt, err := hashPassword("correct horse battery staple")
	require.NoError(t, err)

	// act
	matches, verifyErr := verifyPassword("incorrect horse", salt, hash)

	// assert
	assert.NoError(t, verifyErr)
	assert.False(t, matches)
}

func Test_Unit_Password_ShouldProduceDifferentHashes_ForSamePassword(t *testing.T) {
	// arrange + act - a fresh random salt every time
	firstHash, firstSalt, err := hashPassword("same password")
	require.NoError(t, err)
	secondHash, secondSalt, err2 := hashPassword("same password")
	require.NoError(t, err2)

	// assert
	assert.NotEqual(t, firstSalt, secondSalt)
	assert.NotEqual(t, firstHash, secondHash)
}

func Test_Unit_Password_ShouldFailVerification_WithCorruptSalt(t *testing.T) {
	// arrange
	hash, _, err := hashPassword("some password")
	require.NoError(t, err)

	// act
	_, verifyErr := verifyPassword("some password", "%%% not base64 %%%", hash)

	// assert
	assert.Error(t, verifyErr)
}
