package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordService(t *testing.T) {
	svc, err := NewPasswordService()
	require.NoError(t, err)

	hash, err := svc.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	t.Run("Success_Match", func(t *testing.T) {
		assert.True(t, svc.Compare("correct horse", hash))
	})

	t.Run("Error_WrongPassword", func(t *testing.T) {
		assert.False(t, svc.Compare("battery staple", hash))
	})

	t.Run("Error_MalformedHash", func(t *testing.T) {
		assert.False(t, svc.Compare("correct horse", "not-a-hash"))
	})

	t.Run("Success_SaltedPerCall", func(t *testing.T) {
		other, err := svc.Hash("correct horse")
		require.NoError(t, err)
		assert.NotEqual(t, hash, other)
	})
}
