package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheck(t *testing.T) {
	h := HashPassword("s3cret-password")
	require.NotEmpty(t, h)
	assert.True(t, CheckPassword("s3cret-password", h))
	assert.False(t, CheckPassword("wrong", h))
}

func TestLongPasswordClamped(t *testing.T) {
	long := strings.Repeat("x", 100)
	h := HashPassword(long)
	require.NotEmpty(t, h)
	// 72 字节截断意味着前缀一致即可通过
	assert.True(t, CheckPassword(long, h))
	assert.True(t, CheckPassword(strings.Repeat("x", 72), h))
}

func TestNeedsRehash(t *testing.T) {
	low, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, NeedsRehash(string(low)))

	current := HashPassword("pw")
	assert.False(t, NeedsRehash(current))

	// bcrypt 以外的内容（如历史占位值）不触发重哈希路径
	assert.False(t, NeedsRehash("simple_hash"))
}
