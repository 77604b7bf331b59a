package common

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHashPasswordWithSalt(t *testing.T) {
	h1 := HashPasswordWithSalt("invtrack", "salt-a")
	h2 := HashPasswordWithSalt("invtrack", "salt-a")
	h3 := HashPasswordWithSalt("invtrack", "salt-b")
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
}

func TestUUIDint64Unique(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		id := UUIDint64()
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestNextSaleNumber(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	number := NextSaleNumber(now)
	assert.Regexp(t, regexp.MustCompile(`^SALE-20240115103000-[0-9a-f]{4}$`), number)
}
