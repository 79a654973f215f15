package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuideCategory(t *testing.T) {
	assert.True(t, CategoryTravel.Valid())
	assert.False(t, GuideCategory("FOOD").Valid())

	assert.False(t, CategoryTravel.SupportsCheckIn())
	assert.True(t, CategoryGame.SupportsCheckIn())
	assert.True(t, CategoryStudy.SupportsCheckIn())
}

func TestPublicName(t *testing.T) {
	u := &User{DisplayName: "Alice", Status: StatusActive}
	assert.Equal(t, "Alice", u.PublicName())

	u.Status = StatusBanned
	assert.Equal(t, "Alice", u.PublicName())

	u.Status = StatusDeactivated
	assert.Equal(t, DeactivatedName, u.PublicName())
}

func TestNewPage(t *testing.T) {
	p := NewPage([]int{1, 2}, 12, 1, 5)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(12), p.TotalElements)

	empty := NewPage[int](nil, 0, 0, 10)
	assert.NotNil(t, empty.Content)
	assert.Equal(t, 0, empty.TotalPages)
}
