package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBaseEntity(t *testing.T) {
	var _ Entity = (*BaseEntity)(nil)
	var _ AggregateRoot = (*TenantAggregateRoot)(nil)

	e := NewBaseEntity()
	assert.NotEqual(t, uuid.Nil, e.GetID())
	assert.Equal(t, time.UTC, e.GetCreatedAt().Location())
	assert.Equal(t, e.GetCreatedAt(), e.GetUpdatedAt())

	e.UpdatedAt = e.CreatedAt.Add(-time.Hour)
	e.Touch()
	assert.False(t, e.GetUpdatedAt().Before(e.GetCreatedAt()))

	root := NewTenantAggregateRootWithCreator(uuid.New(), uuid.Nil)
	assert.Nil(t, root.CreatedBy)
	assert.Equal(t, 1, root.GetVersion())
	root.IncrementVersion()
	assert.Equal(t, 2, root.GetVersion())
}
