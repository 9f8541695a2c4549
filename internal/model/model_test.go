package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBase_Stamp(t *testing.T) {
	created := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)

	var b Base
	b.Stamp(created)
	assert.Equal(t, created, b.CreatedAt)
	assert.Equal(t, created, b.UpdatedAt)

	b.Stamp(later)
	assert.Equal(t, created, b.CreatedAt, "created_at is set once")
	assert.Equal(t, later, b.UpdatedAt)
}

func TestBase_SetIDKeepsAssignedID(t *testing.T) {
	var b Base
	b.SetID("first")
	b.SetID("second")

	assert.Equal(t, "first", b.GetID())
}

func TestFilter_Validate(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		filter  Filter
		wantErr bool
	}{
		{name: "eq", filter: Eq("student_id", "S1")},
		{name: "between", filter: Between("due_date", now, now.Add(time.Hour))},
		{name: "injection attempt", filter: Eq("x') OR 1=1 --", "S1"), wantErr: true},
		{name: "between without times", filter: Filter{Field: "due_date", Op: OpBetween, Value: "yesterday"}, wantErr: true},
		{name: "unknown op", filter: Filter{Field: "status", Op: "like"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidField)
				return
			}
			assert.NoError(t, err)
		})
	}
}
