package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleSuperAdmin.Valid())
	assert.True(t, RolePumpAdmin.Valid())
	assert.True(t, RoleUser.Valid())

	assert.False(t, Role("").Valid())
	assert.False(t, Role("admin").Valid())
	assert.False(t, Role("SUPER_ADMIN").Valid())
}
