package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleToUserType(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{"client", "buyer"},
		{"freelancer", "seller"},
		{"anything-else", "seller"},
		{"", "seller"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoleToUserType(tt.role), "role %q", tt.role)
	}
}

func TestUserTypeToRole(t *testing.T) {
	assert.Equal(t, "client", UserTypeToRole("buyer"))
	assert.Equal(t, "freelancer", UserTypeToRole("seller"))
}
