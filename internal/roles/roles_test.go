package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	role, err := Normalize("admin")
	assert.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	role, err = Normalize("  Member ")
	assert.NoError(t, err)
	assert.Equal(t, RoleMember, role)

	role, err = Normalize("VIEWER")
	assert.NoError(t, err)
	assert.Equal(t, RoleViewer, role)

	_, err = Normalize("owner")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = Normalize("")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRankOrdering(t *testing.T) {
	assert.Greater(t, Rank(RoleAdmin), Rank(RoleMember))
	assert.Greater(t, Rank(RoleMember), Rank(RoleViewer))
	assert.Equal(t, 0, Rank(Role("UNKNOWN")))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Admin", Title(RoleAdmin))
	assert.Equal(t, "Viewer", Title(RoleViewer))
	assert.Equal(t, "", Title(Role("")))
}
