package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stockroom-backend/pkg/config"
	"github.com/angelmondragon/stockroom-backend/pkg/db/dbtest"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	"github.com/angelmondragon/stockroom-backend/pkg/pagination"
	"github.com/angelmondragon/stockroom-backend/pkg/security"
)

var fastArgon = config.PasswordConfig{ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 8, ArgonKeyLen: 16}

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(dbtest.Open(t)), fastArgon)
	require.NoError(t, err)
	return svc
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateInput{
		Email:    "  Sales@Example.com ",
		Password: "correct-horse",
		Role:     enums.StaffRoleSalesman,
	})
	require.NoError(t, err)
	assert.Equal(t, "sales@example.com", user.Email)
	assert.Equal(t, "sales@example.com", user.Name)
	assert.True(t, user.IsActive)

	ok, err := security.VerifyPassword("correct-horse", user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.Create(ctx, CreateInput{Email: "sales@example.com", Password: "another-one", Role: enums.StaffRoleManager})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestCreateUserValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := map[string]CreateInput{
		"bad email":      {Email: "nope", Password: "long-enough", Role: enums.StaffRoleManager},
		"short password": {Email: "a@b.co", Password: "short", Role: enums.StaffRoleManager},
		"missing role":   {Email: "a@b.co", Password: "long-enough"},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, input)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
		})
	}
}

func TestCreateInactiveSuperuserWithoutRole(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	inactive := false

	user, err := svc.Create(ctx, CreateInput{Email: "root@example.com", Password: "long-enough", IsSuperuser: true, IsActive: &inactive})
	require.NoError(t, err)

	reloaded, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsSuperuser)
	assert.False(t, reloaded.IsActive)

	list, err := svc.List(ctx, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, list.Users, 1)
}
