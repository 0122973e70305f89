package services

import (
	"context"
	"testing"

	"go-shop/errs"
	"go-shop/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedUser(t *testing.T, users *fakeUsers) string {
	t.Helper()
	u := &models.User{Username: "alice", Email: "alice@example.com", Role: models.RoleUser}
	require.NoError(t, users.Create(context.Background(), u))
	return u.ID.Hex()
}

func addressInput(street string, isDefault bool) AddressInput {
	return AddressInput{Street: street, City: "Pune", State: "MH", Pincode: "411001", Country: "IN", IsDefault: isDefault}
}

func TestAddresses_AddListDelete(t *testing.T) {
	users := newFakeUsers()
	svc := NewUserService(users)
	ctx := context.Background()
	uid := seedUser(t, users)

	list, err := svc.ListAddresses(ctx, uid)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	list, err = svc.AddAddress(ctx, uid, addressInput("1 A St", true))
	require.NoError(t, err)
	require.Len(t, list, 1)
	first := list[0]
	assert.False(t, first.ID.IsZero())
	assert.True(t, first.IsDefault)

	list, err = svc.AddAddress(ctx, uid, addressInput("2 B St", false))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.NotEqual(t, first.ID, list[1].ID)

	list, err = svc.DeleteAddress(ctx, uid, first.ID.Hex())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2 B St", list[0].Street)

	list, err = svc.ListAddresses(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAddresses_Validation(t *testing.T) {
	users := newFakeUsers()
	svc := NewUserService(users)
	uid := seedUser(t, users)

	_, err := svc.AddAddress(context.Background(), uid, AddressInput{Street: "  ", City: "Pune"})
	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"street", "state", "pincode", "country"}, fields)
}

func TestAddresses_DeleteUnknown(t *testing.T) {
	users := newFakeUsers()
	svc := NewUserService(users)
	ctx := context.Background()
	uid := seedUser(t, users)
	_, err := svc.AddAddress(ctx, uid, addressInput("1 A St", false))
	require.NoError(t, err)

	_, err = svc.DeleteAddress(ctx, uid, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = svc.DeleteAddress(ctx, uid, "not-an-id")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	list, err := svc.ListAddresses(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAddresses_UnknownUser(t *testing.T) {
	svc := NewUserService(newFakeUsers())
	ctx := context.Background()

	_, err := svc.ListAddresses(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = svc.AddAddress(ctx, primitive.NewObjectID().Hex(), addressInput("1 A St", false))
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
