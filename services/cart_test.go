package services

import (
	"context"
	"testing"

	"go-shop/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCart_GetCreatesEmpty(t *testing.T) {
	carts := newFakeCarts()
	svc := NewCartService(carts)
	uid := primitive.NewObjectID()

	c, err := svc.Get(context.Background(), uid.Hex())
	require.NoError(t, err)
	assert.Equal(t, uid, c.UserID)
	assert.Empty(t, c.Items)
	assert.Equal(t, 1, carts.saves)

	_, err = svc.Get(context.Background(), uid.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, carts.saves)
}

func TestCart_AddMergesAndTotals(t *testing.T) {
	svc := NewCartService(newFakeCarts())
	ctx := context.Background()
	uid := primitive.NewObjectID().Hex()
	p1 := primitive.NewObjectID().Hex()
	p2 := primitive.NewObjectID().Hex()

	_, err := svc.AddItem(ctx, uid, CartItemInput{ProductID: p1, Qty: 2})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, uid, CartItemInput{ProductID: p2, Qty: 1})
	require.NoError(t, err)
	c, err := svc.AddItem(ctx, uid, CartItemInput{ProductID: p1, Qty: 3})
	require.NoError(t, err)

	require.Len(t, c.Items, 2)
	assert.Equal(t, 5, c.Items[0].Quantity)
	totals := c.Totals()
	assert.Equal(t, 2, totals.ItemCount)
	assert.Equal(t, 6, totals.TotalQuantity)
}

func TestCart_AddValidation(t *testing.T) {
	svc := NewCartService(newFakeCarts())
	ctx := context.Background()
	uid := primitive.NewObjectID().Hex()
	pid := primitive.NewObjectID().Hex()

	for name, in := range map[string]CartItemInput{
		"zero qty":   {ProductID: pid, Qty: 0},
		"huge qty":   {ProductID: pid, Qty: 1000},
		"bad id":     {ProductID: "xyz", Qty: 1},
		"missing id": {Qty: 1},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.AddItem(ctx, uid, in)
			assert.ErrorIs(t, err, errs.ErrValidation)
		})
	}

	_, err := svc.AddItem(ctx, uid, CartItemInput{ProductID: pid, Qty: 999})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, uid, CartItemInput{ProductID: pid, Qty: 1})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestCart_UpdateItem(t *testing.T) {
	svc := NewCartService(newFakeCarts())
	ctx := context.Background()
	uid := primitive.NewObjectID().Hex()
	pid := primitive.NewObjectID().Hex()

	_, err := svc.UpdateItem(ctx, uid, pid, QuantityInput{Qty: 2})
	assert.ErrorIs(t, err, errs.ErrNotFound, "no cart yet")

	_, err = svc.AddItem(ctx, uid, CartItemInput{ProductID: pid, Qty: 1})
	require.NoError(t, err)

	c, err := svc.UpdateItem(ctx, uid, pid, QuantityInput{Qty: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, c.Items[0].Quantity)

	_, err = svc.UpdateItem(ctx, uid, primitive.NewObjectID().Hex(), QuantityInput{Qty: 2})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = svc.UpdateItem(ctx, uid, pid, QuantityInput{Qty: 0})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestCart_RemoveAndDelete(t *testing.T) {
	svc := NewCartService(newFakeCarts())
	ctx := context.Background()
	uid := primitive.NewObjectID().Hex()
	p1 := primitive.NewObjectID().Hex()
	p2 := primitive.NewObjectID().Hex()

	_, err := svc.RemoveItem(ctx, uid, p1)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = svc.AddItem(ctx, uid, CartItemInput{ProductID: p1, Qty: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, uid, CartItemInput{ProductID: p2, Qty: 1})
	require.NoError(t, err)

	c, err := svc.RemoveItem(ctx, uid, p1)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, p2, c.Items[0].ProductID.Hex())

	_, err = svc.RemoveItem(ctx, uid, "bad")
	assert.ErrorIs(t, err, errs.ErrValidation)

	require.NoError(t, svc.Delete(ctx, uid))
	assert.ErrorIs(t, svc.Delete(ctx, uid), errs.ErrNotFound)
}

func TestCart_SaveFailureIsInternal(t *testing.T) {
	carts := newFakeCarts()
	carts.saveErr = errStoreDown
	svc := NewCartService(carts)

	_, err := svc.Get(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, errs.ErrInternal)
}
