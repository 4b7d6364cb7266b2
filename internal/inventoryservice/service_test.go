package inventoryservice

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplane/order-sagas/internal/saga"
)

func TestService_SeededCatalog(t *testing.T) {
	svc := NewService()
	assert.Equal(t, map[string]int{
		"apple":  100,
		"banana": 50,
		"orange": 75,
		"grape":  30,
	}, svc.Snapshot())
}

func TestService_DecreaseThenIncreaseRestoresStock(t *testing.T) {
	svc := NewService()

	level, err := svc.Decrease("apple", 5)
	require.NoError(t, err)
	assert.Equal(t, saga.StockLevel{Item: "apple", NewQuantity: 95}, level)

	level = svc.Increase("apple", 5)
	assert.Equal(t, saga.StockLevel{Item: "apple", NewQuantity: 100}, level)
}

func TestService_DecreaseIsCaseInsensitive(t *testing.T) {
	svc := NewService()

	level, err := svc.Decrease("APPLE", 5)
	require.NoError(t, err)
	assert.Equal(t, "apple", level.Item)
	assert.Equal(t, 95, level.NewQuantity)
}

func TestService_DecreaseUnknownItem(t *testing.T) {
	svc := NewService()

	_, err := svc.Decrease("pear", 1)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Item 'pear' not found in inventory", notFound.Error())
}

func TestService_DecreaseBeyondStock(t *testing.T) {
	svc := NewService()

	_, err := svc.Decrease("grape", 31)
	var short *InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 31, short.Requested)
	assert.Equal(t, 30, short.Available)

	qty, ok := svc.Quantity("grape")
	require.True(t, ok)
	assert.Equal(t, 30, qty, "a rejected decrease leaves stock untouched")
}

func TestService_IncreaseCreatesAbsentItem(t *testing.T) {
	svc := NewService()

	level := svc.Increase("pear", 7)
	assert.Equal(t, saga.StockLevel{Item: "pear", NewQuantity: 7}, level)
}

func TestService_AddDuplicate(t *testing.T) {
	svc := NewService()

	_, err := svc.Add("apple", 10)
	var exists *AlreadyExistsError
	require.True(t, errors.As(err, &exists))
}

func TestService_Totals(t *testing.T) {
	svc := NewService()
	items, total := svc.Totals()
	assert.Equal(t, 4, items)
	assert.Equal(t, 255, total)
}

func TestService_Items(t *testing.T) {
	svc := NewService()
	assert.Equal(t, []string{"apple", "banana", "grape", "orange"}, svc.Items())
}
