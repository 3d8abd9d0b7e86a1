package usecase

import (
	"context"
	"errors"
	"testing"

	"eri-tracker-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRegion = "Минская обл."

func listingInRegion(id int64) domain.Listing {
	return domain.Listing{
		ID:       id,
		Position: "Минская обл., Минский р-н, д. Дубовцы",
		Link:     "https://eri2.nca.by/guest/abandonedObject/1",
	}
}

func TestReconcileHouses_EmptyIncomingAborts(t *testing.T) {
	storage := newFakeStorage()
	storage.houses[1] = domain.House{ID: 1, Position: "Минская обл., д. Старая"}
	notifier := &fakeNotifier{}
	uc := NewReconcileHousesUseCase(storage, notifier)

	report, err := uc.Execute(context.Background(), testRegion, nil, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNoIncomingData)
	assert.Nil(t, report)
	// Хранилище не должно быть тронуто
	assert.Zero(t, storage.replaceCalls)
	assert.Contains(t, storage.houses, int64(1))
	assert.Empty(t, notifier.notified)
}

func TestReconcileHouses_AddsUpdatesAndDeletes(t *testing.T) {
	storage := newFakeStorage()
	storage.houses[1] = domain.House{ID: 1, Position: "Минская обл., д. Старая"}
	storage.houses[2] = domain.House{ID: 2, Position: "Минская обл., д. Живая"}
	notifier := &fakeNotifier{}
	uc := NewReconcileHousesUseCase(storage, notifier)

	incoming := []domain.Listing{listingInRegion(2), listingInRegion(3)}
	report, err := uc.Execute(context.Background(), testRegion, incoming, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Deleted)
	assert.NotContains(t, storage.houses, int64(1))
	assert.Contains(t, storage.houses, int64(3))
}

func TestReconcileHouses_NotifiesOnlyInserted(t *testing.T) {
	storage := newFakeStorage()
	storage.houses[2] = domain.House{ID: 2, Position: "Минская обл., д. Живая"}
	notifier := &fakeNotifier{}
	uc := NewReconcileHousesUseCase(storage, notifier)

	incoming := []domain.Listing{listingInRegion(2), listingInRegion(3)}
	_, err := uc.Execute(context.Background(), testRegion, incoming, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, []int64{3}, notifier.notified)
}

func TestReconcileHouses_NotifierFailureDoesNotFailRun(t *testing.T) {
	storage := newFakeStorage()
	notifier := &fakeNotifier{err: errors.New("broker down")}
	uc := NewReconcileHousesUseCase(storage, notifier)

	report, err := uc.Execute(context.Background(), testRegion, []domain.Listing{listingInRegion(5)}, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
	assert.Contains(t, storage.houses, int64(5))
}

func TestReconcileHouses_SecondRunIsIdempotent(t *testing.T) {
	storage := newFakeStorage()
	notifier := &fakeNotifier{}
	uc := NewReconcileHousesUseCase(storage, notifier)

	incoming := []domain.Listing{listingInRegion(1), listingInRegion(2)}

	first, err := uc.Execute(context.Background(), testRegion, incoming, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Added)

	second, err := uc.Execute(context.Background(), testRegion, incoming, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, second.Added)
	assert.Equal(t, 2, second.Updated)
	assert.Zero(t, second.Deleted)
	// Уведомления были только после первого прогона
	assert.Len(t, notifier.notified, 2)
}

func TestReconcileHouses_StorageErrorPropagates(t *testing.T) {
	storage := newFakeStorage()
	storage.replaceErr = errors.New("db down")
	uc := NewReconcileHousesUseCase(storage, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), testRegion, []domain.Listing{listingInRegion(1)}, uuid.New())

	assert.ErrorContains(t, err, "db down")
}
