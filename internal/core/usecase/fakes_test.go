package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"

	"eri-tracker-service/internal/core/domain"

	"github.com/google/uuid"
)

// fakeFetcher отдает заранее подготовленные страницы. Страница за пределами
// набора считается пустой.
type fakeFetcher struct {
	pages [][]domain.Listing
	errAt map[int]error

	calls []int
}

func (f *fakeFetcher) FetchPage(_ context.Context, pageNumber int) ([]domain.Listing, error) {
	f.calls = append(f.calls, pageNumber)
	if err, ok := f.errAt[pageNumber]; ok {
		return nil, err
	}
	if pageNumber >= len(f.pages) {
		return nil, nil
	}
	return f.pages[pageNumber], nil
}

// fakeStorage - хранилище в памяти, повторяющее семантику сверки реального
// адаптера: удаление отсутствующих, вставка или обновление остальных.
type fakeStorage struct {
	mu     sync.Mutex
	houses map[int64]domain.House

	replaceCalls int
	replaceErr   error
	updateErr    error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{houses: make(map[int64]domain.House)}
}

func (s *fakeStorage) ReplaceRegion(_ context.Context, region string, incoming []domain.House) (*domain.ReconcileReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceCalls++
	if s.replaceErr != nil {
		return nil, s.replaceErr
	}

	var persisted []int64
	for id, h := range s.houses {
		if (domain.Listing{Position: h.Position}).InRegion(region) {
			persisted = append(persisted, id)
		}
	}
	sort.Slice(persisted, func(i, j int) bool { return persisted[i] < persisted[j] })

	report := &domain.ReconcileReport{}
	for _, id := range domain.StaleHouseIDs(persisted, incoming) {
		delete(s.houses, id)
		report.Deleted++
	}
	for _, h := range incoming {
		if _, exists := s.houses[h.ID]; exists {
			report.Updated++
		} else {
			report.Added++
			report.Inserted = append(report.Inserted, h)
		}
		s.houses[h.ID] = h
	}
	return report, nil
}

func (s *fakeStorage) ListAll(context.Context) ([]domain.House, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []domain.House
	for _, h := range s.houses {
		all = append(all, h)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (s *fakeStorage) GetByID(_ context.Context, id int64) (*domain.House, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.houses[id]; ok {
		return &h, nil
	}
	return nil, nil
}

func (s *fakeStorage) ListWithoutCoordinates(context.Context) ([]domain.House, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var missing []domain.House
	for _, h := range s.houses {
		if h.Latitude == nil || h.Longitude == nil {
			missing = append(missing, h)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i].ID < missing[j].ID })
	return missing, nil
}

func (s *fakeStorage) UpdateCoordinates(_ context.Context, id int64, coords domain.Coordinates, gh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	h, ok := s.houses[id]
	if !ok {
		return errors.New("house not found")
	}
	h.Latitude = &coords.Lat
	h.Longitude = &coords.Lon
	h.Geohash = &gh
	s.houses[id] = h
	return nil
}

// fakeResolver отдает координаты из карты по идентификатору объекта.
type fakeResolver struct {
	coords map[int64]domain.Coordinates
	err    error

	calls []int64
}

func (r *fakeResolver) Resolve(_ context.Context, l domain.Listing) (*domain.Coordinates, error) {
	r.calls = append(r.calls, l.ID)
	if r.err != nil {
		return nil, r.err
	}
	if c, ok := r.coords[l.ID]; ok {
		return &c, nil
	}
	return nil, nil
}

// fakeNotifier запоминает уведомления.
type fakeNotifier struct {
	notified []int64
	err      error
}

func (n *fakeNotifier) NotifyNewHouse(_ context.Context, house domain.House, _ uuid.UUID) error {
	n.notified = append(n.notified, house.ID)
	return n.err
}
