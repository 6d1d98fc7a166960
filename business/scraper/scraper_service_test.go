package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"crateDigger/domain"
)

type fakeInventoryRepo struct {
	items []domain.InventoryItem
	err   error
}

func (f *fakeInventoryRepo) FetchInventory(ctx context.Context, seller string) ([]domain.InventoryItem, error) {
	return f.items, f.err
}

type fakeCatalogRepo struct {
	existingRecords  map[string]uint
	existingListings map[uint]bool
	recordUpserts    int
	listingFailures  map[string]error
	nextID           uint
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		existingRecords:  make(map[string]uint),
		existingListings: make(map[uint]bool),
		listingFailures:  make(map[string]error),
	}
}

func (f *fakeCatalogRepo) UpsertRecord(ctx context.Context, record *domain.Record) (bool, error) {
	if err := f.listingFailures[record.DiscogsID]; err != nil {
		return false, err
	}
	f.recordUpserts++
	if id, ok := f.existingRecords[record.DiscogsID]; ok {
		record.ID = id
		return false, nil
	}
	f.nextID++
	record.ID = f.nextID
	f.existingRecords[record.DiscogsID] = record.ID
	return true, nil
}

func (f *fakeCatalogRepo) GetOrCreateSeller(ctx context.Context, name, currency string) (*domain.Seller, error) {
	return &domain.Seller{ID: 1, Name: name, Currency: currency}, nil
}

func (f *fakeCatalogRepo) UpsertListing(ctx context.Context, listing *domain.Listing) (bool, error) {
	if f.existingListings[listing.RecordID] {
		return false, nil
	}
	f.existingListings[listing.RecordID] = true
	return true, nil
}

type fakeLocker struct {
	held     bool
	acquires int
	releases int
}

func (f *fakeLocker) AcquireScrapeLock(ctx context.Context, seller string, ttl time.Duration) (bool, error) {
	f.acquires++
	if f.held {
		return false, nil
	}
	f.held = true
	return true, nil
}

func (f *fakeLocker) ReleaseScrapeLock(ctx context.Context, seller string) error {
	f.releases++
	f.held = false
	return nil
}

func item(discogsID string) domain.InventoryItem {
	return domain.InventoryItem{
		DiscogsID: discogsID,
		Artist:    "Artist",
		Title:     "Title",
		Wants:     10,
		Haves:     4,
		Price:     12.5,
		Currency:  "USD",
	}
}

func TestScrapeSellerCounts(t *testing.T) {
	catalogRepo := newFakeCatalogRepo()
	catalogRepo.existingRecords["r2"] = 50
	catalogRepo.existingListings[50] = true

	locker := &fakeLocker{}
	svc := NewScraperService(
		&fakeInventoryRepo{items: []domain.InventoryItem{item("r1"), item("r2"), item("r3")}},
		catalogRepo,
		locker,
	)

	summary, err := svc.ScrapeSeller(context.Background(), "crate_seller")
	if err != nil {
		t.Fatalf("ScrapeSeller failed: %v", err)
	}

	if summary.Total != 3 || summary.Created != 2 || summary.Updated != 1 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want total=3 created=2 updated=1 failed=0", summary)
	}
	if locker.releases != 1 {
		t.Errorf("lock must be released after the run")
	}
}

func TestScrapeSellerItemFailureDoesNotAbort(t *testing.T) {
	catalogRepo := newFakeCatalogRepo()
	catalogRepo.listingFailures["r2"] = errors.New("constraint violation")

	svc := NewScraperService(
		&fakeInventoryRepo{items: []domain.InventoryItem{item("r1"), item("r2"), item("r3")}},
		catalogRepo,
		nil,
	)

	summary, err := svc.ScrapeSeller(context.Background(), "crate_seller")
	if err != nil {
		t.Fatalf("one bad item must not abort the run: %v", err)
	}
	if summary.Failed != 1 || summary.Created != 2 {
		t.Errorf("summary = %+v, want created=2 failed=1", summary)
	}
}

func TestScrapeSellerLockContention(t *testing.T) {
	locker := &fakeLocker{held: true}
	svc := NewScraperService(&fakeInventoryRepo{}, newFakeCatalogRepo(), locker)

	if _, err := svc.ScrapeSeller(context.Background(), "crate_seller"); err == nil {
		t.Fatalf("concurrent scrape of the same seller should be refused")
	}
	if locker.releases != 0 {
		t.Errorf("a lock we never held must not be released")
	}
}

func TestScrapeSellerRequiresName(t *testing.T) {
	svc := NewScraperService(&fakeInventoryRepo{}, newFakeCatalogRepo(), nil)

	if _, err := svc.ScrapeSeller(context.Background(), ""); err == nil {
		t.Errorf("empty seller name should be rejected")
	}
}

func TestScrapeSellerEmptyInventory(t *testing.T) {
	svc := NewScraperService(&fakeInventoryRepo{}, newFakeCatalogRepo(), nil)

	summary, err := svc.ScrapeSeller(context.Background(), "ghost_seller")
	if err != nil {
		t.Fatalf("empty inventory is not an error: %v", err)
	}
	if summary.Total != 0 {
		t.Errorf("summary.Total = %d, want 0", summary.Total)
	}
}
