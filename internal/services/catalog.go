package services

import (
	"context"
	"sync"

	"github.com/desertthunder/convx/internal/models"
)

// CatalogService fetches and caches the server's conversion format matrix.
//
// The catalog is immutable once fetched for the lifetime of the service and
// refetchable on demand. A failed fetch leaves the cache empty rather than
// partially populated.
type CatalogService struct {
	client *Client

	mu      sync.Mutex
	catalog models.FormatCatalog
	fetched bool
}

// NewCatalogService creates a CatalogService on the shared transport.
func NewCatalogService(client *Client) *CatalogService {
	return &CatalogService{client: client}
}

// Fetch returns the cached catalog, fetching it on first use.
func (s *CatalogService) Fetch(ctx context.Context) (models.FormatCatalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fetched {
		return s.catalog, nil
	}
	return s.fetchLocked(ctx)
}

// Refresh discards the cache and refetches the catalog.
func (s *CatalogService) Refresh(ctx context.Context) (models.FormatCatalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchLocked(ctx)
}

func (s *CatalogService) fetchLocked(ctx context.Context) (models.FormatCatalog, error) {
	payload, err := s.client.Get(ctx, "/conversions/formats/")
	if err != nil {
		return models.FormatCatalog{}, err
	}

	var catalog models.FormatCatalog
	if err := payload.Decode(&catalog); err != nil {
		return models.FormatCatalog{}, err
	}

	s.catalog = catalog
	s.fetched = true
	return s.catalog, nil
}

// Categories returns the cached category names in server order.
// The first category is the default selection.
func (s *CatalogService) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Categories()
}

// InputFormats returns the cached input formats for a category.
func (s *CatalogService) InputFormats(category string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.InputFormats(category)
}

// OutputFormats returns the cached output formats for a category.
func (s *CatalogService) OutputFormats(category string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.OutputFormats(category)
}

// KnownInput performs a case-insensitive membership test against the cached
// catalog. An unfetched or empty catalog reports false for every format.
func (s *CatalogService) KnownInput(category, format string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.KnownInput(category, format)
}

// KnownOutput is the output-side counterpart of [CatalogService.KnownInput].
func (s *CatalogService) KnownOutput(category, format string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.KnownOutput(category, format)
}
