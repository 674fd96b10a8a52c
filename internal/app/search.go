package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"easystay/internal/calendar"
	"easystay/internal/domain"
)

// SearchService keeps the storefront user's SearchParameters in search_params.
type SearchService struct {
	kv          domain.KVStore
	mu          sync.Mutex
	defaultCity string
}

var _ calendar.ParamsStore = (*SearchService)(nil)

func NewSearchService(kv domain.KVStore, defaultCity string) *SearchService {
	return &SearchService{kv: kv, defaultCity: defaultCity}
}

func (s *SearchService) Get(ctx context.Context) (sp domain.SearchParameters, err error) {
	defer track("search_get", time.Now(), &err)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Update merges p into the stored parameters and writes them back.
func (s *SearchService) Update(ctx context.Context, p domain.SearchPatch) (sp domain.SearchParameters, err error) {
	defer track("search_update", time.Now(), &err)

	if err := checkDates(p.StartDate, p.EndDate); err != nil {
		return domain.SearchParameters{}, err
	}
	if p.PriceRange != nil && (p.PriceRange.Min < 0 || p.PriceRange.Max < p.PriceRange.Min) {
		return domain.SearchParameters{}, domain.Invalid("priceRange", "min must be 0 or more and not above max")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.load(ctx)
	if err != nil {
		return domain.SearchParameters{}, err
	}
	next := p.Apply(cur)
	if err := s.save(ctx, next); err != nil {
		return domain.SearchParameters{}, err
	}
	return next, nil
}

// Dates returns the confirmed check-in and checkout dates.
func (s *SearchService) Dates(ctx context.Context) (start, end string, err error) {
	sp, err := s.Get(ctx)
	if err != nil {
		return "", "", err
	}
	return sp.StartDate, sp.EndDate, nil
}

// SetDates stores both dates in a single write. Order is not checked; a
// checkout before check-in is kept as given.
func (s *SearchService) SetDates(ctx context.Context, start, end string) error {
	_, err := s.Update(ctx, domain.SearchPatch{StartDate: &start, EndDate: &end})
	if err == nil {
		log.Info().Str("start", start).Str("end", end).Msg("stay dates confirmed")
	}
	return err
}

func (s *SearchService) load(ctx context.Context) (domain.SearchParameters, error) {
	raw, ok, err := s.kv.Get(ctx, domain.KeySearchParams)
	if err != nil {
		log.Error().Err(err).Str("key", domain.KeySearchParams).Msg("kv get failed")
		return domain.SearchParameters{}, &domain.IOError{Op: "get", Key: domain.KeySearchParams, Err: err}
	}
	if !ok || raw == "" {
		return s.defaults(), nil
	}
	sp, err := decodeSearch(raw)
	if err != nil {
		log.Error().Err(err).Str("key", domain.KeySearchParams).Msg("search params are not decodable")
		return domain.SearchParameters{}, &domain.IOError{Op: "decode", Key: domain.KeySearchParams, Err: err}
	}
	if sp.StarFilters == nil {
		sp.StarFilters = []int{}
	}
	if sp.TagFilters == nil {
		sp.TagFilters = []string{}
	}
	return sp, nil
}

func (s *SearchService) save(ctx context.Context, sp domain.SearchParameters) error {
	raw, err := encodeSearch(sp)
	if err != nil {
		return &domain.IOError{Op: "encode", Key: domain.KeySearchParams, Err: err}
	}
	if err := s.kv.Set(ctx, domain.KeySearchParams, raw); err != nil {
		log.Error().Err(err).Str("key", domain.KeySearchParams).Msg("kv set failed")
		return &domain.IOError{Op: "set", Key: domain.KeySearchParams, Err: err}
	}
	return nil
}

func (s *SearchService) defaults() domain.SearchParameters {
	return domain.SearchParameters{
		City:        s.defaultCity,
		StarFilters: []int{},
		TagFilters:  []string{},
	}
}

// checkDates accepts absent or empty values; anything else must be YYYY-MM-DD.
func checkDates(start, end *string) error {
	fields := []struct {
		name string
		v    *string
	}{{"startDate", start}, {"endDate", end}}
	for _, f := range fields {
		if f.v == nil || *f.v == "" {
			continue
		}
		if _, err := calendar.ParseDate(*f.v); err != nil {
			return domain.Invalid(f.name, "must be YYYY-MM-DD")
		}
	}
	return nil
}
