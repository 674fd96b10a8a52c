package app

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"easystay/internal/domain"
)

func (s *HotelService) GetByID(ctx context.Context, id string) (out domain.Hotel, err error) {
	defer track("get", time.Now(), &err)

	m, err := s.snapshot(ctx)
	if err != nil {
		return domain.Hotel{}, err
	}
	h, ok := m[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h.Clone(), nil
}

// Query is the public listing view: PUBLISHED records only, all supplied
// filters must match, then sort, then page. TotalCount counts the filtered set.
func (s *HotelService) Query(ctx context.Context, q domain.HotelsQuery) (out domain.HotelsPage, err error) {
	defer track("query", time.Now(), &err)

	m, err := s.snapshot(ctx)
	if err != nil {
		return domain.HotelsPage{}, err
	}
	kw := strings.ToLower(strings.TrimSpace(q.Keyword))
	items := make([]domain.Hotel, 0, len(m))
	for _, h := range ordered(m) {
		if h.Status != domain.StatusPublished {
			continue
		}
		if kw != "" && !matchesKeyword(h, kw) {
			continue
		}
		if len(q.Stars) > 0 && !slices.Contains(q.Stars, h.StarRating) {
			continue
		}
		if q.PriceRange != nil && !q.PriceRange.Contains(h.BasePrice) {
			continue
		}
		if len(q.Tags) > 0 && !h.HasAnyTag(q.Tags) {
			continue
		}
		items = append(items, h)
	}
	sortHotels(items, q.Sort)

	size := s.pageSize(q.PageSize, s.queryPageSize)
	return domain.HotelsPage{Items: clones(paginate(items, q.Page, size)), TotalCount: len(items)}, nil
}

func matchesKeyword(h domain.Hotel, kw string) bool {
	return strings.Contains(strings.ToLower(h.NameLocal), kw) ||
		strings.Contains(strings.ToLower(h.NameForeign), kw) ||
		strings.Contains(strings.ToLower(h.Address), kw)
}

// sortHotels is stable, so equal keys keep natural storage order.
func sortHotels(items []domain.Hotel, by domain.SortType) {
	switch by {
	case domain.SortPriceAsc:
		slices.SortStableFunc(items, func(a, b domain.Hotel) int { return cmp.Compare(a.BasePrice, b.BasePrice) })
	case domain.SortPriceDesc:
		slices.SortStableFunc(items, func(a, b domain.Hotel) int { return cmp.Compare(b.BasePrice, a.BasePrice) })
	case domain.SortStarDesc:
		slices.SortStableFunc(items, func(a, b domain.Hotel) int { return cmp.Compare(b.StarRating, a.StarRating) })
	}
}

// ListByStatus backs the admin review queues. No filter or sort beyond
// natural storage order.
func (s *HotelService) ListByStatus(ctx context.Context, st domain.Status, page, pageSize int) (out domain.HotelsPage, err error) {
	defer track("list_status", time.Now(), &err)

	if !st.Valid() {
		return domain.HotelsPage{}, domain.Invalid("status", "unknown status "+string(st))
	}
	m, err := s.snapshot(ctx)
	if err != nil {
		return domain.HotelsPage{}, err
	}
	var items []domain.Hotel
	for _, h := range ordered(m) {
		if h.Status == st {
			items = append(items, h)
		}
	}
	size := s.pageSize(pageSize, s.adminPageSize)
	return domain.HotelsPage{Items: clones(paginate(items, page, size)), TotalCount: len(items)}, nil
}

// ListByMerchant returns every record uploaded by merchantID, or every record
// when merchantID is empty.
func (s *HotelService) ListByMerchant(ctx context.Context, merchantID string) (out []domain.Hotel, err error) {
	defer track("list_merchant", time.Now(), &err)

	m, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out = []domain.Hotel{}
	for _, h := range ordered(m) {
		if merchantID == "" || h.UploadedBy == merchantID {
			out = append(out, h.Clone())
		}
	}
	return out, nil
}

func (s *HotelService) snapshot(ctx context.Context) (map[string]domain.Hotel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func clones(in []domain.Hotel) []domain.Hotel {
	out := make([]domain.Hotel, len(in))
	for i, h := range in {
		out[i] = h.Clone()
	}
	return out
}
