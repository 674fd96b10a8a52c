package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"easystay/internal/adapters/observability"
	"easystay/internal/domain"
)

// HotelService owns the hotel_map key. Every operation is a read-modify-write
// of the whole map under mu.
type HotelService struct {
	kv    domain.KVStore
	mu    sync.Mutex
	now   func() time.Time
	newID func() string

	strictRooms   bool
	queryPageSize int
	adminPageSize int
}

var _ domain.Hotels = (*HotelService)(nil)

type Option func(*HotelService)

func WithClock(now func() time.Time) Option { return func(s *HotelService) { s.now = now } }

// WithIDs replaces the id generator; tests use it for predictable ids.
func WithIDs(next func() string) Option { return func(s *HotelService) { s.newID = next } }

func WithStrictRooms(strict bool) Option { return func(s *HotelService) { s.strictRooms = strict } }

func WithPageSizes(query, admin int) Option {
	return func(s *HotelService) {
		if query > 0 {
			s.queryPageSize = query
		}
		if admin > 0 {
			s.adminPageSize = admin
		}
	}
}

func NewHotelService(kv domain.KVStore, opts ...Option) *HotelService {
	s := &HotelService{
		kv:            kv,
		now:           time.Now,
		newID:         uuidV7,
		strictRooms:   true,
		queryPageSize: 5,
		adminPageSize: 10,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func uuidV7() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// load reads and decodes hotel_map. An absent key is an empty map. Records
// repaired on decode are written back before returning.
func (s *HotelService) load(ctx context.Context) (map[string]domain.Hotel, error) {
	raw, ok, err := s.kv.Get(ctx, domain.KeyHotelMap)
	if err != nil {
		log.Error().Err(err).Str("key", domain.KeyHotelMap).Msg("kv get failed")
		return nil, &domain.IOError{Op: "get", Key: domain.KeyHotelMap, Err: err}
	}
	if !ok || raw == "" {
		return map[string]domain.Hotel{}, nil
	}
	m, repaired, err := decodeHotelMap(raw)
	if err != nil {
		log.Error().Err(err).Str("key", domain.KeyHotelMap).Msg("hotel map is not decodable")
		return nil, &domain.IOError{Op: "decode", Key: domain.KeyHotelMap, Err: err}
	}
	if repaired {
		log.Info().Int("records", len(m)).Msg("repaired legacy hotel records")
		if err := s.save(ctx, m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (s *HotelService) save(ctx context.Context, m map[string]domain.Hotel) error {
	raw, err := encodeHotelMap(m)
	if err != nil {
		return &domain.IOError{Op: "encode", Key: domain.KeyHotelMap, Err: err}
	}
	if err := s.kv.Set(ctx, domain.KeyHotelMap, raw); err != nil {
		log.Error().Err(err).Str("key", domain.KeyHotelMap).Msg("kv set failed")
		return &domain.IOError{Op: "set", Key: domain.KeyHotelMap, Err: err}
	}
	return nil
}

// track records the outcome of one operation; call as
// defer track("op", time.Now(), &err).
func track(op string, start time.Time, err *error) {
	observability.ObserveStore(op, result(*err), time.Since(start))
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case domain.IsValidation(err):
		return "invalid"
	case errors.Is(err, domain.ErrNoChange):
		return "no_change"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "conflict"
	case domain.IsIO(err):
		return "io"
	}
	return "error"
}

func (s *HotelService) pageSize(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}

// paginate slices items for a 1-based page.
func paginate(items []domain.Hotel, page, size int) []domain.Hotel {
	if page < 1 {
		page = 1
	}
	// compare before multiplying so a huge page cannot overflow lo
	if size <= 0 || page-1 > len(items)/size {
		return []domain.Hotel{}
	}
	lo := (page - 1) * size
	if lo >= len(items) {
		return []domain.Hotel{}
	}
	hi := min(lo+size, len(items))
	return items[lo:hi]
}
