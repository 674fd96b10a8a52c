package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"easystay/internal/domain"
)

var demoTags = [][]string{
	{"亲子", "免费停车场"},
	{"豪华", "含早餐"},
	{"近地铁", "商务"},
	{"江景", "健身房"},
	{"亲子", "泳池"},
	{"精品", "免费停车场"},
}

// DemoHotels builds the fifteen-hotel demo catalogue. The first hotel waits
// for review, the rest are published.
func DemoHotels(now time.Time) []domain.Hotel {
	out := make([]domain.Hotel, 0, 15)
	for i := 0; i < 15; i++ {
		price := float64(300 + 50*i)
		st := domain.StatusPublished
		if i == 0 {
			st = domain.StatusPending
		}
		out = append(out, domain.Hotel{
			ID:          strconv.Itoa(i + 1),
			Seq:         int64(i + 1),
			UploadedBy:  "admin",
			NameLocal:   fmt.Sprintf("易宿精选酒店 %d 号", i+1),
			NameForeign: fmt.Sprintf("Easy Stay Hotel No.%d", i+1),
			Address:     fmt.Sprintf("上海市浦东新区世纪大道 %d 号", 100+i),
			StarRating:  i%3 + 3,
			BasePrice:   price,
			OpeningDate: "2025-01-01",
			Rooms: []domain.Room{{
				ID:         "r1",
				Name:       "经济双床房",
				Price:      price,
				SizeLabel:  "25㎡",
				Capacity:   2,
				BedType:    "1.2m双床",
				PolicyText: "准时入离",
			}},
			Status:        st,
			CoverImageRef: fmt.Sprintf("https://picsum.photos/200/200?random=%d", i),
			Tags:          append([]string(nil), demoTags[i%len(demoTags)]...),
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return out
}

// SeedIfEmpty writes the demo catalogue when hotel_map holds no records. It
// reports whether it wrote anything.
func (s *HotelService) SeedIfEmpty(ctx context.Context) (seeded bool, err error) {
	defer track("seed", time.Now(), &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	if len(m) > 0 {
		return false, nil
	}
	if err := s.writeDemo(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Reset drops every record and writes the demo catalogue.
func (s *HotelService) Reset(ctx context.Context) (err error) {
	defer track("reset", time.Now(), &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, domain.KeyHotelMap); err != nil {
		return &domain.IOError{Op: "remove", Key: domain.KeyHotelMap, Err: err}
	}
	return s.writeDemo(ctx)
}

func (s *HotelService) writeDemo(ctx context.Context) error {
	m := map[string]domain.Hotel{}
	for _, h := range DemoHotels(s.now().UTC()) {
		m[h.ID] = h
	}
	if err := s.save(ctx, m); err != nil {
		return err
	}
	log.Info().Int("hotels", len(m)).Msg("demo catalogue written")
	return nil
}
