package app

import (
	"cmp"
	"encoding/json"
	"slices"

	"easystay/internal/domain"
)

// storedHotel is the on-disk shape of one hotel_map entry. It also accepts the
// field names written by the first storefront release (nameCn, star, price...)
// so older maps keep loading.
type storedHotel struct {
	domain.Hotel

	LegacyNameCn      string       `json:"nameCn,omitempty"`
	LegacyNameEn      string       `json:"nameEn,omitempty"`
	LegacyStar        int          `json:"star,omitempty"`
	LegacyPrice       float64      `json:"price,omitempty"`
	LegacyOpeningTime string       `json:"openingTime,omitempty"`
	LegacyImageURL    string       `json:"imageUrl,omitempty"`
	LegacyRooms       []storedRoom `json:"rooms"`
}

type storedRoom struct {
	domain.Room

	LegacyImageURL string `json:"imageUrl,omitempty"`
	LegacySize     string `json:"size,omitempty"`
	LegacyPolicy   string `json:"policy,omitempty"`
}

// upgrade folds legacy fields into the current model. It reports whether the
// record needed repair.
func (s storedHotel) upgrade() (domain.Hotel, bool) {
	h := s.Hotel
	repaired := false

	fill := func(dst *string, legacy string) {
		if *dst == "" && legacy != "" {
			*dst = legacy
			repaired = true
		}
	}
	fill(&h.NameLocal, s.LegacyNameCn)
	fill(&h.NameForeign, s.LegacyNameEn)
	fill(&h.OpeningDate, s.LegacyOpeningTime)
	fill(&h.CoverImageRef, s.LegacyImageURL)
	if h.StarRating == 0 && s.LegacyStar != 0 {
		h.StarRating, repaired = s.LegacyStar, true
	}
	if h.BasePrice == 0 && s.LegacyPrice != 0 {
		h.BasePrice, repaired = s.LegacyPrice, true
	}

	h.Rooms = make([]domain.Room, 0, len(s.LegacyRooms))
	for _, sr := range s.LegacyRooms {
		r := sr.Room
		fill(&r.ImageRef, sr.LegacyImageURL)
		fill(&r.SizeLabel, sr.LegacySize)
		fill(&r.PolicyText, sr.LegacyPolicy)
		h.Rooms = append(h.Rooms, r)
	}

	if h.UploadedBy == "" {
		h.UploadedBy = "admin"
		repaired = true
	}
	if h.Tags == nil {
		h.Tags = []string{}
		repaired = true
	}
	if h.Status == "" {
		h.Status = domain.StatusPending
		repaired = true
	}
	return h, repaired
}

// decodeHotelMap parses the hotel_map payload keyed by id.
func decodeHotelMap(raw string) (map[string]domain.Hotel, bool, error) {
	var stored map[string]storedHotel
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, false, err
	}
	out := make(map[string]domain.Hotel, len(stored))
	repaired := false
	for key, sh := range stored {
		h, fixed := sh.upgrade()
		if h.ID == "" {
			h.ID, fixed = key, true
		}
		repaired = repaired || fixed
		out[h.ID] = h
	}
	return out, repaired, nil
}

func encodeHotelMap(m map[string]domain.Hotel) (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ordered returns the records in natural storage order: creation sequence,
// then id.
func ordered(m map[string]domain.Hotel) []domain.Hotel {
	out := make([]domain.Hotel, 0, len(m))
	for _, h := range m {
		out = append(out, h)
	}
	slices.SortFunc(out, func(a, b domain.Hotel) int {
		if c := cmp.Compare(a.Seq, b.Seq); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func nextSeq(m map[string]domain.Hotel) int64 {
	var top int64
	for _, h := range m {
		top = max(top, h.Seq)
	}
	return top + 1
}

func decodeSearch(raw string) (domain.SearchParameters, error) {
	var sp domain.SearchParameters
	err := json.Unmarshal([]byte(raw), &sp)
	return sp, err
}

func encodeSearch(sp domain.SearchParameters) (string, error) {
	b, err := json.Marshal(sp)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
