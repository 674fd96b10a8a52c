package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"easystay/internal/domain"
)

// Create stores a new PENDING listing under a fresh id.
func (s *HotelService) Create(ctx context.Context, in domain.HotelInput) (out domain.Hotel, err error) {
	defer track("create", time.Now(), &err)

	in = trimInput(in)
	if err := validateStruct(in); err != nil {
		return domain.Hotel{}, err
	}
	if err := s.checkRooms(in.Rooms); err != nil {
		return domain.Hotel{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load(ctx)
	if err != nil {
		return domain.Hotel{}, err
	}
	id, err := s.freshID(m)
	if err != nil {
		return domain.Hotel{}, err
	}
	now := s.now().UTC()
	h := domain.Hotel{
		ID:                id,
		Seq:               nextSeq(m),
		UploadedBy:        in.UploadedBy,
		NameLocal:         in.NameLocal,
		NameForeign:       in.NameForeign,
		Address:           in.Address,
		StarRating:        in.StarRating,
		BasePrice:         in.BasePrice,
		OpeningDate:       in.OpeningDate,
		Rooms:             withRoomIDs(in.Rooms),
		Status:            domain.StatusPending,
		CoverImageRef:     in.CoverImageRef,
		NearbyDescription: in.NearbyDescription,
		Tags:              append([]string{}, in.Tags...),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	m[h.ID] = h
	if err := s.save(ctx, m); err != nil {
		return domain.Hotel{}, err
	}
	log.Info().Str("id", h.ID).Str("merchant", h.UploadedBy).Msg("hotel submitted")
	return h.Clone(), nil
}

// Update applies a merchant edit. A PENDING listing changes in place. Editing
// a REJECTED listing is its resubmission. A PUBLISHED listing stays live and
// untouched: the edit becomes (or amends) a PENDING revision pointing at it.
func (s *HotelService) Update(ctx context.Context, id string, p domain.HotelPatch) (out domain.Hotel, err error) {
	defer track("update", time.Now(), &err)

	p = trimPatch(p)
	if err := s.checkPatch(p); err != nil {
		return domain.Hotel{}, err
	}
	return s.mutate(ctx, id, func(m map[string]domain.Hotel, h domain.Hotel) (domain.Hotel, error) {
		switch h.Status {
		case domain.StatusPending:
			return applyPatch(p, h), nil
		case domain.StatusRejected:
			return s.resubmission(m, h, p)
		case domain.StatusPublished:
			if rev, ok := pendingRevision(m, h.ID); ok {
				log.Info().Str("id", rev.ID).Str("source", h.ID).Msg("revision amended")
				return applyPatch(p, rev), nil
			}
			revID, err := s.freshID(m)
			if err != nil {
				return domain.Hotel{}, err
			}
			rev := applyPatch(p, h)
			rev.ID = revID
			rev.Seq = nextSeq(m)
			rev.SourceHotelID = h.ID
			rev.Status = domain.StatusPending
			rev.RejectionReason = ""
			rev.CreatedAt = s.now().UTC()
			log.Info().Str("id", rev.ID).Str("source", h.ID).Msg("revision forked")
			return rev, nil
		}
		return domain.Hotel{}, domain.Transition("update", h.Status)
	})
}

// Resubmit sends a REJECTED listing back to review with the merchant's edits.
// The result must differ materially from what was rejected.
func (s *HotelService) Resubmit(ctx context.Context, id string, p domain.HotelPatch) (out domain.Hotel, err error) {
	defer track("resubmit", time.Now(), &err)

	p = trimPatch(p)
	if err := s.checkPatch(p); err != nil {
		return domain.Hotel{}, err
	}
	return s.mutate(ctx, id, func(m map[string]domain.Hotel, h domain.Hotel) (domain.Hotel, error) {
		if h.Status != domain.StatusRejected {
			return domain.Hotel{}, domain.Transition("resubmit", h.Status)
		}
		return s.resubmission(m, h, p)
	})
}

// resubmission puts a REJECTED listing back in review with p applied. A
// rejected revision may only return while no other revision of its source is
// pending, so a source never has two edits in review.
func (s *HotelService) resubmission(m map[string]domain.Hotel, h domain.Hotel, p domain.HotelPatch) (domain.Hotel, error) {
	next := applyPatch(p, h)
	if domain.MateriallyEqual(h, next) {
		return domain.Hotel{}, domain.ErrNoChange
	}
	if err := s.checkRooms(next.Rooms); err != nil {
		return domain.Hotel{}, err
	}
	if h.IsRevision() {
		if other, ok := pendingRevision(m, h.SourceHotelID); ok {
			return domain.Hotel{}, fmt.Errorf("%w: revision %s of %s is already in review",
				domain.ErrInvalidTransition, other.ID, h.SourceHotelID)
		}
	}
	next.Status = domain.StatusPending
	next.RejectionReason = ""
	log.Info().Str("id", h.ID).Msg("hotel resubmitted")
	return next, nil
}

// Approve publishes a PENDING listing. For a revision the source listing takes
// the revision's fields, the revision is removed and the source is returned.
// The source keeps its status, so an OFFLINE source stays offline until restored.
func (s *HotelService) Approve(ctx context.Context, id string) (out domain.Hotel, err error) {
	defer track("approve", time.Now(), &err)

	return s.mutate(ctx, id, func(m map[string]domain.Hotel, h domain.Hotel) (domain.Hotel, error) {
		if h.Status != domain.StatusPending {
			return domain.Hotel{}, domain.Transition("approve", h.Status)
		}
		if strings.TrimSpace(h.CoverImageRef) == "" {
			return domain.Hotel{}, domain.Invalid("coverImageRef", "is required before publication")
		}
		if err := s.checkRooms(h.Rooms); err != nil {
			return domain.Hotel{}, err
		}
		if !h.IsRevision() {
			h.Status = domain.StatusPublished
			h.RejectionReason = ""
			log.Info().Str("id", h.ID).Msg("hotel approved")
			return h, nil
		}
		src, ok := m[h.SourceHotelID]
		if !ok {
			return domain.Hotel{}, fmt.Errorf("source %s of revision %s: %w", h.SourceHotelID, h.ID, domain.ErrNotFound)
		}
		delete(m, h.ID)
		log.Info().Str("id", src.ID).Str("revision", h.ID).Msg("revision merged")
		return domain.MergeInto(src, h), nil
	})
}

// Reject sends a PENDING listing back to its merchant with a reason.
func (s *HotelService) Reject(ctx context.Context, id, reason string) (out domain.Hotel, err error) {
	defer track("reject", time.Now(), &err)

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.Hotel{}, domain.Invalid("reason", "is required")
	}
	return s.mutate(ctx, id, func(_ map[string]domain.Hotel, h domain.Hotel) (domain.Hotel, error) {
		if h.Status != domain.StatusPending {
			return domain.Hotel{}, domain.Transition("reject", h.Status)
		}
		h.Status = domain.StatusRejected
		h.RejectionReason = reason
		log.Info().Str("id", h.ID).Str("reason", reason).Msg("hotel rejected")
		return h, nil
	})
}

func (s *HotelService) TakeOffline(ctx context.Context, id string) (out domain.Hotel, err error) {
	defer track("offline", time.Now(), &err)
	return s.move(ctx, id, "offline", domain.StatusPublished, domain.StatusOffline)
}

// Restore re-publishes an OFFLINE listing without another review.
func (s *HotelService) Restore(ctx context.Context, id string) (out domain.Hotel, err error) {
	defer track("restore", time.Now(), &err)
	return s.move(ctx, id, "restore", domain.StatusOffline, domain.StatusPublished)
}

func (s *HotelService) move(ctx context.Context, id, op string, from, to domain.Status) (domain.Hotel, error) {
	return s.mutate(ctx, id, func(_ map[string]domain.Hotel, h domain.Hotel) (domain.Hotel, error) {
		if h.Status != from {
			return domain.Hotel{}, domain.Transition(op, h.Status)
		}
		h.Status = to
		h.RejectionReason = ""
		log.Info().Str("id", h.ID).Str("status", string(to)).Msg("hotel " + op)
		return h, nil
	})
}

// mutate loads the map, hands fn a copy of record id and stores what fn
// returns under the returned record's id. fn may also edit m directly.
func (s *HotelService) mutate(ctx context.Context, id string,
	fn func(m map[string]domain.Hotel, h domain.Hotel) (domain.Hotel, error),
) (domain.Hotel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load(ctx)
	if err != nil {
		return domain.Hotel{}, err
	}
	h, ok := m[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	out, err := fn(m, h.Clone())
	if err != nil {
		return domain.Hotel{}, err
	}
	out.UpdatedAt = s.now().UTC()
	m[out.ID] = out
	if err := s.save(ctx, m); err != nil {
		return domain.Hotel{}, err
	}
	return out.Clone(), nil
}

func (s *HotelService) freshID(m map[string]domain.Hotel) (string, error) {
	for i := 0; i < 8; i++ {
		id := s.newID()
		if _, taken := m[id]; id != "" && !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique hotel id")
}

func (s *HotelService) checkRooms(rooms []domain.Room) error {
	if s.strictRooms && len(rooms) == 0 {
		return domain.Invalid("rooms", "at least one room is required")
	}
	return nil
}

func (s *HotelService) checkPatch(p domain.HotelPatch) error {
	if err := validateStruct(p); err != nil {
		return err
	}
	if p.Rooms != nil {
		return s.checkRooms(*p.Rooms)
	}
	return nil
}

func pendingRevision(m map[string]domain.Hotel, sourceID string) (domain.Hotel, bool) {
	for _, h := range ordered(m) {
		if h.SourceHotelID == sourceID && h.Status == domain.StatusPending {
			return h.Clone(), true
		}
	}
	return domain.Hotel{}, false
}

func applyPatch(p domain.HotelPatch, h domain.Hotel) domain.Hotel {
	out := p.Apply(h)
	out.Rooms = withRoomIDs(out.Rooms)
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return out
}

// withRoomIDs fills missing room ids with the first free "rN".
func withRoomIDs(rooms []domain.Room) []domain.Room {
	out := make([]domain.Room, len(rooms))
	used := map[string]bool{}
	for _, r := range rooms {
		if r.ID != "" {
			used[r.ID] = true
		}
	}
	n := 0
	for i, r := range rooms {
		if r.ID == "" {
			for {
				n++
				if id := fmt.Sprintf("r%d", n); !used[id] {
					r.ID = id
					used[id] = true
					break
				}
			}
		}
		out[i] = r
	}
	return out
}

func trimInput(in domain.HotelInput) domain.HotelInput {
	in.UploadedBy = strings.TrimSpace(in.UploadedBy)
	in.NameLocal = strings.TrimSpace(in.NameLocal)
	in.NameForeign = strings.TrimSpace(in.NameForeign)
	in.Address = strings.TrimSpace(in.Address)
	in.OpeningDate = strings.TrimSpace(in.OpeningDate)
	in.CoverImageRef = strings.TrimSpace(in.CoverImageRef)
	in.NearbyDescription = strings.TrimSpace(in.NearbyDescription)
	in.Rooms = trimRooms(in.Rooms)
	return in
}

func trimPatch(p domain.HotelPatch) domain.HotelPatch {
	for _, f := range []**string{&p.NameLocal, &p.NameForeign, &p.Address, &p.OpeningDate, &p.CoverImageRef, &p.NearbyDescription} {
		if *f != nil {
			v := strings.TrimSpace(**f)
			*f = &v
		}
	}
	if p.Rooms != nil {
		rooms := trimRooms(*p.Rooms)
		p.Rooms = &rooms
	}
	return p
}

func trimRooms(rooms []domain.Room) []domain.Room {
	if rooms == nil {
		return nil
	}
	out := make([]domain.Room, len(rooms))
	for i, r := range rooms {
		r.Name = strings.TrimSpace(r.Name)
		out[i] = r
	}
	return out
}
