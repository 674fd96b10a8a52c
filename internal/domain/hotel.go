package domain

import (
	"slices"
	"time"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPublished Status = "PUBLISHED"
	StatusRejected  Status = "REJECTED"
	StatusOffline   Status = "OFFLINE"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPublished, StatusRejected, StatusOffline:
		return true
	}
	return false
}

// Hotel is one listing record as kept in the hotel_map key.
type Hotel struct {
	ID                string    `json:"id"`
	Seq               int64     `json:"seq"` // creation order; natural storage order
	UploadedBy        string    `json:"uploadedBy"`
	SourceHotelID     string    `json:"sourceHotelId,omitempty"` // set on a pending revision of a published hotel
	NameLocal         string    `json:"nameLocal"`
	NameForeign       string    `json:"nameForeign"`
	Address           string    `json:"address"`
	StarRating        int       `json:"starRating"`
	BasePrice         float64   `json:"basePrice"`
	OpeningDate       string    `json:"openingDate"`
	Rooms             []Room    `json:"rooms"`
	Status            Status    `json:"status"`
	CoverImageRef     string    `json:"coverImageRef"`
	RejectionReason   string    `json:"rejectionReason,omitempty"`
	NearbyDescription string    `json:"nearbyDescription,omitempty"`
	Tags              []string  `json:"tags"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type Room struct {
	ID         string  `json:"id"`
	Name       string  `json:"name" validate:"required"`
	Price      float64 `json:"price" validate:"gte=0"`
	ImageRef   string  `json:"imageRef"`
	SizeLabel  string  `json:"sizeLabel"`
	Capacity   int     `json:"capacity" validate:"gte=1"`
	BedType    string  `json:"bedType"`
	PolicyText string  `json:"policyText"`
}

func (h Hotel) IsRevision() bool { return h.SourceHotelID != "" }

// Clone returns a copy that shares no slices with h.
func (h Hotel) Clone() Hotel {
	out := h
	out.Rooms = slices.Clone(h.Rooms)
	out.Tags = slices.Clone(h.Tags)
	return out
}

// HasAnyTag reports whether h carries at least one of tags.
func (h Hotel) HasAnyTag(tags []string) bool {
	for _, t := range tags {
		if slices.Contains(h.Tags, t) {
			return true
		}
	}
	return false
}

// HotelInput is a merchant submission.
type HotelInput struct {
	UploadedBy        string   `json:"uploadedBy" validate:"required"`
	NameLocal         string   `json:"nameLocal" validate:"required"`
	NameForeign       string   `json:"nameForeign"`
	Address           string   `json:"address" validate:"required"`
	StarRating        int      `json:"starRating" validate:"required,min=1,max=5"`
	BasePrice         float64  `json:"basePrice" validate:"gte=0"`
	OpeningDate       string   `json:"openingDate"`
	Rooms             []Room   `json:"rooms" validate:"dive"`
	CoverImageRef     string   `json:"coverImageRef"`
	NearbyDescription string   `json:"nearbyDescription" validate:"max=200"`
	Tags              []string `json:"tags"`
}

// HotelPatch carries replace-if-present edits. There is no Status field;
// status only moves through the transition operations.
type HotelPatch struct {
	NameLocal         *string   `json:"nameLocal,omitempty" validate:"omitnil,min=1"`
	NameForeign       *string   `json:"nameForeign,omitempty" validate:"omitnil,min=1"`
	Address           *string   `json:"address,omitempty" validate:"omitnil,min=1"`
	StarRating        *int      `json:"starRating,omitempty" validate:"omitnil,min=1,max=5"`
	BasePrice         *float64  `json:"basePrice,omitempty" validate:"omitnil,gte=0"`
	OpeningDate       *string   `json:"openingDate,omitempty"`
	Rooms             *[]Room   `json:"rooms,omitempty" validate:"omitnil,dive"`
	CoverImageRef     *string   `json:"coverImageRef,omitempty"`
	NearbyDescription *string   `json:"nearbyDescription,omitempty" validate:"omitnil,max=200"`
	Tags              *[]string `json:"tags,omitempty"`
}

// Apply merges p into h and returns the result; h is not modified.
func (p HotelPatch) Apply(h Hotel) Hotel {
	out := h.Clone()
	if p.NameLocal != nil {
		out.NameLocal = *p.NameLocal
	}
	if p.NameForeign != nil {
		out.NameForeign = *p.NameForeign
	}
	if p.Address != nil {
		out.Address = *p.Address
	}
	if p.StarRating != nil {
		out.StarRating = *p.StarRating
	}
	if p.BasePrice != nil {
		out.BasePrice = *p.BasePrice
	}
	if p.OpeningDate != nil {
		out.OpeningDate = *p.OpeningDate
	}
	if p.Rooms != nil {
		out.Rooms = slices.Clone(*p.Rooms)
	}
	if p.CoverImageRef != nil {
		out.CoverImageRef = *p.CoverImageRef
	}
	if p.NearbyDescription != nil {
		out.NearbyDescription = *p.NearbyDescription
	}
	if p.Tags != nil {
		out.Tags = slices.Clone(*p.Tags)
	}
	return out
}

// MateriallyEqual compares the fields a reviewer looks at when a rejected
// listing comes back: names, stars, address, cover, opening date, nearby text
// and rooms.
func MateriallyEqual(a, b Hotel) bool {
	return a.NameLocal == b.NameLocal &&
		a.NameForeign == b.NameForeign &&
		a.StarRating == b.StarRating &&
		a.Address == b.Address &&
		a.CoverImageRef == b.CoverImageRef &&
		a.OpeningDate == b.OpeningDate &&
		a.NearbyDescription == b.NearbyDescription &&
		slices.Equal(a.Rooms, b.Rooms)
}

// MergeInto copies the revision's editable fields onto its source listing.
// Identity, ownership, creation data and status of the source are kept.
func MergeInto(source, revision Hotel) Hotel {
	out := revision.Clone()
	out.ID = source.ID
	out.Seq = source.Seq
	out.UploadedBy = source.UploadedBy
	out.SourceHotelID = ""
	out.CreatedAt = source.CreatedAt
	out.Status = source.Status
	out.RejectionReason = ""
	return out
}

// RejectReasons are the presets offered to reviewers; free text is also accepted.
var RejectReasons = []string{
	"incomplete information",
	"photos non-compliant",
	"abnormal price",
	"incorrect address",
	"questionable qualification",
	"other",
}
