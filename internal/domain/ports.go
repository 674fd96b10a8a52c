package domain

import "context"

// Logical keys in the key-value substrate.
const (
	KeyHotelMap     = "hotel_map"
	KeySearchParams = "search_params"
)

// KVStore is the persistent key-value substrate: string keys, serialized string
// values, surviving restarts on the same device. Get reports absence with
// ok=false and a nil error.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Hotels is the view-layer contract of the hotel repository.
type Hotels interface {
	// Write paths
	Create(ctx context.Context, in HotelInput) (Hotel, error)
	Update(ctx context.Context, id string, p HotelPatch) (Hotel, error)
	Resubmit(ctx context.Context, id string, p HotelPatch) (Hotel, error)
	Approve(ctx context.Context, id string) (Hotel, error)
	Reject(ctx context.Context, id, reason string) (Hotel, error)
	TakeOffline(ctx context.Context, id string) (Hotel, error)
	Restore(ctx context.Context, id string) (Hotel, error)

	// Read paths
	GetByID(ctx context.Context, id string) (Hotel, error)
	Query(ctx context.Context, q HotelsQuery) (HotelsPage, error)
	ListByStatus(ctx context.Context, st Status, page, pageSize int) (HotelsPage, error)
	ListByMerchant(ctx context.Context, merchantID string) ([]Hotel, error)
}
