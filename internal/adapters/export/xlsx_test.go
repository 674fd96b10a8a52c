package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"easystay/internal/adapters/export"
	"easystay/internal/domain"
)

func TestHotelsXLSX(t *testing.T) {
	hotels := []domain.Hotel{
		{ID: "1", NameLocal: "易宿", Address: "世纪大道 100 号", StarRating: 4, BasePrice: 350,
			Status: domain.StatusRejected, UploadedBy: "admin", RejectionReason: "abnormal price",
			Rooms: []domain.Room{{ID: "r1"}, {ID: "r2"}}, UpdatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)},
		{ID: "2", NameLocal: "江景", Status: domain.StatusPending},
	}

	b, err := export.HotelsXLSX(hotels)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Hotels"}, f.GetSheetList())
	rows, err := f.GetRows("Hotels")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "ID", rows[0][0])
	require.Equal(t, []string{"1", "易宿", "", "世纪大道 100 号", "4", "350", "REJECTED", "admin", "abnormal price", "2", "2026-03-01 09:30:00"}, rows[1])
	require.Equal(t, "PENDING", rows[2][6])
}

func TestHotelsXLSX_Empty(t *testing.T) {
	b, err := export.HotelsXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Hotels")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
