package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferit-stup/radovi-crawler/internal/crawler"
)

func strPtr(s string) *string { return &s }

func testRecords() []crawler.Record {
	return []crawler.Record{
		{
			Title:      "Sustav nadzora",
			Body:       strPtr("Opis rada."),
			Link:       "https://stup.ferit.hr/r/1",
			CompanyOIB: strPtr("12345678901"),
		},
		{
			Title: "Vanjski rad",
			Link:  "https://stup.ferit.hr/r/2",
		},
	}
}

func expectUpserts(mock pgxmock.PgxPoolIface, records []crawler.Record) {
	for _, r := range records {
		mock.ExpectExec("INSERT INTO diplomski_radovi").
			WithArgs(r.Title, r.Body, r.Link, r.CompanyOIB).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
}

func TestUpsertAllInsertsEveryRecord(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewRecordStoreWithPool(mock)
	require.NoError(t, err)

	records := testRecords()
	expectUpserts(mock, records)

	require.NoError(t, store.UpsertAll(context.Background(), records))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertAllIsIdempotent(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewRecordStoreWithPool(mock)
	require.NoError(t, err)

	records := testRecords()
	// The same batch twice issues the same upserts; the ON CONFLICT clause
	// keeps the row set unchanged on the second pass.
	expectUpserts(mock, records)
	expectUpserts(mock, records)

	require.NoError(t, store.UpsertAll(context.Background(), records))
	require.NoError(t, store.UpsertAll(context.Background(), records))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertAllFailFast(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewRecordStoreWithPool(mock)
	require.NoError(t, err)

	records := testRecords()
	mock.ExpectExec("INSERT INTO diplomski_radovi").
		WithArgs(records[0].Title, records[0].Body, records[0].Link, records[0].CompanyOIB).
		WillReturnError(errors.New("connection reset"))

	err = store.UpsertAll(context.Background(), records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), records[0].Link)
	// The second record must not be attempted after the first failure.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertAllEmptyBatch(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewRecordStoreWithPool(mock)
	require.NoError(t, err)

	require.NoError(t, store.UpsertAll(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReadAllOrdersRows(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewRecordStoreWithPool(mock)
	require.NoError(t, err)

	newer := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	older := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{
		"id", "naziv_rada", "tekst_rada", "link_rada", "oib_tvrtke", "created_at",
	}).
		AddRow(int64(7), "Noviji rad", strPtr("opis"), "https://stup.ferit.hr/r/7", strPtr("12345678901"), newer).
		AddRow(int64(3), "Stariji rad", (*string)(nil), "https://stup.ferit.hr/r/3", (*string)(nil), older)

	mock.ExpectQuery("SELECT id, naziv_rada, tekst_rada, link_rada, oib_tvrtke, created_at[\\s\\S]*ORDER BY created_at DESC, id DESC").
		WillReturnRows(rows)

	got, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(7), got[0].ID)
	assert.Equal(t, "Noviji rad", got[0].Title)
	require.NotNil(t, got[0].Body)
	assert.Equal(t, "opis", *got[0].Body)
	assert.Equal(t, newer, got[0].CreatedAt)

	assert.Equal(t, int64(3), got[1].ID)
	assert.Nil(t, got[1].Body)
	assert.Nil(t, got[1].CompanyOIB)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReadAllQueryError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewRecordStoreWithPool(mock)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, naziv_rada").
		WillReturnError(errors.New("relation does not exist"))

	_, err = store.ReadAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read records")
}

func TestNewRecordStoreWithPoolRequiresPool(t *testing.T) {
	t.Parallel()

	_, err := NewRecordStoreWithPool(nil)
	require.Error(t, err)
}
