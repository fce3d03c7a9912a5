package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
)

func TestRedisStore_GetMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewWithClient(client, "hniq", time.Hour)

	mock.ExpectGet("hniq:snapshot:AAPL").RedisNil()

	_, ok := store.Get(context.Background(), "aapl")
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_GetHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewWithClient(client, "hniq", time.Hour)

	doc := snapshotDoc{
		Symbol:         "AAPL",
		CompanyName:    "Apple Inc.",
		SectorCategory: "tech",
		Metrics: map[string]float64{
			domain.ColCurrentPrice: 180.5,
			domain.ColPERatio:      28.1,
		},
		StoredAt: time.Now().UTC(),
	}
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	mock.ExpectGet("hniq:snapshot:AAPL").SetVal(string(b))

	c, ok := store.Get(context.Background(), "AAPL")
	require.True(t, ok)
	assert.Equal(t, "Apple Inc.", c.CompanyName)
	assert.Equal(t, "tech", c.SectorCategory)
	assert.InDelta(t, 180.5, c.CurrentPrice, 1e-9)
	assert.InDelta(t, 28.1, c.PERatio, 1e-9)
	assert.True(t, domain.IsMissing(c.MarketCap), "metrics absent from the doc stay missing")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_GetErrorIsMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewWithClient(client, "hniq", time.Hour)

	mock.ExpectGet("hniq:snapshot:AAPL").SetErr(errors.New("connection refused"))

	_, ok := store.Get(context.Background(), "AAPL")
	assert.False(t, ok, "a failing cache degrades to a miss, never an error")
}

func TestRedisStore_GetCorruptEntryIsMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewWithClient(client, "hniq", time.Hour)

	mock.ExpectGet("hniq:snapshot:AAPL").SetVal("{not json")

	_, ok := store.Get(context.Background(), "AAPL")
	assert.False(t, ok)
}

func TestRedisStore_Put(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewWithClient(client, "hniq", 2*time.Hour)

	c := domain.NewCompany("msft")
	c.CompanyName = "Microsoft"
	c.CurrentPrice = 410

	// The stored document carries a timestamp, so match the payload loosely.
	mock.Regexp().ExpectSet("hniq:snapshot:MSFT", `"symbol":"MSFT"`, 2*time.Hour).SetVal("OK")

	store.Put(context.Background(), &c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEncodeDecode_SkipsMissingMetrics(t *testing.T) {
	c := domain.NewCompany("NVDA")
	c.CompanyName = "NVIDIA"
	c.MarketCap = 3e12
	// Everything else stays missing.

	b, err := encode(&c)
	require.NoError(t, err)

	var doc snapshotDoc
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Len(t, doc.Metrics, 1)

	got, err := decode(b)
	require.NoError(t, err)
	assert.Equal(t, "NVDA", got.Symbol)
	assert.InDelta(t, 3e12, got.MarketCap, 1e-3)
	assert.True(t, domain.IsMissing(got.PERatio))
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemory(time.Hour)
	ctx := context.Background()

	_, ok := store.Get(ctx, "AAPL")
	assert.False(t, ok)

	c := domain.NewCompany("AAPL")
	c.CurrentPrice = 180
	store.Put(ctx, &c)

	got, ok := store.Get(ctx, "aapl")
	require.True(t, ok)
	assert.InDelta(t, 180.0, got.CurrentPrice, 1e-9)

	// The store hands back a copy, not its internal entry.
	got.CurrentPrice = 1
	again, _ := store.Get(ctx, "AAPL")
	assert.InDelta(t, 180.0, again.CurrentPrice, 1e-9)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	store := NewMemory(time.Millisecond)
	ctx := context.Background()

	c := domain.NewCompany("AAPL")
	store.Put(ctx, &c)

	time.Sleep(5 * time.Millisecond)
	_, ok := store.Get(ctx, "AAPL")
	assert.False(t, ok)
}

func TestGetOrFetch(t *testing.T) {
	store := NewMemory(time.Hour)
	ctx := context.Background()

	calls := 0
	fetch := func() (*domain.Company, error) {
		calls++
		c := domain.NewCompany("AAPL")
		c.CurrentPrice = 180
		return &c, nil
	}

	first, err := GetOrFetch(ctx, store, "AAPL", fetch)
	require.NoError(t, err)
	assert.InDelta(t, 180.0, first.CurrentPrice, 1e-9)

	second, err := GetOrFetch(ctx, store, "AAPL", fetch)
	require.NoError(t, err)
	assert.InDelta(t, 180.0, second.CurrentPrice, 1e-9)
	assert.Equal(t, 1, calls, "second call is served from cache")

	wantErr := errors.New("upstream down")
	_, err = GetOrFetch(ctx, store, "TSLA", func() (*domain.Company, error) { return nil, wantErr })
	assert.ErrorIs(t, err, wantErr)
}

var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
