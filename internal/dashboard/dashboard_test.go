package dashboard_test

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/kiranshivaraju/skillora/internal/cache"
	"github.com/kiranshivaraju/skillora/internal/dashboard"
	"github.com/kiranshivaraju/skillora/internal/jobsapi"
	"github.com/kiranshivaraju/skillora/internal/jobsapi/jobsapitest"
	"github.com/kiranshivaraju/skillora/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

type memCache struct {
	cache.NoopCache
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Set(_ context.Context, key string, v []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = v
	return nil
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func fakeAPI() *jobsapitest.Fake {
	return &jobsapitest.Fake{
		Summary: models.SalarySummary{P50: 85000, P75: 110000, P90: 140000, N: 1200},
		Stacks: []models.StackCompareRow{
			{Stack: "go", P50: 95000, N: 300},
			{Stack: "python", P50: 90000, N: 500},
		},
	}
}

func TestLoad(t *testing.T) {
	api := fakeAPI()
	svc := dashboard.NewService(api, nil, 0, nil)

	data, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1200), data.Summary.N)
	assert.Len(t, data.Stacks, 2)
	assert.Equal(t, "go", data.Stacks[0].Stack)
}

func TestLoad_EitherFailureFails(t *testing.T) {
	api := fakeAPI()
	api.StacksErr = &jobsapi.HTTPError{StatusCode: 500, StatusText: "Internal Server Error", Detail: "boom"}
	svc := dashboard.NewService(api, nil, 0, nil)

	data, err := svc.Load(context.Background())
	assert.Nil(t, data)
	assert.True(t, jobsapi.IsStatus(err, 500))

	api = fakeAPI()
	api.SummaryErr = jobsapi.ErrNetwork
	svc = dashboard.NewService(api, nil, 0, nil)
	_, err = svc.Load(context.Background())
	assert.ErrorIs(t, err, jobsapi.ErrNetwork)
}

func TestLoad_CacheAside(t *testing.T) {
	api := fakeAPI()
	ca := newMemCache()
	svc := dashboard.NewService(api, ca, time.Minute, nil)
	ctx := context.Background()

	first, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, api.AnalyticsCalls)

	second, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, api.AnalyticsCalls)
	assert.Equal(t, first, second)

	require.NoError(t, svc.Invalidate(ctx))
	_, err = svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, api.AnalyticsCalls)
}

func TestLoad_ZeroTTLSkipsCache(t *testing.T) {
	api := fakeAPI()
	ca := newMemCache()
	svc := dashboard.NewService(api, ca, 0, nil)

	_, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ca.data)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name        string
		page, limit int
		want        []int
		wantPage    int
		wantLimit   int
		wantHasNext bool
	}{
		{"first page", 1, 3, []int{1, 2, 3}, 1, 3, true},
		{"last partial page", 3, 3, []int{7}, 3, 3, false},
		{"exact end", 1, 7, []int{1, 2, 3, 4, 5, 6, 7}, 1, 7, false},
		{"page below one", 0, 3, []int{1, 2, 3}, 1, 3, true},
		{"limit below one", 1, 0, []int{1, 2, 3, 4, 5, 6, 7}, 1, 10, false},
		{"out of range", 5, 3, []int{}, 5, 3, false},
		{"page near max int", math.MaxInt, 2, []int{}, math.MaxInt, 2, false},
		{"limit near max int", 1, math.MaxInt, []int{1, 2, 3, 4, 5, 6, 7}, 1, math.MaxInt, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := dashboard.Paginate(items, tt.page, tt.limit)
			assert.Equal(t, tt.want, p.Items)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, 7, p.Total)
			assert.Equal(t, tt.wantHasNext, p.HasNext)
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	p := dashboard.Paginate([]string(nil), 1, 10)
	assert.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
	assert.Zero(t, p.Total)
}

func TestFormatter(t *testing.T) {
	f := dashboard.NewFormatter(language.AmericanEnglish, currency.USD)

	assert.Equal(t, "85,000", f.Int(85000))
	assert.Equal(t, "1,234.50", f.Number(1234.5, 2))
	assert.Equal(t, "$140,000", f.Currency(140000, ""))
	assert.Equal(t, "$140,000", f.Currency(140000, "not-a-code"))

	n := int64(4200)
	assert.Equal(t, "4,200", f.Count(&n))
}

func TestFormatter_Missing(t *testing.T) {
	f := dashboard.NewFormatter(language.AmericanEnglish, currency.USD)

	assert.Equal(t, dashboard.Missing, f.Int(math.NaN()))
	assert.Equal(t, dashboard.Missing, f.Number(math.NaN(), 2))
	assert.Equal(t, dashboard.Missing, f.Currency(math.NaN(), "EUR"))
	assert.Equal(t, dashboard.Missing, f.Count(nil))
}
