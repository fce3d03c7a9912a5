// Package collector fetches raw company metrics from Yahoo Finance and
// assembles them into the table the scoring pipeline consumes. Every symbol
// is fetched behind a rate limiter and a circuit breaker; a symbol that fails
// is logged and skipped, never fatal for the batch.
package collector

import (
	"context"
	"fmt"
	"math"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/config"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/data/cache"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/telemetry"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/universe"
)

// Trading-day offsets for the multi-horizon return columns.
const (
	days1M = 21
	days3M = 63
	days6M = 126
	days1Y = 252
)

// tradingDaysPerYear annualizes daily return volatility.
const tradingDaysPerYear = 252

// MarketDataSource abstracts the upstream market data provider so the
// collector can be tested without network access.
type MarketDataSource interface {
	Snapshot(symbol string) (*finance.Equity, error)
	DailyCloses(symbol string, start, end time.Time) ([]float64, error)
}

// YahooSource is the production MarketDataSource backed by Yahoo Finance.
type YahooSource struct{}

func (YahooSource) Snapshot(symbol string) (*finance.Equity, error) {
	return equity.Get(symbol)
}

func (YahooSource) DailyCloses(symbol string, start, end time.Time) ([]float64, error) {
	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Interval: datetime.OneDay,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
	})

	var closes []float64
	for iter.Next() {
		bar := iter.Bar()
		if bar == nil {
			continue
		}
		c, _ := bar.Close.Float64()
		if c > 0 {
			closes = append(closes, c)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("chart history for %s: %w", symbol, err)
	}
	return closes, nil
}

// Collector batches symbol fetches into a company table.
type Collector struct {
	source  MarketDataSource
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	history time.Duration
	store   cache.Store
}

// New builds a collector from config. The circuit breaker trips after the
// configured number of consecutive upstream failures and probes again after
// the cooldown.
func New(source MarketDataSource, cfg config.CollectorConfig) *Collector {
	settings := gobreaker.Settings{
		Name:    "yahoo-finance",
		Timeout: cfg.BreakerCooldown(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	}

	return &Collector{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		breaker: gobreaker.NewCircuitBreaker(settings),
		history: time.Duration(cfg.HistoryDays) * 24 * time.Hour,
	}
}

// WithCache reuses cached snapshots instead of refetching symbols within the
// cache TTL.
func (c *Collector) WithCache(store cache.Store) *Collector {
	c.store = store
	return c
}

// Columns is the set of columns Collect populates on every returned table.
func Columns() []string {
	return []string{
		domain.ColCurrentPrice, domain.ColMarketCap,
		domain.ColPERatio, domain.ColForwardPE, domain.ColPriceToBook,
		domain.ColEarningsGrowth, domain.ColDividendYield,
		domain.ColReturn1M, domain.ColReturn3M, domain.ColReturn6M, domain.ColReturn1Y,
		domain.ColVolatility30d, domain.ColVolatility90d,
	}
}

// Collect fetches every symbol in the universe and returns the assembled
// table. Failed symbols are dropped with a warning; the error return is
// non-nil only when the whole batch produced nothing.
func (c *Collector) Collect(ctx context.Context, u *universe.Universe) (*domain.Table, error) {
	symbols := u.AllSymbols()
	rows := make([]domain.Company, 0, len(symbols))

	for _, symbol := range symbols {
		row, err := c.fetch(ctx, symbol)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			telemetry.CollectorErrors.WithLabelValues(errorReason(err)).Inc()
			log.Warn().Err(err).Str("symbol", symbol).Msg("symbol skipped")
			continue
		}
		row.SectorCategory = u.SectorFor(symbol)
		rows = append(rows, *row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no symbols collected out of %d requested", len(symbols))
	}

	log.Info().Int("requested", len(symbols)).Int("collected", len(rows)).Msg("collection complete")
	return domain.NewTable(rows, Columns()...), nil
}

func (c *Collector) fetch(ctx context.Context, symbol string) (*domain.Company, error) {
	if c.store == nil {
		return c.collectOne(ctx, symbol)
	}
	return cache.GetOrFetch(ctx, c.store, symbol, func() (*domain.Company, error) {
		return c.collectOne(ctx, symbol)
	})
}

// collectOne waits out the rate limit, then fetches one symbol behind the
// breaker. Cache hits never reach this path.
func (c *Collector) collectOne(ctx context.Context, symbol string) (*domain.Company, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	res, err := c.breaker.Execute(func() (interface{}, error) {
		eq, err := c.source.Snapshot(symbol)
		if err != nil {
			return nil, err
		}
		if eq == nil {
			return nil, fmt.Errorf("empty snapshot for %s", symbol)
		}

		end := time.Now()
		start := end.Add(-c.history)
		closes, err := c.source.DailyCloses(symbol, start, end)
		if err != nil {
			return nil, err
		}
		return buildRow(symbol, eq, closes), nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.Company), nil
}

func buildRow(symbol string, eq *finance.Equity, closes []float64) *domain.Company {
	row := domain.NewCompany(symbol)
	row.CompanyName = eq.LongName
	if row.CompanyName == "" {
		row.CompanyName = eq.ShortName
	}

	row.CurrentPrice = positiveOrMissing(eq.RegularMarketPrice)
	row.MarketCap = positiveOrMissing(float64(eq.MarketCap))
	row.PERatio = positiveOrMissing(eq.TrailingPE)
	row.ForwardPE = positiveOrMissing(eq.ForwardPE)
	row.PriceToBook = positiveOrMissing(eq.PriceToBook)
	row.DividendYield = positiveOrMissing(eq.TrailingAnnualDividendYield)
	row.EarningsGrowth = epsGrowth(eq.EpsTrailingTwelveMonths, eq.EpsForward)

	row.Return1M = trailingReturn(closes, days1M)
	row.Return3M = trailingReturn(closes, days3M)
	row.Return6M = trailingReturn(closes, days6M)
	row.Return1Y = trailingReturn(closes, days1Y)
	row.Volatility30d = annualizedVolatility(closes, 30)
	row.Volatility90d = annualizedVolatility(closes, 90)

	return &row
}

// positiveOrMissing treats the provider's zero sentinel as a missing value.
func positiveOrMissing(v float64) float64 {
	if v <= 0 {
		return domain.Missing()
	}
	return v
}

// epsGrowth derives the expected earnings growth fraction from trailing and
// forward EPS. Only meaningful when the trailing base is positive.
func epsGrowth(trailing, forward float64) float64 {
	if trailing <= 0 || forward == 0 {
		return domain.Missing()
	}
	return (forward - trailing) / trailing
}

// trailingReturn is the percent price change over the last n trading days.
func trailingReturn(closes []float64, n int) float64 {
	if len(closes) <= n {
		return domain.Missing()
	}
	base := closes[len(closes)-1-n]
	last := closes[len(closes)-1]
	if base <= 0 {
		return domain.Missing()
	}
	return (last/base - 1) * 100
}

// annualizedVolatility is the standard deviation of daily returns over the
// last n sessions, annualized, as a fraction (0.25 = 25%).
func annualizedVolatility(closes []float64, n int) float64 {
	if len(closes) < n+1 {
		return domain.Missing()
	}
	window := closes[len(closes)-1-n:]
	returns := make([]float64, 0, n)
	for i := 1; i < len(window); i++ {
		if window[i-1] <= 0 {
			continue
		}
		returns = append(returns, window[i]/window[i-1]-1)
	}
	if len(returns) < 2 {
		return domain.Missing()
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))
	var ss float64
	for _, r := range returns {
		d := r - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(returns)-1))
	return std * math.Sqrt(tradingDaysPerYear)
}

func errorReason(err error) string {
	switch err {
	case gobreaker.ErrOpenState:
		return "breaker_open"
	case gobreaker.ErrTooManyRequests:
		return "breaker_throttled"
	default:
		return "upstream"
	}
}
