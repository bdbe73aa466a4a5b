// Package analytics computes aggregate views over a user's ledger:
// totals, per-wallet distribution and a weekly spending trend derived
// from the global transaction log.
package analytics

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Fuzara/cashcraft/internal/ledger"
	"github.com/Fuzara/cashcraft/pkg/logger"
	"github.com/Fuzara/cashcraft/pkg/money"
)

const (
	cacheTTL     = 30 * time.Second
	cacheCleanup = 5 * time.Minute
	trendWeeks   = 4
)

// WalletSlice is one wallet's share of the total balance.
type WalletSlice struct {
	WalletID int64  `json:"walletId"`
	Name     string `json:"name"`
	Balance  string `json:"balance"`
	Display  string `json:"display"`
}

// WeeklySpending is the total expense volume of one ISO week, in
// display-currency cents.
type WeeklySpending struct {
	Year         int    `json:"year"`
	Week         int    `json:"week"`
	ExpenseCents string `json:"expenseCents"`
}

// Summary is the aggregate analytics view for one user.
type Summary struct {
	TotalBalance     string           `json:"totalBalance"`
	TotalDisplay     string           `json:"totalDisplay"`
	ReserveBalance   string           `json:"reserveBalance"`
	WalletCount      int              `json:"walletCount"`
	TransactionCount int              `json:"transactionCount"`
	Distribution     []WalletSlice    `json:"distribution"`
	WeeklySpending   []WeeklySpending `json:"weeklySpending"`
}

// Service computes and caches analytics summaries.
type Service struct {
	store  *ledger.Store
	rate   money.Rate
	cache  *gocache.Cache
	logger *logger.Logger
	now    func() time.Time
}

// NewService creates an analytics service. Summaries are cached per
// owner for a short TTL rather than invalidated by write hooks.
func NewService(store *ledger.Store, rate money.Rate, log *logger.Logger) *Service {
	return &Service{
		store:  store,
		rate:   rate,
		cache:  gocache.New(cacheTTL, cacheCleanup),
		logger: log.WithField("component", "analytics.service"),
		now:    time.Now,
	}
}

// Summary returns the owner's aggregate view, computing it on cache miss.
func (s *Service) Summary(ctx context.Context, owner ledger.Owner) (*Summary, error) {
	key := owner.String()
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*Summary), nil
	}

	l, err := s.store.Load(ctx, owner)
	if err != nil {
		return nil, err
	}

	summary := s.build(l)
	s.cache.Set(key, summary, gocache.DefaultExpiration)
	return summary, nil
}

func (s *Service) build(l *ledger.Ledger) *Summary {
	total := money.Zero()
	distribution := make([]WalletSlice, 0, len(l.Wallets))
	for _, w := range l.Wallets {
		balance := w.Balance
		if balance.IsNil() {
			balance = money.Zero()
		}
		total.Int.Add(total.Int, balance.Int)
		distribution = append(distribution, WalletSlice{
			WalletID: w.ID,
			Name:     w.Name,
			Balance:  balance.String(),
			Display:  money.FormatCurrencyPair(balance.Int, s.rate),
		})
	}

	reserve := l.ReserveBalance
	if reserve.IsNil() {
		reserve = money.Zero()
	}

	return &Summary{
		TotalBalance:     total.String(),
		TotalDisplay:     money.FormatCurrencyPair(total.Int, s.rate),
		ReserveBalance:   reserve.String(),
		WalletCount:      len(l.Wallets),
		TransactionCount: len(l.Transactions),
		Distribution:     distribution,
		WeeklySpending:   s.weeklySpending(l.Transactions),
	}
}

// weeklySpending aggregates expense amounts of the last trendWeeks ISO
// weeks from the global log. Entries with unparseable dates or amounts
// are skipped.
func (s *Service) weeklySpending(txs []*ledger.Transaction) []WeeklySpending {
	type weekKey struct {
		year int
		week int
	}

	now := s.now().UTC()
	buckets := make(map[weekKey]*money.BigInt, trendWeeks)
	order := make([]weekKey, 0, trendWeeks)
	for i := trendWeeks - 1; i >= 0; i-- {
		y, w := now.AddDate(0, 0, -7*i).ISOWeek()
		k := weekKey{year: y, week: w}
		buckets[k] = money.Zero()
		order = append(order, k)
	}

	for _, tx := range txs {
		if tx.Type != ledger.TransactionExpense {
			continue
		}
		ts, err := time.Parse(time.RFC3339, tx.Date)
		if err != nil {
			continue
		}
		y, w := ts.UTC().ISOWeek()
		bucket, ok := buckets[weekKey{year: y, week: w}]
		if !ok {
			continue
		}

		e8s, err := s.rate.DisplayToE8s(tx.Amount)
		if err != nil {
			continue
		}
		cents := s.rate.E8sToDisplayCents(e8s)
		bucket.Int.Add(bucket.Int, cents)
	}

	out := make([]WeeklySpending, 0, trendWeeks)
	for _, k := range order {
		out = append(out, WeeklySpending{
			Year:         k.year,
			Week:         k.week,
			ExpenseCents: buckets[k].String(),
		})
	}
	return out
}

// Invalidate drops the cached summary for an owner.
func (s *Service) Invalidate(owner ledger.Owner) {
	s.cache.Delete(owner.String())
}
