package stockGameService

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/config"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/data/kvstore"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/data/repository"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/catalog"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/market"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model/dbModel"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCache struct {
	mu     sync.Mutex
	quotes map[string]decimal.Decimal
	news   []model.NewsItem
}

func newStubCache() *stubCache {
	return &stubCache{quotes: make(map[string]decimal.Decimal)}
}

func (c *stubCache) SetQuotes(_ context.Context, quotes map[string]decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for symbol, price := range quotes {
		c.quotes[symbol] = price
	}
	return nil
}

func (c *stubCache) GetQuote(_ context.Context, symbol string) (decimal.Decimal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	price, ok := c.quotes[symbol]
	if !ok {
		return decimal.Zero, kvstore.ErrNotFound
	}
	return price, nil
}

func (c *stubCache) GetQuotes(_ context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	quotes := make(map[string]decimal.Decimal)
	for _, symbol := range symbols {
		if price, ok := c.quotes[symbol]; ok {
			quotes[symbol] = price
		}
	}
	return quotes, nil
}

func (c *stubCache) SetNews(_ context.Context, news []model.NewsItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.news = news
	return nil
}

func (c *stubCache) GetNews(_ context.Context) ([]model.NewsItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.news == nil {
		return nil, kvstore.ErrNotFound
	}
	return c.news, nil
}

type stubRepo struct {
	mu           sync.Mutex
	players      map[int64]int64
	nextPlayerID int64
	transactions map[int64][]model.Transaction
	progress     map[int64]dbModel.Progress
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		players:      make(map[int64]int64),
		nextPlayerID: 1,
		transactions: make(map[int64][]model.Transaction),
		progress:     make(map[int64]dbModel.Progress),
	}
}

func (r *stubRepo) RegisterPlayer(_ context.Context, chatID int64, _ string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[chatID]; ok {
		return 0, repository.ErrAlreadyExists
	}
	id := r.nextPlayerID
	r.nextPlayerID++
	r.players[chatID] = id
	return id, nil
}

func (r *stubRepo) GetPlayerID(_ context.Context, chatID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.players[chatID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return id, nil
}

func (r *stubRepo) InsertTransaction(_ context.Context, playerID int64, tx model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions[playerID] = append(r.transactions[playerID], tx)
	return nil
}

func (r *stubRepo) GetTransactions(_ context.Context, playerID int64, limit int) ([]model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.transactions[playerID]
	transactions := make([]model.Transaction, 0, limit)
	for i := len(all) - 1; i >= 0 && len(transactions) < limit; i-- {
		transactions = append(transactions, all[i])
	}
	return transactions, nil
}

func (r *stubRepo) UpsertProgress(_ context.Context, playerID int64, progress dbModel.Progress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress[playerID] = progress
	return nil
}

func (r *stubRepo) GetProgress(_ context.Context, playerID int64) (dbModel.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	progress, ok := r.progress[playerID]
	if !ok {
		return dbModel.Progress{}, repository.ErrNotFound
	}
	return progress, nil
}

func (r *stubRepo) transactionCount(playerID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.transactions[playerID])
}

type stubCatalogApi struct{}

func (stubCatalogApi) GetCatalog(_ context.Context) ([]model.CatalogStock, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Game: config.Game{
			StartingCash:       1000,
			GameCash:           500,
			GameDays:           10,
			ChartDays:          30,
			HistoryLimit:       10,
			ReportTransactions: 100,
		},
	}
}

type fixture struct {
	srv       *StockGameService
	repo      *stubRepo
	cache     *stubCache
	snapshots *kvstore.Memory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newStubRepo()
	cache := newStubCache()
	snapshots := kvstore.NewMemory()

	srv := New(
		testConfig(),
		repo,
		cache,
		snapshots,
		catalog.NewDefault(),
		stubCatalogApi{},
		market.NewWithSource(rand.NewSource(1)),
		nil,
		nil,
	)

	return &fixture{srv: srv, repo: repo, cache: cache, snapshots: snapshots}
}

const chatID int64 = 42

func TestRegisterPlayer_SeedsSnapshotOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.srv.RegisterPlayer(ctx, chatID, "Sam"))

	summary, err := f.srv.GetPortfolio(ctx, chatID)
	require.NoError(t, err)
	assert.True(t, summary.Cash.Equal(decimal.NewFromInt(1000)))

	// a trade then re-register must not wipe the portfolio
	require.NoError(t, f.cache.SetQuotes(ctx, map[string]decimal.Decimal{"FRUT": decimal.NewFromInt(100)}))
	_, err = f.srv.BuyStock(ctx, chatID, "FRUT", 2)
	require.NoError(t, err)

	require.NoError(t, f.srv.RegisterPlayer(ctx, chatID, "Sam"))

	summary, err = f.srv.GetPortfolio(ctx, chatID)
	require.NoError(t, err)
	assert.True(t, summary.Cash.Equal(decimal.NewFromInt(800)), "got cash %s", summary.Cash)
}

func TestBuyStock_FlushesBeforeReturn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.srv.RegisterPlayer(ctx, chatID, "Sam"))
	require.NoError(t, f.cache.SetQuotes(ctx, map[string]decimal.Decimal{"FRUT": decimal.NewFromFloat(150.75)}))

	tx, err := f.srv.BuyStock(ctx, chatID, "FRUT", 2)
	require.NoError(t, err)
	assert.Equal(t, model.TransactionBuy, tx.Kind)
	assert.Equal(t, 2, tx.Shares)

	// snapshot must already reflect the trade
	data, err := f.snapshots.Load(ctx, ledgerKey(chatID))
	require.NoError(t, err)
	assert.Contains(t, string(data), "698.5")
	assert.Contains(t, string(data), "FRUT")
}

func TestBuyStock_UnknownSymbol(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.srv.RegisterPlayer(ctx, chatID, "Sam"))

	_, err := f.srv.BuyStock(ctx, chatID, "NOPE", 1)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestBuyStock_InsufficientFunds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.srv.RegisterPlayer(ctx, chatID, "Sam"))
	require.NoError(t, f.cache.SetQuotes(ctx, map[string]decimal.Decimal{"FRUT": decimal.NewFromInt(100)}))

	_, err := f.srv.BuyStock(ctx, chatID, "FRUT", 11)
	assert.ErrorIs(t, err, service.ErrInsufficientFunds)

	summary, err := f.srv.GetPortfolio(ctx, chatID)
	require.NoError(t, err)
	assert.True(t, summary.Cash.Equal(decimal.NewFromInt(1000)))
	assert.Empty(t, summary.Positions)
}

func TestSellStock_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.srv.RegisterPlayer(ctx, chatID, "Sam"))
	require.NoError(t, f.cache.SetQuotes(ctx, map[string]decimal.Decimal{
		"FRUT": decimal.NewFromInt(100),
		"TOYZ": decimal.NewFromInt(50),
	}))

	_, err := f.srv.SellStock(ctx, chatID, "TOYZ", 1)
	assert.ErrorIs(t, err, service.ErrNoSuchHolding)

	_, err = f.srv.BuyStock(ctx, chatID, "FRUT", 2)
	require.NoError(t, err)

	_, err = f.srv.SellStock(ctx, chatID, "FRUT", 3)
	assert.ErrorIs(t, err, service.ErrInsufficientShares)
}

func TestBuySell_ArchivesTransactions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.srv.RegisterPlayer(ctx, chatID, "Sam"))
	require.NoError(t, f.cache.SetQuotes(ctx, map[string]decimal.Decimal{"FRUT": decimal.NewFromInt(100)}))

	_, err := f.srv.BuyStock(ctx, chatID, "FRUT", 2)
	require.NoError(t, err)
	_, err = f.srv.SellStock(ctx, chatID, "FRUT", 2)
	require.NoError(t, err)

	playerID, err := f.repo.GetPlayerID(ctx, chatID)
	require.NoError(t, err)

	// archive and rewards run in the background
	require.Eventually(t, func() bool {
		return f.repo.transactionCount(playerID) == 2
	}, time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		progress, err := f.srv.GetProgress(ctx, chatID)
		return err == nil && progress.CompletedActivities["first_buy"] && progress.CompletedActivities["first_sell"]
	}, time.Second, 10*time.Millisecond)

	history, err := f.srv.GetHistory(ctx, chatID, 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestResetPortfolio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.srv.RegisterPlayer(ctx, chatID, "Sam"))
	require.NoError(t, f.cache.SetQuotes(ctx, map[string]decimal.Decimal{"FRUT": decimal.NewFromInt(100)}))

	_, err := f.srv.BuyStock(ctx, chatID, "FRUT", 3)
	require.NoError(t, err)

	require.NoError(t, f.srv.ResetPortfolio(ctx, chatID))

	summary, err := f.srv.GetPortfolio(ctx, chatID)
	require.NoError(t, err)
	assert.True(t, summary.Cash.Equal(decimal.NewFromInt(1000)))
	assert.Empty(t, summary.Positions)
}

func TestGetPortfolio_ValuesAtCurrentQuotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.srv.RegisterPlayer(ctx, chatID, "Sam"))
	require.NoError(t, f.cache.SetQuotes(ctx, map[string]decimal.Decimal{"FRUT": decimal.NewFromInt(100)}))

	_, err := f.srv.BuyStock(ctx, chatID, "FRUT", 2)
	require.NoError(t, err)

	require.NoError(t, f.cache.SetQuotes(ctx, map[string]decimal.Decimal{"FRUT": decimal.NewFromInt(120)}))

	summary, err := f.srv.GetPortfolio(ctx, chatID)
	require.NoError(t, err)
	require.Len(t, summary.Positions, 1)

	position := summary.Positions[0]
	assert.True(t, position.MarketValue.Equal(decimal.NewFromInt(240)))
	assert.True(t, position.GainLoss.Equal(decimal.NewFromInt(40)))
	assert.True(t, summary.TotalValue.Equal(decimal.NewFromInt(1040)), "got total %s", summary.TotalValue)
}

func TestGetStockInfo_ColdCacheFallsBackToSeries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	info, err := f.srv.GetStockInfo(ctx, "frut")
	require.NoError(t, err)
	assert.Equal(t, "FRUT", info.Symbol)

	points, err := market.Series("FRUT", testConfig().Game.ChartDays)
	require.NoError(t, err)
	assert.True(t, info.Price.Equal(points[len(points)-1].Price))
}

func TestRefreshPrices_FillsQuoteCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.srv.RefreshPrices(ctx))

	one := decimal.NewFromInt(1)
	for _, symbol := range []string{"FRUT", "TOYZ", "GAME", "CNDY", "ROBO", "PETS", "BIKE", "MOON"} {
		price, err := f.cache.GetQuote(ctx, symbol)
		require.NoError(t, err, "no quote for %s", symbol)
		assert.True(t, price.GreaterThanOrEqual(one))
	}
}

func TestGetNews_RegeneratesOnColdCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	news, err := f.srv.GetNews(ctx)
	require.NoError(t, err)
	assert.Len(t, news, 8)

	again, err := f.srv.GetNews(ctx)
	require.NoError(t, err)
	assert.Equal(t, news, again)
}

func TestGetHistory_UnknownPlayer(t *testing.T) {
	f := newFixture(t)

	_, err := f.srv.GetHistory(context.Background(), 999, 10)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
