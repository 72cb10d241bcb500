package stockGameService

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/config"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/data/kvstore"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/data/repository"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/catalog"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/externalApi"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/ledger"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/market"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model/dbModel"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/rewards"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/service"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/utils"
	"github.com/shopspring/decimal"
)

type CatalogApi interface {
	GetCatalog(ctx context.Context) ([]model.CatalogStock, error)
}

type Cache interface {
	SetQuotes(ctx context.Context, quotes map[string]decimal.Decimal) error
	GetQuote(ctx context.Context, symbol string) (decimal.Decimal, error)
	GetQuotes(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
	SetNews(ctx context.Context, news []model.NewsItem) error
	GetNews(ctx context.Context) ([]model.NewsItem, error)
}

type Repository interface {
	RegisterPlayer(ctx context.Context, chatID int64, nickname string) (playerID int64, err error)
	GetPlayerID(ctx context.Context, chatID int64) (playerID int64, err error)
	InsertTransaction(ctx context.Context, playerID int64, tx model.Transaction) error
	GetTransactions(ctx context.Context, playerID int64, limit int) ([]model.Transaction, error)
	UpsertProgress(ctx context.Context, playerID int64, progress dbModel.Progress) error
	GetProgress(ctx context.Context, playerID int64) (dbModel.Progress, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, report model.Report) (fileBytes []byte, fileExtension string, err error)
}

type CloudStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
}

// StockGameService glues the game together: simulated quotes feed the ledger,
// every ledger mutation is flushed to the snapshot store before returning,
// and trades feed the reward and history pipelines.
type StockGameService struct {
	cfg        *config.Config
	repo       Repository
	cache      Cache
	snapshots  kvstore.Store
	catalog    *catalog.Catalog
	catalogApi CatalogApi
	market     *market.Generator
	reportGen  ReportGenerator
	cloud      CloudStorage
}

func New(
	cfg *config.Config,
	repo Repository,
	cache Cache,
	snapshots kvstore.Store,
	cat *catalog.Catalog,
	catalogApi CatalogApi,
	gen *market.Generator,
	reportGen ReportGenerator,
	cloud CloudStorage,
) *StockGameService {
	return &StockGameService{
		cfg:        cfg,
		repo:       repo,
		cache:      cache,
		snapshots:  snapshots,
		catalog:    cat,
		catalogApi: catalogApi,
		market:     gen,
		reportGen:  reportGen,
		cloud:      cloud,
	}
}

func ledgerKey(chatID int64) string { return fmt.Sprintf("ledger:%d", chatID) }
func gameKey(chatID int64) string   { return fmt.Sprintf("game:%d", chatID) }

func (s *StockGameService) startingCash() decimal.Decimal {
	return decimal.NewFromFloat(s.cfg.Game.StartingCash)
}

// RegisterPlayer registers the chat and seeds a fresh portfolio with the
// configured starting cash. Re-registering an existing player is not an
// error.
func (s *StockGameService) RegisterPlayer(ctx context.Context, chatID int64, nickname string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockGameService.RegisterPlayer"

	slog.Debug("RegisterPlayer start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	defer func() {
		slog.Debug("RegisterPlayer finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	}()

	_, err := s.repo.RegisterPlayer(ctx, chatID, nickname)
	if err != nil && !errors.Is(err, repository.ErrAlreadyExists) {
		slog.Error("got error from repo.RegisterPlayer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	// Seed the portfolio snapshot only when none exists yet.
	_, err = s.snapshots.Load(ctx, ledgerKey(chatID))
	if err == nil {
		return nil
	}
	if !errors.Is(err, kvstore.ErrNotFound) {
		slog.Error("got error from snapshots.Load", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return s.flushLedger(ctx, chatID, ledger.New(s.startingCash()))
}

// loadLedger restores the player's ledger from its snapshot, creating a fresh
// one for players who never traded.
func (s *StockGameService) loadLedger(ctx context.Context, chatID int64) (*ledger.Ledger, error) {
	l := ledger.New(s.startingCash())

	data, err := s.snapshots.Load(ctx, ledgerKey(chatID))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return l, nil
		}
		return nil, err
	}

	if err := l.Restore(data); err != nil {
		return nil, err
	}
	return l, nil
}

// flushLedger persists the whole aggregate; mutating operations call it
// before returning so a restart observes the latest consistent state.
func (s *StockGameService) flushLedger(ctx context.Context, chatID int64, l *ledger.Ledger) error {
	data, err := l.Snapshot()
	if err != nil {
		return err
	}
	return s.snapshots.Save(ctx, ledgerKey(chatID), data)
}

// GetStockInfo returns catalog metadata joined with the current simulated
// quote.
func (s *StockGameService) GetStockInfo(ctx context.Context, symbol string) (model.StockInfo, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockGameService.GetStockInfo"

	slog.Debug("GetStockInfo start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("GetStockInfo finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	stock, ok := s.catalog.Get(symbol)
	if !ok {
		return model.StockInfo{}, service.ErrNotFound
	}

	price, err := s.currentPrice(ctx, stock.Symbol)
	if err != nil {
		return model.StockInfo{}, err
	}

	return model.StockInfo{CatalogStock: stock, Price: price}, nil
}

// currentPrice prefers the ticker-maintained quote cache; with a cold cache
// it falls back to the tail of the symbol's deterministic chart series, the
// same price the kid sees on the chart.
func (s *StockGameService) currentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	price, err := s.cache.GetQuote(ctx, symbol)
	if err == nil {
		return price, nil
	}

	slog.Warn("can't get quote from cache", slog.String("rqID", rqID), slog.String("symbol", symbol), slog.String("err", err.Error()))

	points, err := market.Series(symbol, s.cfg.Game.ChartDays)
	if err != nil {
		return decimal.Zero, err
	}

	return points[len(points)-1].Price, nil
}

// GetChart returns the symbol's simulated daily price series.
func (s *StockGameService) GetChart(ctx context.Context, symbol string, days int) ([]model.PricePoint, error) {
	if _, ok := s.catalog.Get(symbol); !ok {
		return nil, service.ErrNotFound
	}

	points, err := market.Series(strings.ToUpper(symbol), days)
	if err != nil {
		if errors.Is(err, market.ErrInvalidArgument) {
			return nil, service.ErrInvalidArgument
		}
		return nil, err
	}
	return points, nil
}

// GetCatalog lists the shop.
func (s *StockGameService) GetCatalog(ctx context.Context) []model.CatalogStock {
	return s.catalog.All()
}

// GetPortfolio values the player's holdings at current quotes.
func (s *StockGameService) GetPortfolio(ctx context.Context, chatID int64) (model.PortfolioSummary, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockGameService.GetPortfolio"

	slog.Debug("GetPortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	defer func() {
		slog.Debug("GetPortfolio finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	}()

	l, err := s.loadLedger(ctx, chatID)
	if err != nil {
		slog.Error("can't load ledger", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.PortfolioSummary{}, err
	}

	holdings := l.Holdings()
	prices, err := s.pricesFor(ctx, holdings)
	if err != nil {
		return model.PortfolioSummary{}, err
	}

	summary := model.PortfolioSummary{Cash: l.Cash()}
	for _, holding := range holdings {
		price := prices[holding.Symbol]
		sharesDec := decimal.NewFromInt(int64(holding.Shares))
		marketValue := price.Mul(sharesDec)

		position := model.Position{
			Holding:      holding,
			CurrentPrice: price,
			MarketValue:  marketValue,
			GainLoss:     price.Sub(holding.AverageCost).Mul(sharesDec),
		}
		if stock, ok := s.catalog.Get(holding.Symbol); ok {
			position.Shortname = stock.Shortname
		}

		summary.Positions = append(summary.Positions, position)
		summary.HoldingsValue = summary.HoldingsValue.Add(marketValue)
	}

	summary.TotalValue = summary.Cash.Add(summary.HoldingsValue)
	return summary, nil
}

// pricesFor resolves a quote for every holding, falling back per symbol when
// the cache misses.
func (s *StockGameService) pricesFor(ctx context.Context, holdings []model.Holding) (map[string]decimal.Decimal, error) {
	symbols := make([]string, 0, len(holdings))
	for _, holding := range holdings {
		symbols = append(symbols, holding.Symbol)
	}

	prices, err := s.cache.GetQuotes(ctx, symbols)
	if err != nil {
		prices = map[string]decimal.Decimal{}
	}

	for _, symbol := range symbols {
		if _, ok := prices[symbol]; ok {
			continue
		}
		price, err := s.currentPrice(ctx, symbol)
		if err != nil {
			return nil, err
		}
		prices[symbol] = price
	}

	return prices, nil
}

// BuyStock executes a buy at the current simulated quote. The ledger snapshot
// is flushed before returning; the history archive and reward grant run in
// the background.
func (s *StockGameService) BuyStock(ctx context.Context, chatID int64, symbol string, shares int) (model.Transaction, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockGameService.BuyStock"

	slog.Debug("BuyStock start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID), slog.String("symbol", symbol), slog.Int("shares", shares))
	defer func() {
		slog.Debug("BuyStock finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	}()

	info, err := s.GetStockInfo(ctx, symbol)
	if err != nil {
		return model.Transaction{}, err
	}

	l, err := s.loadLedger(ctx, chatID)
	if err != nil {
		return model.Transaction{}, err
	}

	tx, err := l.Buy(info.Symbol, shares, info.Price)
	if err != nil {
		return model.Transaction{}, mapLedgerErr(err)
	}

	if err := s.flushLedger(ctx, chatID, l); err != nil {
		slog.Error("can't flush ledger", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Transaction{}, err
	}

	go s.archiveTransaction(context.WithoutCancel(ctx), chatID, tx)
	go s.grantActivity(context.WithoutCancel(ctx), chatID, rewards.ActivityFirstBuy)

	return tx, nil
}

// SellStock executes a sell at the current simulated quote.
func (s *StockGameService) SellStock(ctx context.Context, chatID int64, symbol string, shares int) (model.Transaction, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockGameService.SellStock"

	slog.Debug("SellStock start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID), slog.String("symbol", symbol), slog.Int("shares", shares))
	defer func() {
		slog.Debug("SellStock finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	}()

	info, err := s.GetStockInfo(ctx, symbol)
	if err != nil {
		return model.Transaction{}, err
	}

	l, err := s.loadLedger(ctx, chatID)
	if err != nil {
		return model.Transaction{}, err
	}

	tx, err := l.Sell(info.Symbol, shares, info.Price)
	if err != nil {
		return model.Transaction{}, mapLedgerErr(err)
	}

	if err := s.flushLedger(ctx, chatID, l); err != nil {
		slog.Error("can't flush ledger", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Transaction{}, err
	}

	go s.archiveTransaction(context.WithoutCancel(ctx), chatID, tx)
	go s.grantActivity(context.WithoutCancel(ctx), chatID, rewards.ActivityFirstSell)

	return tx, nil
}

// ResetPortfolio is the explicit "start over" action: starting cash, no
// holdings, empty log.
func (s *StockGameService) ResetPortfolio(ctx context.Context, chatID int64) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockGameService.ResetPortfolio"

	slog.Debug("ResetPortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	defer func() {
		slog.Debug("ResetPortfolio finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	}()

	l, err := s.loadLedger(ctx, chatID)
	if err != nil {
		return err
	}

	l.Reset()
	return s.flushLedger(ctx, chatID, l)
}

// GetHistory returns the most recent archived trades, newest first.
func (s *StockGameService) GetHistory(ctx context.Context, chatID int64, limit int) ([]model.Transaction, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockGameService.GetHistory"

	playerID, err := s.repo.GetPlayerID(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, service.ErrNotFound
		}
		slog.Error("got error from repo.GetPlayerID", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	transactions, err := s.repo.GetTransactions(ctx, playerID, limit)
	if err != nil {
		slog.Error("got error from repo.GetTransactions", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return transactions, nil
}

func (s *StockGameService) archiveTransaction(ctx context.Context, chatID int64, tx model.Transaction) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockGameService.archiveTransaction"

	playerID, err := s.repo.GetPlayerID(ctx, chatID)
	if err != nil {
		slog.Error("got error from repo.GetPlayerID", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return
	}

	if err := s.repo.InsertTransaction(ctx, playerID, tx); err != nil {
		slog.Error("got error from repo.InsertTransaction", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}
}

func mapLedgerErr(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidArgument):
		return service.ErrInvalidArgument
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return service.ErrInsufficientFunds
	case errors.Is(err, ledger.ErrNoSuchHolding):
		return service.ErrNoSuchHolding
	case errors.Is(err, ledger.ErrInsufficientShares):
		return service.ErrInsufficientShares
	default:
		return err
	}
}

// RefreshCatalog pulls a fresh symbol list from the content service; the
// built-in catalog stays in place when the remote is unavailable.
func (s *StockGameService) RefreshCatalog(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockGameService.RefreshCatalog"

	stocks, err := s.catalogApi.GetCatalog(ctx)
	if err != nil {
		if errors.Is(err, externalApi.ErrNotFound) {
			slog.Warn("remote catalog unavailable, keeping current one", slog.String("rqID", rqID), slog.String("op", op))
			return nil
		}
		slog.Error("got error from catalogApi.GetCatalog", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	s.catalog.Replace(stocks)
	slog.Info("catalog refreshed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("symbols", len(stocks)))
	return nil
}

// RefreshPrices is the market ticker job: every catalog symbol's quote takes
// one simulated day step in its derived trend direction.
func (s *StockGameService) RefreshPrices(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockGameService.RefreshPrices"

	slog.Debug("RefreshPrices start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("RefreshPrices finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	quotes := make(map[string]decimal.Decimal)
	for _, symbol := range s.catalog.Symbols() {
		current, err := s.currentPrice(ctx, symbol)
		if err != nil {
			slog.Error("can't resolve current price", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol), slog.String("err", err.Error()))
			return err
		}
		quotes[symbol] = s.market.StepDay(current, market.SymbolTrend(symbol))
	}

	return s.cache.SetQuotes(ctx, quotes)
}

// RotateNews regenerates the news feed, one headline per catalog symbol,
// matching each symbol's trend so news and charts tell the same story.
func (s *StockGameService) RotateNews(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockGameService.RotateNews"

	slog.Debug("RotateNews start", slog.String("rqID", rqID), slog.String("op", op))

	news := make([]model.NewsItem, 0, len(s.catalog.Symbols()))
	for _, symbol := range s.catalog.Symbols() {
		news = append(news, s.market.Headline(symbol, market.SymbolTrend(symbol)))
	}

	return s.cache.SetNews(ctx, news)
}

// GetNews serves the cached feed, generating one on a cold cache.
func (s *StockGameService) GetNews(ctx context.Context) ([]model.NewsItem, error) {
	news, err := s.cache.GetNews(ctx)
	if err == nil {
		return news, nil
	}

	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Warn("can't get news from cache, regenerating", slog.String("rqID", rqID), slog.String("err", err.Error()))

	if err := s.RotateNews(ctx); err != nil {
		return nil, err
	}
	return s.cache.GetNews(ctx)
}
