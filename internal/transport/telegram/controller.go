package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/config"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/data/session"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/converter/telebotConverter"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/service"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/utils"
	tele "gopkg.in/telebot.v4"
)

const internalErrMsg = "Oops, something went wrong... try again!"

type StockGameService interface {
	RegisterPlayer(ctx context.Context, chatID int64, nickname string) error
	GetCatalog(ctx context.Context) []model.CatalogStock
	GetStockInfo(ctx context.Context, symbol string) (model.StockInfo, error)
	GetChart(ctx context.Context, symbol string, days int) ([]model.PricePoint, error)
	GetPortfolio(ctx context.Context, chatID int64) (model.PortfolioSummary, error)
	BuyStock(ctx context.Context, chatID int64, symbol string, shares int) (model.Transaction, error)
	SellStock(ctx context.Context, chatID int64, symbol string, shares int) (model.Transaction, error)
	ResetPortfolio(ctx context.Context, chatID int64) error
	GetHistory(ctx context.Context, chatID int64, limit int) ([]model.Transaction, error)
	GetNews(ctx context.Context) ([]model.NewsItem, error)
	GetProgress(ctx context.Context, chatID int64) (model.Progress, error)
	StartTradingGame(ctx context.Context, chatID int64) (model.GameSession, error)
	AdvanceGameDay(ctx context.Context, chatID int64) (model.GameSession, error)
	GameBuy(ctx context.Context, chatID int64) (model.GameSession, error)
	GameSell(ctx context.Context, chatID int64) (model.GameSession, error)
	GenerateReport(ctx context.Context, chatID int64, nickname string) (downloadLink string, err error)
}

type Session interface {
	GetSession(ctx context.Context, key string) (model.Session, error)
	SetSession(ctx context.Context, key string, chatSession model.Session) error
}

type Controller struct {
	cfg     *config.Config
	game    StockGameService
	session Session
}

func NewController(cfg *config.Config, game StockGameService, session Session) *Controller {
	return &Controller{
		cfg:     cfg,
		game:    game,
		session: session,
	}
}

func nicknameOf(c tele.Context) string {
	if c.Sender() != nil && c.Sender().FirstName != "" {
		return c.Sender().FirstName
	}
	return "Explorer"
}

func (ctrl *Controller) Start(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	err := ctrl.game.RegisterPlayer(ctx, c.Chat().ID, nicknameOf(c))
	if err != nil {
		slog.Error("got error from game.RegisterPlayer", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	return c.Send("🌟 Welcome to Kiddie Stock Adventures, " + nicknameOf(c) + "!\n" +
		"You start with 1000 play-coins. Check the /shop, watch the /news and build your /portfolio.\n" +
		"Feeling brave? Try the trading /game!")
}

func (ctrl *Controller) Shop(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	return c.Send(telebotConverter.CatalogResponse(ctrl.game.GetCatalog(ctx)))
}

func (ctrl *Controller) Portfolio(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	summary, err := ctrl.game.GetPortfolio(ctx, c.Chat().ID)
	if err != nil {
		slog.Error("got error from game.GetPortfolio", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	return c.Send(telebotConverter.PortfolioResponse(summary))
}

// Chart answers /chart <SYMBOL> with a sparkline of the simulated series.
func (ctrl *Controller) Chart(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	symbol := strings.ToUpper(strings.TrimSpace(c.Message().Payload))
	if symbol == "" {
		return c.Send("Which stock? Try: /chart FRUT")
	}

	points, err := ctrl.game.GetChart(ctx, symbol, ctrl.cfg.Game.ChartDays)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Send("I don't know that stock — check the /shop.")
		}
		return c.Send(internalErrMsg)
	}

	return c.Send(telebotConverter.ChartResponse(symbol, points))
}

func (ctrl *Controller) InitBuy(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	chatSession, _ := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	chatSession.State = model.ExpectingBuyTicker
	if err := ctrl.setSession(ctx, c, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}

	return c.Send("Which stock do you want to buy? Send its symbol (like FRUT).")
}

func (ctrl *Controller) ProcessBuyTicker(c tele.Context) error {
	return ctrl.processTicker(c, model.ExpectingBuyQuantity, "How many shares do you want to buy?")
}

func (ctrl *Controller) InitSell(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	chatSession, _ := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	chatSession.State = model.ExpectingSellTicker
	if err := ctrl.setSession(ctx, c, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}

	return c.Send("Which stock do you want to sell? Send its symbol.")
}

func (ctrl *Controller) ProcessSellTicker(c tele.Context) error {
	return ctrl.processTicker(c, model.ExpectingSellQuantity, "How many shares do you want to sell?")
}

// processTicker validates the symbol against the catalog, shows the stock card
// and moves the dialog to the quantity step.
func (ctrl *Controller) processTicker(c tele.Context, nextState model.Action, prompt string) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	symbol := strings.ToUpper(strings.TrimSpace(c.Message().Text))
	info, err := ctrl.game.GetStockInfo(ctx, symbol)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Send("I don't know that stock — pick one from the /shop and send its symbol.")
		}
		slog.Error("got error from game.GetStockInfo", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	chatSession.State = nextState
	chatSession.StockSymbol = symbol
	if err := ctrl.setSession(ctx, c, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}

	if err := c.Send(telebotConverter.StockInfoResponse(info)); err != nil {
		return err
	}
	return c.Send(prompt)
}

func (ctrl *Controller) ProcessBuyQuantity(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	shares, err := strconv.Atoi(strings.TrimSpace(c.Message().Text))
	if err != nil || shares <= 0 {
		return c.Send("That doesn't look like a number of shares — try again (like 3).")
	}

	defer func() {
		chatSession.State = model.DefaultState
		chatSession.StockSymbol = ""
		_ = ctrl.setSession(ctx, c, chatSession)
	}()

	tx, err := ctrl.game.BuyStock(ctx, c.Chat().ID, chatSession.StockSymbol, shares)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientFunds) {
			return c.Send("Not enough cash for that many shares! Check your /portfolio.")
		}
		slog.Error("got error from game.BuyStock", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	return c.Send(telebotConverter.TransactionResponse(tx))
}

func (ctrl *Controller) ProcessSellQuantity(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	shares, err := strconv.Atoi(strings.TrimSpace(c.Message().Text))
	if err != nil || shares <= 0 {
		return c.Send("That doesn't look like a number of shares — try again (like 3).")
	}

	defer func() {
		chatSession.State = model.DefaultState
		chatSession.StockSymbol = ""
		_ = ctrl.setSession(ctx, c, chatSession)
	}()

	tx, err := ctrl.game.SellStock(ctx, c.Chat().ID, chatSession.StockSymbol, shares)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoSuchHolding):
			return c.Send("You don't own that stock yet!")
		case errors.Is(err, service.ErrInsufficientShares):
			return c.Send("You don't have that many shares — check your /portfolio.")
		}
		slog.Error("got error from game.SellStock", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	return c.Send(telebotConverter.TransactionResponse(tx))
}

func (ctrl *Controller) History(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	transactions, err := ctrl.game.GetHistory(ctx, c.Chat().ID, ctrl.cfg.Game.HistoryLimit)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Send("Press /start first so I know who you are!")
		}
		slog.Error("got error from game.GetHistory", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	return c.Send(telebotConverter.HistoryResponse(transactions))
}

func (ctrl *Controller) News(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	news, err := ctrl.game.GetNews(ctx)
	if err != nil {
		slog.Error("got error from game.GetNews", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	return c.Send(telebotConverter.NewsResponse(news))
}

func (ctrl *Controller) Profile(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	progress, err := ctrl.game.GetProgress(ctx, c.Chat().ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Send("Press /start first so I know who you are!")
		}
		slog.Error("got error from game.GetProgress", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	return c.Send(telebotConverter.ProgressResponse(progress))
}

func (ctrl *Controller) Game(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	game, err := ctrl.game.StartTradingGame(ctx, c.Chat().ID)
	if err != nil {
		slog.Error("got error from game.StartTradingGame", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	chatSession, _ := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	chatSession.State = model.InTradingGame
	if err := ctrl.setSession(ctx, c, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}

	return c.Send(telebotConverter.GameResponse(game))
}

// ProcessGameCommand handles the in-game vocabulary: buy, sell, next.
func (ctrl *Controller) ProcessGameCommand(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	var (
		game model.GameSession
		err  error
	)

	switch strings.ToLower(strings.TrimSpace(c.Message().Text)) {
	case "buy":
		game, err = ctrl.game.GameBuy(ctx, c.Chat().ID)
	case "sell":
		game, err = ctrl.game.GameSell(ctx, c.Chat().ID)
	case "next":
		game, err = ctrl.game.AdvanceGameDay(ctx, c.Chat().ID)
	default:
		return c.Send("In the game you can send: buy, sell or next.")
	}

	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveGame), errors.Is(err, service.ErrGameFinished):
			return ctrl.leaveGame(ctx, c, "The game is over — send /game to play again!")
		case errors.Is(err, service.ErrInsufficientFunds):
			return c.Send("Not enough game cash to buy a single share — send next or sell.")
		case errors.Is(err, service.ErrNoSuchHolding):
			return c.Send("Nothing to sell yet — buy first!")
		}
		slog.Error("got error from trading game", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	if game.Finished {
		return ctrl.leaveGame(ctx, c, telebotConverter.GameResponse(game))
	}

	return c.Send(telebotConverter.GameResponse(game))
}

func (ctrl *Controller) leaveGame(ctx context.Context, c tele.Context, msg string) error {
	chatSession, _ := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	chatSession.State = model.DefaultState
	_ = ctrl.setSession(ctx, c, chatSession)
	return c.Send(msg)
}

func (ctrl *Controller) Report(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	link, err := ctrl.game.GenerateReport(ctx, c.Chat().ID, nicknameOf(c))
	if err != nil {
		slog.Error("got error from game.GenerateReport", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	return c.Send("📊 Here's the report for your grown-ups: " + link)
}

func (ctrl *Controller) Reset(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	if err := ctrl.game.ResetPortfolio(ctx, c.Chat().ID); err != nil {
		slog.Error("got error from game.ResetPortfolio", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	return c.Send("🔄 Fresh start! Your cash is back to the beginning and your shelf is empty.")
}

func (ctrl *Controller) getSessionFromTeleCtxOrStorage(ctx context.Context, c tele.Context) (model.Session, error) {
	chatSession, ok := c.Get("session").(model.Session)
	if ok {
		return chatSession, nil
	}

	rqID := utils.GetRequestIDFromCtx(ctx)
	chatSession, err := ctrl.session.GetSession(ctx, strconv.FormatInt(c.Chat().ID, 10))
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
			return model.Session{}, err
		}
		return model.Session{}, nil
	}
	return chatSession, nil
}

func (ctrl *Controller) setSession(ctx context.Context, c tele.Context, chatSession model.Session) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	err := ctrl.session.SetSession(ctx, strconv.FormatInt(c.Chat().ID, 10), chatSession)
	if err != nil {
		slog.Error("got error from session.SetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
	}
	return err
}
