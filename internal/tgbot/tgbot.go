package tgbot

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/config"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/data/session"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/transport/telegram"
	customMW "github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/transport/telegram/middleware"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/utils"
	tele "gopkg.in/telebot.v4"
	"gopkg.in/telebot.v4/middleware"
)

type Session interface {
	GetSession(ctx context.Context, key string) (model.Session, error)
	SetSession(ctx context.Context, key string, chatSession model.Session) error
}

type TGBot struct {
	bot     *tele.Bot
	ctrl    *telegram.Controller
	session Session
}

func New(cfg *config.Config, ctrl *telegram.Controller, session Session) *TGBot {
	settings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &tele.LongPoller{Timeout: cfg.Telegram.UpdTimeout},
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		slog.Error("error while tele.NewBot", slog.String("err", err.Error()))
		panic(err)
	}

	return &TGBot{bot: b, ctrl: ctrl, session: session}
}

func (b *TGBot) Start() {
	b.bot.Use(middleware.Recover(), customMW.Logger())

	b.setupRoutes()

	go b.bot.Start()
	slog.Info("tgbot started!")
}

func (b *TGBot) Stop() {
	slog.Info("start stopping tgbot")
	b.bot.Stop()
	slog.Info("tgbot stopped")
}

func (b *TGBot) setupRoutes() {
	b.bot.Handle(tele.OnText, func(c tele.Context) error {
		// pick a controller method based on the chat's dialog state
		ctx := utils.CreateCtxWithRqID(c)
		rqID := utils.GetRequestIDFromCtx(ctx)
		chatSession, err := b.session.GetSession(ctx, strconv.FormatInt(c.Chat().ID, 10))
		if err != nil && !errors.Is(err, session.ErrNotFound) {
			slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
			return c.Send("Oops, something went wrong... try again!")
		}

		c.Set("session", chatSession)

		switch chatSession.State {
		case model.ExpectingBuyTicker:
			return b.ctrl.ProcessBuyTicker(c)
		case model.ExpectingBuyQuantity:
			return b.ctrl.ProcessBuyQuantity(c)
		case model.ExpectingSellTicker:
			return b.ctrl.ProcessSellTicker(c)
		case model.ExpectingSellQuantity:
			return b.ctrl.ProcessSellQuantity(c)
		case model.InTradingGame:
			return b.ctrl.ProcessGameCommand(c)
		default:
			return c.Send("Send one of the commands first, like /shop or /portfolio.")
		}
	})

	b.bot.Handle("/start", b.ctrl.Start)
	b.bot.Handle("/shop", b.ctrl.Shop)
	b.bot.Handle("/portfolio", b.ctrl.Portfolio)
	b.bot.Handle("/chart", b.ctrl.Chart)
	b.bot.Handle("/buy", b.ctrl.InitBuy)
	b.bot.Handle("/sell", b.ctrl.InitSell)
	b.bot.Handle("/history", b.ctrl.History)
	b.bot.Handle("/news", b.ctrl.News)
	b.bot.Handle("/profile", b.ctrl.Profile)
	b.bot.Handle("/game", b.ctrl.Game)
	b.bot.Handle("/report", b.ctrl.Report)
	b.bot.Handle("/reset", b.ctrl.Reset)
}
