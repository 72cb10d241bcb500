package catalogApi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/config"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/externalApi"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/model"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/utils"
	"github.com/go-resty/resty/v2"
)

// CatalogApi fetches the curated symbol catalog (display metadata only) from
// the content service. Prices never come from here.
type CatalogApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *CatalogApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.CatalogApi.Url)
	return &CatalogApi{client: client}
}

type rawCatalog struct {
	Stocks []model.CatalogStock `json:"stocks"`
}

func (a *CatalogApi) GetCatalog(ctx context.Context) ([]model.CatalogStock, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	url := "/v1/catalog/stocks.json"

	slog.Debug("start CatalogApi.GetCatalog request", slog.String("rqID", rqID))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(url)

	if err != nil {
		slog.Error("error while dialing CatalogApi", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return nil, err
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, externalApi.ErrNotFound
	}

	raw := rawCatalog{}
	err = json.Unmarshal(resp.Body(), &raw)
	if err != nil {
		slog.Error("can't unmarshall response into rawCatalog", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return nil, err
	}

	if len(raw.Stocks) == 0 {
		return nil, externalApi.ErrNotFound
	}

	slog.Debug("CatalogApi.GetCatalog request complete", slog.String("rqID", rqID))

	return raw.Stocks, nil
}
