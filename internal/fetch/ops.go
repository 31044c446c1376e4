package fetch

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"hiqsync/internal/model"
)

func (f *httpFetcher) FetchStockBar(ctx context.Context, code, name string, freq model.BarFreq, start, end *time.Time, skipRT bool) ([]model.Bar, error) {
	return f.fetchBar(ctx, code, name, freq, start, end, skipRT)
}

func (f *httpFetcher) FetchIndexBar(ctx context.Context, code, name string, freq model.BarFreq, start, end *time.Time, skipRT bool) ([]model.Bar, error) {
	return f.fetchBar(ctx, code, name, freq, start, end, skipRT)
}

func (f *httpFetcher) FetchStockIndustryBar(ctx context.Context, code, name string, start, end *time.Time, skipRT bool) ([]model.Bar, error) {
	return f.fetchBar(ctx, code, name, model.FreqDaily, start, end, skipRT)
}

func (f *httpFetcher) FetchStockConceptBar(ctx context.Context, code, name string, start, end *time.Time, skipRT bool) ([]model.Bar, error) {
	return f.fetchBar(ctx, code, name, model.FreqDaily, start, end, skipRT)
}

func (f *httpFetcher) FetchFundBar(ctx context.Context, code, name string, start, end *time.Time, skipRT bool) ([]model.Bar, error) {
	return f.fetchBar(ctx, code, name, model.FreqDaily, start, end, skipRT)
}

func (f *httpFetcher) FetchBondBar(ctx context.Context, code, name string, start, end *time.Time, skipRT bool) ([]model.Bar, error) {
	return f.fetchBar(ctx, code, name, model.FreqDaily, start, end, skipRT)
}

func (f *httpFetcher) FetchTradeDate(ctx context.Context) ([]int, error) {
	var resp struct {
		Dates []int `json:"dates"`
	}
	if err := f.getJSON(ctx, "/api/qt/calendar/get", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Dates, nil
}

func (f *httpFetcher) FetchStockInfo(ctx context.Context) ([]model.StockInfo, error) {
	var resp struct {
		Data []model.StockInfo `json:"data"`
	}
	if err := f.getJSON(ctx, "/api/qt/clist/stock", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (f *httpFetcher) FetchIndexInfo(ctx context.Context) ([]model.StockInfo, error) {
	var resp struct {
		Data []model.StockInfo `json:"data"`
	}
	if err := f.getJSON(ctx, "/api/qt/clist/index", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (f *httpFetcher) FetchStockIndex(ctx context.Context, date *time.Time) (map[string]model.StockIndex, error) {
	q := url.Values{}
	if date != nil {
		q.Set("date", date.Format("20060102"))
	}
	var resp struct {
		Data []model.StockIndex `json:"data"`
	}
	if err := f.getJSON(ctx, "/api/qt/clist/stockindex", q, &resp); err != nil {
		return nil, err
	}
	out := make(map[string]model.StockIndex, len(resp.Data))
	for _, row := range resp.Data {
		out[row.Code] = row
	}
	return out, nil
}

func (f *httpFetcher) FetchStockIndustry(ctx context.Context) ([]model.StockIndustry, error) {
	var resp struct {
		Data []model.StockIndustry `json:"data"`
	}
	if err := f.getJSON(ctx, "/api/qt/clist/industry", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (f *httpFetcher) FetchStockIndustryDetail(ctx context.Context, code, name string) ([]model.StockIndustryDetail, error) {
	q := url.Values{}
	q.Set("code", code)
	var resp struct {
		Data []model.StockIndustryDetail `json:"data"`
	}
	if err := f.getJSON(ctx, "/api/qt/clist/industry/detail", q, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (f *httpFetcher) FetchStockConcept(ctx context.Context) ([]model.StockConcept, error) {
	var resp struct {
		Data []model.StockConcept `json:"data"`
	}
	if err := f.getJSON(ctx, "/api/qt/clist/concept", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (f *httpFetcher) FetchStockConceptDetail(ctx context.Context, code, name string) ([]model.StockConceptDetail, error) {
	q := url.Values{}
	q.Set("code", code)
	var resp struct {
		Data []model.StockConceptDetail `json:"data"`
	}
	if err := f.getJSON(ctx, "/api/qt/clist/concept/detail", q, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (f *httpFetcher) FetchStockYJBB(ctx context.Context, year, season int) ([]model.StockYJBB, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))
	q.Set("season", strconv.Itoa(season))
	var resp struct {
		Data []model.StockYJBB `json:"data"`
	}
	if err := f.getJSON(ctx, "/api/qt/clist/yjbb", q, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (f *httpFetcher) FetchStockMargin(ctx context.Context, code string, start, end *time.Time) ([]model.StockMargin, error) {
	q := url.Values{}
	q.Set("code", code)
	if start != nil {
		q.Set("beg", start.Format("20060102"))
	}
	if end != nil {
		q.Set("end", end.Format("20060102"))
	}
	var resp struct {
		Data []model.StockMargin `json:"data"`
	}
	if err := f.getJSON(ctx, "/api/qt/clist/margin", q, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (f *httpFetcher) FetchFundInfo(ctx context.Context) ([]model.FundInfo, error) {
	var resp struct {
		Data []model.FundInfo `json:"data"`
	}
	if err := f.getJSON(ctx, "/api/qt/clist/fund", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (f *httpFetcher) FetchFundNet(ctx context.Context, code, name string, start, end *time.Time) ([]model.FundNet, error) {
	q := url.Values{}
	q.Set("code", code)
	if start != nil {
		q.Set("beg", start.Format("20060102"))
	}
	if end != nil {
		q.Set("end", end.Format("20060102"))
	}
	var resp struct {
		Data []model.FundNet `json:"data"`
	}
	if err := f.getJSON(ctx, "/api/qt/clist/fundnet", q, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (f *httpFetcher) FetchBondInfo(ctx context.Context) ([]model.BondInfo, error) {
	var resp struct {
		Data []model.BondInfo `json:"data"`
	}
	if err := f.getJSON(ctx, "/api/qt/clist/bond", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
