package mongo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"hiqsync/internal/fetch"
	"hiqsync/internal/model"
	"hiqsync/internal/retry"
)

// detailSyncer covers stock_industry_detail/stock_concept_detail: for each
// parent (code, name) — read from the parent collection, falling back to a
// live fetch if the parent collection is empty — fetch that parent's
// membership list, diff against the persisted stock_code set for that
// parent, and emit only new memberships. Ported from
// stock_concept_detail.rs (stock_industry_detail.rs is the same shape).
type detailSyncer struct {
	name           string
	collection     string
	parentCollection string
	db             *mongodriver.Database
	fetch          fetch.Fetcher
	fetchParents   func(ctx context.Context) ([]codeRef, error)
	fetchDetail    func(ctx context.Context, code, name string) ([]model.StockIndustryDetail, error)
	wrap           func([]model.StockIndustryDetail) model.SyncData
	unwrap         func(model.SyncData) []model.StockIndustryDetail
	log            zerolog.Logger
}

func (s *detailSyncer) Name() string { return s.name }

func (s *detailSyncer) Fetch(ctx context.Context, tx chan<- model.SyncData) error {
	parents, err := codeRefsFromParentCollection(ctx, s.db, s.parentCollection)
	if err != nil {
		return fmt.Errorf("%s: list parent collection: %w", s.name, err)
	}
	if len(parents) == 0 {
		parents, err = s.fetchParents(ctx)
		if err != nil {
			return fmt.Errorf("%s: live parent fetch: %w", s.name, err)
		}
	}

	for _, p := range parents {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		v, err := retry.Do(ctx, func() (any, error) {
			return s.fetchDetail(ctx, p.Code, p.Name)
		})
		if err != nil {
			return fmt.Errorf("%s: fetch detail for %s: %w", s.name, p.Code, err)
		}
		fetched, _ := v.([]model.StockIndustryDetail)
		if len(fetched) == 0 {
			continue
		}

		existing, err := existingCodes(ctx, s.db, s.collection, bson.D{{Key: "code", Value: p.Code}}, "stock_code")
		if err != nil {
			return fmt.Errorf("%s: existing members of %s: %w", s.name, p.Code, err)
		}

		fresh := make([]model.StockIndustryDetail, 0, len(fetched))
		for _, row := range fetched {
			if _, ok := existing[row.StockCode]; !ok {
				fresh = append(fresh, row)
			}
		}
		if len(fresh) == 0 {
			continue
		}

		select {
		case tx <- s.wrap(fresh):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (s *detailSyncer) Save(ctx context.Context, data model.SyncData) error {
	rows := s.unwrap(data)
	if len(rows) == 0 {
		return nil
	}
	s.log.Info().Str("parent", rows[0].Code).Int("size", len(rows)).Msg("saving detail membership")
	return insertMany(ctx, s.db, s.collection, rows, false)
}

func newStockIndustryDetailSyncer(db *mongodriver.Database, f fetch.Fetcher, log zerolog.Logger) *detailSyncer {
	return &detailSyncer{
		name: "stock_industry_detail", collection: TabStockIndustryDetail, parentCollection: TabStockIndustry,
		db: db, fetch: f, log: log,
		fetchParents: func(ctx context.Context) ([]codeRef, error) {
			rows, err := f.FetchStockIndustry(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]codeRef, len(rows))
			for i, r := range rows {
				out[i] = codeRef{Code: r.Code, Name: r.Name}
			}
			return out, nil
		},
		fetchDetail: func(ctx context.Context, code, name string) ([]model.StockIndustryDetail, error) {
			return f.FetchStockIndustryDetail(ctx, code, name)
		},
		wrap:   func(rows []model.StockIndustryDetail) model.SyncData { return model.StockIndustryDetailData{Rows: rows} },
		unwrap: func(d model.SyncData) []model.StockIndustryDetail {
			if v, ok := d.(model.StockIndustryDetailData); ok {
				return v.Rows
			}
			return nil
		},
	}
}

func newStockConceptDetailSyncer(db *mongodriver.Database, f fetch.Fetcher, log zerolog.Logger) *detailSyncer {
	return &detailSyncer{
		name: "stock_concept_detail", collection: TabStockConceptDetail, parentCollection: TabStockConcept,
		db: db, fetch: f, log: log,
		fetchParents: func(ctx context.Context) ([]codeRef, error) {
			rows, err := f.FetchStockConcept(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]codeRef, len(rows))
			for i, r := range rows {
				out[i] = codeRef{Code: r.Code, Name: r.Name}
			}
			return out, nil
		},
		fetchDetail: func(ctx context.Context, code, name string) ([]model.StockIndustryDetail, error) {
			rows, err := f.FetchStockConceptDetail(ctx, code, name)
			if err != nil {
				return nil, err
			}
			out := make([]model.StockIndustryDetail, len(rows))
			for i, r := range rows {
				out[i] = model.StockIndustryDetail{Code: r.Code, Name: r.Name, StockCode: r.StockCode, StockName: r.StockName}
			}
			return out, nil
		},
		wrap: func(rows []model.StockIndustryDetail) model.SyncData {
			out := make([]model.StockConceptDetail, len(rows))
			for i, r := range rows {
				out[i] = model.StockConceptDetail{Code: r.Code, Name: r.Name, StockCode: r.StockCode, StockName: r.StockName}
			}
			return model.StockConceptDetailData{Rows: out}
		},
		unwrap: func(d model.SyncData) []model.StockIndustryDetail {
			v, ok := d.(model.StockConceptDetailData)
			if !ok {
				return nil
			}
			out := make([]model.StockIndustryDetail, len(v.Rows))
			for i, r := range v.Rows {
				out[i] = model.StockIndustryDetail{Code: r.Code, Name: r.Name, StockCode: r.StockCode, StockName: r.StockName}
			}
			return out
		},
	}
}
