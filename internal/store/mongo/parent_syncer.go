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

// parentListSyncer covers stock_industry/stock_concept: fetch the full
// grouping list live, diff against the persisted code set, append only new
// groups. Ported from stock_concept.rs (stock_industry.rs is the same
// shape).
type parentListSyncer struct {
	name       string
	collection string
	fetchList  func(ctx context.Context) ([]codeRef, error)
	wrap       func([]codeRef) model.SyncData
	unwrap     func(model.SyncData) []codeRef
	db         *mongodriver.Database
	log        zerolog.Logger
}

func (s *parentListSyncer) Name() string { return s.name }

func (s *parentListSyncer) Fetch(ctx context.Context, tx chan<- model.SyncData) error {
	v, err := retry.Do(ctx, func() (any, error) {
		return s.fetchList(ctx)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	fetched, _ := v.([]codeRef)
	if len(fetched) == 0 {
		return nil
	}

	existing, err := existingCodes(ctx, s.db, s.collection, bson.D{}, "code")
	if err != nil {
		return fmt.Errorf("%s: existing codes: %w", s.name, err)
	}

	fresh := make([]codeRef, 0, len(fetched))
	for _, row := range fetched {
		if _, ok := existing[row.Code]; !ok {
			fresh = append(fresh, row)
		}
	}
	if len(fresh) == 0 {
		return nil
	}

	select {
	case tx <- s.wrap(fresh):
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (s *parentListSyncer) Save(ctx context.Context, data model.SyncData) error {
	rows := s.unwrap(data)
	if len(rows) == 0 {
		return nil
	}
	s.log.Info().Int("size", len(rows)).Msg("saving " + s.name)
	return insertMany(ctx, s.db, s.collection, rows, false)
}

func newStockIndustrySyncer(db *mongodriver.Database, f fetch.Fetcher, log zerolog.Logger) *parentListSyncer {
	return &parentListSyncer{
		name: "stock_industry", collection: TabStockIndustry, db: db, log: log,
		fetchList: func(ctx context.Context) ([]codeRef, error) {
			rows, err := f.FetchStockIndustry(ctx)
			if err != nil {
				return nil, err
			}
			return codeRefsFromIndustry(rows), nil
		},
		wrap: func(rows []codeRef) model.SyncData {
			out := make([]model.StockIndustry, len(rows))
			for i, r := range rows {
				out[i] = model.StockIndustry{Code: r.Code, Name: r.Name}
			}
			return model.StockIndustryData{Rows: out}
		},
		unwrap: func(d model.SyncData) []codeRef {
			v, ok := d.(model.StockIndustryData)
			if !ok {
				return nil
			}
			return codeRefsFromIndustry(v.Rows)
		},
	}
}

func newStockConceptSyncer(db *mongodriver.Database, f fetch.Fetcher, log zerolog.Logger) *parentListSyncer {
	return &parentListSyncer{
		name: "stock_concept", collection: TabStockConcept, db: db, log: log,
		fetchList: func(ctx context.Context) ([]codeRef, error) {
			rows, err := f.FetchStockConcept(ctx)
			if err != nil {
				return nil, err
			}
			return codeRefsFromConcept(rows), nil
		},
		wrap: func(rows []codeRef) model.SyncData {
			out := make([]model.StockConcept, len(rows))
			for i, r := range rows {
				out[i] = model.StockConcept{Code: r.Code, Name: r.Name}
			}
			return model.StockConceptData{Rows: out}
		},
		unwrap: func(d model.SyncData) []codeRef {
			v, ok := d.(model.StockConceptData)
			if !ok {
				return nil
			}
			return codeRefsFromConcept(v.Rows)
		},
	}
}

func codeRefsFromIndustry(rows []model.StockIndustry) []codeRef {
	out := make([]codeRef, len(rows))
	for i, r := range rows {
		out[i] = codeRef{Code: r.Code, Name: r.Name}
	}
	return out
}

func codeRefsFromConcept(rows []model.StockConcept) []codeRef {
	out := make([]codeRef, len(rows))
	for i, r := range rows {
		out[i] = codeRef{Code: r.Code, Name: r.Name}
	}
	return out
}
