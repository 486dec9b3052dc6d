// Package model_selection はDBSCANのパラメータスイープを提供する
package model_selection

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/YuminosukeSato/dbscango/core/parallel"
	"github.com/YuminosukeSato/dbscango/metrics"
	"github.com/YuminosukeSato/dbscango/pkg/errors"
	"github.com/YuminosukeSato/dbscango/pkg/log"
	"github.com/YuminosukeSato/dbscango/sklearn/cluster"
)

// 既定のグリッド
var (
	DefaultMinPointsGrid = []int{2, 3, 4, 5}
	DefaultEpsilonGrid   = []float64{0.08, 0.12, 0.16, 0.20}
)

// CellResult はグリッド1セル分の実行結果
type CellResult struct {
	Row, Col  int
	MinPoints int
	Eps       float64

	Score     float64
	NClusters int
	NNoise    int
	Labels    []cluster.Label
	Err       error // 失敗したセルのみ
}

// DBSCANSweep runs the engine and the silhouette evaluator for every
// (minPts, eps) pair of a grid over one dataset.
type DBSCANSweep struct {
	ds *cluster.Dataset

	minPts    []int
	eps       []float64
	algorithm string
	query     cluster.NeighborQuery
	workers   int
	sentinel  string
	observer  func(CellResult)

	logger log.Logger
	id     string
}

// SweepOption はDBSCANSweepの設定オプション
type SweepOption func(*DBSCANSweep)

// WithMinPointsGrid は minPts のグリッドを設定
func WithMinPointsGrid(values []int) SweepOption {
	return func(s *DBSCANSweep) {
		s.minPts = append([]int(nil), values...)
	}
}

// WithEpsilonGrid は eps のグリッドを設定
func WithEpsilonGrid(values []float64) SweepOption {
	return func(s *DBSCANSweep) {
		s.eps = append([]float64(nil), values...)
	}
}

// WithAlgorithm は近傍探索アルゴリズムを設定
func WithAlgorithm(algorithm string) SweepOption {
	return func(s *DBSCANSweep) {
		s.algorithm = algorithm
	}
}

// WithNeighborQuery は近傍探索を直接指定する。WithAlgorithm より優先
func WithNeighborQuery(q cluster.NeighborQuery) SweepOption {
	return func(s *DBSCANSweep) {
		s.query = q
	}
}

// WithWorkers はセルを並列実行するワーカー数を設定（1以下は逐次）
func WithWorkers(n int) SweepOption {
	return func(s *DBSCANSweep) {
		s.workers = n
	}
}

// WithSentinel は失敗セルと表の左上に入る文字列を設定
func WithSentinel(sentinel string) SweepOption {
	return func(s *DBSCANSweep) {
		s.sentinel = sentinel
	}
}

// WithLogger sets the sweep logger.
func WithLogger(logger log.Logger) SweepOption {
	return func(s *DBSCANSweep) {
		s.logger = logger
	}
}

// WithObserver registers a callback invoked once per finished cell, failed
// cells included. Calls are serialized even when cells run in parallel.
func WithObserver(fn func(CellResult)) SweepOption {
	return func(s *DBSCANSweep) {
		s.observer = fn
	}
}

// NewDBSCANSweep は新しいスイープを作成
func NewDBSCANSweep(ds *cluster.Dataset, options ...SweepOption) *DBSCANSweep {
	s := &DBSCANSweep{
		ds:        ds,
		minPts:    append([]int(nil), DefaultMinPointsGrid...),
		eps:       append([]float64(nil), DefaultEpsilonGrid...),
		algorithm: cluster.AlgorithmBrute,
		workers:   1,
		sentinel:  DefaultSentinel,
		id:        uuid.NewString(),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.GetLoggerWithName("model_selection.sweep")
	}
	s.logger = s.logger.With(log.EstimatorIDKey, s.id)
	return s
}

// ID はログ出力に使うスイープのUUID
func (s *DBSCANSweep) ID() string { return s.id }

// Run は全セルを実行して表を返す
//
// セル単位の失敗（不正なパラメータやパニック）は表に sentinel として記録され、
// スイープは継続する。ctx がキャンセルされると新しいセルは開始されず ctx.Err() を返す。
func (s *DBSCANSweep) Run(ctx context.Context) (*Table, error) {
	if s.ds == nil {
		return nil, errors.NewValueError("DBSCANSweep.Run", "dataset must not be nil")
	}
	query := s.query
	if query == nil {
		q, err := cluster.NewNeighborQuery(s.algorithm, s.ds)
		if err != nil {
			return nil, err
		}
		query = q
	}

	start := time.Now()
	cols := len(s.eps)
	cells := len(s.minPts) * cols
	table := NewTable(s.minPts, s.eps, s.sentinel)
	coords := s.ds.Coords()

	s.logger.Info("sweep started",
		log.OperationKey, log.OperationSweep,
		log.SamplesKey, s.ds.Len(),
		log.CellsKey, cells,
		log.WorkersKey, s.workers,
	)

	var mu sync.Mutex
	record := func(r CellResult) {
		mu.Lock()
		defer mu.Unlock()
		if r.Err == nil {
			table.Set(r.Row, r.Col, r.Score)
		}
		if s.observer != nil {
			s.observer(r)
		}
	}

	var err error
	if s.workers <= 1 {
		// 逐次実行では1つのEngineをセルごとにリセットして使い回す
		engine := cluster.NewEngine(s.ds, query, cluster.WithEngineLogger(s.logger))
		for idx := 0; idx < cells; idx++ {
			if err = ctx.Err(); err != nil {
				break
			}
			engine.Reset()
			record(s.runCell(engine, coords, idx/cols, idx%cols))
		}
	} else {
		err = parallel.ForEach(ctx, cells, s.workers, func(idx int) {
			engine := cluster.NewEngine(s.ds, query, cluster.WithEngineLogger(s.logger))
			record(s.runCell(engine, coords, idx/cols, idx%cols))
		})
	}
	if err != nil {
		s.logger.Warn("sweep cancelled", err, log.OperationKey, log.OperationSweep)
		return nil, errors.Wrap(err, "sweep cancelled")
	}

	minPts, eps, best, found := table.Best()
	fields := []any{
		log.OperationKey, log.OperationSweep,
		log.CellsKey, cells,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	}
	if found {
		fields = append(fields,
			log.MinPointsKey, minPts,
			log.EpsilonKey, eps,
			log.SilhouetteKey, best,
		)
	}
	s.logger.Info("sweep completed", fields...)
	return table, nil
}

func (s *DBSCANSweep) runCell(engine *cluster.Engine, coords [][]float64, row, col int) CellResult {
	r := CellResult{Row: row, Col: col, MinPoints: s.minPts[row], Eps: s.eps[col]}

	r.Err = errors.SafeExecute("sweep cell", func() error {
		res, err := engine.Run(r.Eps, r.MinPoints)
		if err != nil {
			return err
		}
		score, err := metrics.SilhouetteScore(coords, res.Labels)
		if err != nil {
			return err
		}
		r.Score = score
		r.NClusters = res.NClusters
		r.NNoise = res.NNoise
		r.Labels = res.Labels
		return nil
	})

	cell := row*len(s.eps) + col
	if r.Err != nil {
		s.logger.Error("sweep cell failed", r.Err,
			log.CellKey, cell,
			log.MinPointsKey, r.MinPoints,
			log.EpsilonKey, r.Eps,
		)
		return r
	}
	s.logger.Debug("sweep cell completed",
		log.CellKey, cell,
		log.MinPointsKey, r.MinPoints,
		log.EpsilonKey, r.Eps,
		log.ClustersKey, r.NClusters,
		log.SilhouetteKey, r.Score,
	)
	return r
}
