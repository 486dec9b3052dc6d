package cluster

import (
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/dbscango/core/model"
	"github.com/YuminosukeSato/dbscango/pkg/errors"
	"github.com/YuminosukeSato/dbscango/pkg/log"
)

// DBSCAN は密度ベースのクラスタリング推定器
// scikit-learnのDBSCANと同様のAPIを持つが、クラスタIDは 1..K、ノイズは -1
type DBSCAN struct {
	model.BaseEstimator

	// ハイパーパラメータ
	eps        float64       // 近傍半径（境界を含む）
	minSamples int           // コア点となる最小近傍点数（自身を含む）
	algorithm  string        // 近傍探索: "brute", "grid", "kd_tree"
	order      WorklistOrder // ワークリストの取り出し順

	// 学習結果
	result_    *Result
	nFeatures_ int

	mu     sync.RWMutex
	logger log.Logger
}

// DBSCANOption はDBSCANの設定オプション
type DBSCANOption func(*DBSCAN)

// NewDBSCAN は新しいDBSCANを作成
func NewDBSCAN(options ...DBSCANOption) *DBSCAN {
	db := &DBSCAN{
		eps:        0.5,
		minSamples: 5,
		algorithm:  AlgorithmBrute,
		order:      LIFO,
	}
	for _, opt := range options {
		opt(db)
	}
	if db.logger == nil {
		db.logger = log.GetLoggerWithName("cluster.dbscan")
	}
	db.logger = db.logger.With(
		log.ModelNameKey, "DBSCAN",
		log.EstimatorIDKey, db.EstimatorID(),
	)
	return db
}

// WithEps は近傍半径を設定
func WithEps(eps float64) DBSCANOption {
	return func(db *DBSCAN) {
		db.eps = eps
	}
}

// WithMinSamples はコア点の最小近傍点数を設定
func WithMinSamples(n int) DBSCANOption {
	return func(db *DBSCAN) {
		db.minSamples = n
	}
}

// WithAlgorithm は近傍探索アルゴリズムを設定
func WithAlgorithm(algorithm string) DBSCANOption {
	return func(db *DBSCAN) {
		db.algorithm = algorithm
	}
}

// WithDBSCANWorklistOrder はワークリストの取り出し順を設定
func WithDBSCANWorklistOrder(order WorklistOrder) DBSCANOption {
	return func(db *DBSCAN) {
		db.order = order
	}
}

// WithLogger sets the estimator's logger.
func WithLogger(logger log.Logger) DBSCANOption {
	return func(db *DBSCAN) {
		db.logger = logger
	}
}

// Fit はデータ行列をクラスタリングする
func (db *DBSCAN) Fit(X mat.Matrix) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := validateParams("DBSCAN.Fit", db.eps, db.minSamples); err != nil {
		return err
	}

	start := time.Now()
	ds, err := NewDatasetFromMatrix(X)
	if err != nil {
		return err
	}
	query, err := NewNeighborQuery(db.algorithm, ds)
	if err != nil {
		return err
	}

	engine := NewEngine(ds, query, WithWorklistOrder(db.order), WithEngineLogger(db.logger))
	res, err := engine.Run(db.eps, db.minSamples)
	if err != nil {
		return errors.Wrap(err, "dbscan fit")
	}

	db.result_ = res
	db.nFeatures_ = ds.Dim()
	db.SetFitted()

	db.logger.Info("fit completed",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, ds.Len(),
		log.FeaturesKey, ds.Dim(),
		log.EpsilonKey, db.eps,
		log.MinPointsKey, db.minSamples,
		log.AlgorithmKey, db.algorithm,
		log.ClustersKey, res.NClusters,
		log.NoiseKey, res.NNoise,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// FitPredict は学習して各点のラベルを返す
func (db *DBSCAN) FitPredict(X mat.Matrix) ([]int, error) {
	if err := db.Fit(X); err != nil {
		return nil, err
	}
	return db.Labels()
}

// Labels は各点のラベル（ノイズは -1、クラスタは 1..K）
func (db *DBSCAN) Labels() ([]int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if !db.IsFitted() {
		return nil, errors.NewNotFittedError("DBSCAN", "Labels")
	}
	return LabelsToInts(db.result_.Labels), nil
}

// NClusters は発見されたクラスタ数
func (db *DBSCAN) NClusters() (int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if !db.IsFitted() {
		return 0, errors.NewNotFittedError("DBSCAN", "NClusters")
	}
	return db.result_.NClusters, nil
}

// CoreSampleIndices はコア点のインデックス
func (db *DBSCAN) CoreSampleIndices() ([]int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if !db.IsFitted() {
		return nil, errors.NewNotFittedError("DBSCAN", "CoreSampleIndices")
	}
	out := make([]int, len(db.result_.CoreSamples))
	copy(out, db.result_.CoreSamples)
	return out, nil
}

// Result は学習結果の Result を返す
func (db *DBSCAN) Result() (*Result, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if !db.IsFitted() {
		return nil, errors.NewNotFittedError("DBSCAN", "Result")
	}
	return db.result_, nil
}

// GetParams はハイパーパラメータを返す
func (db *DBSCAN) GetParams() map[string]interface{} {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return map[string]interface{}{
		"eps":         db.eps,
		"min_samples": db.minSamples,
		"algorithm":   db.algorithm,
		"worklist":    db.order.String(),
	}
}

// Snapshot は学習結果を保存用のスナップショットに変換する
func (db *DBSCAN) Snapshot() (*model.ClusteringSnapshot, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if !db.IsFitted() {
		return nil, errors.NewNotFittedError("DBSCAN", "Snapshot")
	}
	core := make([]int, len(db.result_.CoreSamples))
	copy(core, db.result_.CoreSamples)
	return &model.ClusteringSnapshot{
		Version:     model.SnapshotVersion,
		ModelType:   "DBSCAN",
		EstimatorID: db.EstimatorID(),
		Eps:         db.eps,
		MinPoints:   db.minSamples,
		Algorithm:   db.algorithm,
		NSamples:    len(db.result_.Labels),
		NFeatures:   db.nFeatures_,
		NClusters:   db.result_.NClusters,
		Labels:      LabelsToInts(db.result_.Labels),
		CoreSamples: core,
	}, nil
}

// Restore はスナップショットから学習済み状態を復元する
func (db *DBSCAN) Restore(s *model.ClusteringSnapshot) error {
	if s == nil {
		return errors.NewValidationError("snapshot", "must not be nil", nil)
	}
	if s.ModelType != "DBSCAN" {
		return errors.NewValidationError("model_type", "snapshot is not a DBSCAN model", s.ModelType)
	}
	if err := s.Validate(); err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	labels := make([]Label, len(s.Labels))
	res := &Result{Labels: labels, NClusters: s.NClusters, Eps: s.Eps, MinPoints: s.MinPoints}
	for i, v := range s.Labels {
		labels[i] = LabelFromInt(v)
		if labels[i].IsNoise() {
			res.NNoise++
		}
	}
	res.CoreSamples = make([]int, len(s.CoreSamples))
	copy(res.CoreSamples, s.CoreSamples)

	db.eps = s.Eps
	db.minSamples = s.MinPoints
	db.algorithm = s.Algorithm
	db.nFeatures_ = s.NFeatures
	db.result_ = res
	if s.EstimatorID != "" {
		db.SetEstimatorID(s.EstimatorID)
	}
	db.SetFitted()
	return nil
}

var (
	_ model.ClusterMixin    = (*DBSCAN)(nil)
	_ model.ParameterGetter = (*DBSCAN)(nil)
	_ model.Snapshotter     = (*DBSCAN)(nil)
)
