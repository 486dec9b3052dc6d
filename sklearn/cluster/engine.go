package cluster

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/YuminosukeSato/dbscango/pkg/errors"
	"github.com/YuminosukeSato/dbscango/pkg/log"
)

// WorklistOrder はクラスタ拡張時のワークリストの取り出し順
// どちらを選んでも得られる分割は同じで、クラスタへの追加順だけが変わる
type WorklistOrder int

const (
	// LIFO はスタックとして末尾から取り出す（既定）
	LIFO WorklistOrder = iota
	// FIFO はキューとして先頭から取り出す
	FIFO
)

func (o WorklistOrder) String() string {
	if o == FIFO {
		return "fifo"
	}
	return "lifo"
}

// EngineOption はEngineの設定オプション
type EngineOption func(*Engine)

// WithWorklistOrder はワークリストの取り出し順を設定
func WithWorklistOrder(order WorklistOrder) EngineOption {
	return func(e *Engine) {
		e.order = order
	}
}

// WithEngineLogger sets the logger used for run start/end records.
func WithEngineLogger(logger log.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine is the DBSCAN state machine for one dataset.
//
// The dataset and neighbor query are borrowed read-only. Labels live in a store
// owned by the engine, so several engines may run over the same dataset
// concurrently. A single Engine is not safe for concurrent use.
type Engine struct {
	ds     *Dataset
	query  NeighborQuery
	order  WorklistOrder
	logger log.Logger

	labels []Label
	core   []bool
	// queuedFor[j] はjを最後にワークリストへ積んだクラスタID
	queuedFor []int
	nClusters int
}

// NewEngine はデータセットと近傍探索からEngineを作成する
// query が nil の場合は BruteForce を使う
func NewEngine(ds *Dataset, query NeighborQuery, opts ...EngineOption) *Engine {
	if ds == nil {
		ds = &Dataset{}
	}
	if query == nil {
		query = NewBruteForce(ds)
	}
	e := &Engine{
		ds:        ds,
		query:     query,
		order:     LIFO,
		logger:    log.GetLoggerWithName("cluster.engine"),
		labels:    make([]Label, ds.Len()),
		core:      make([]bool, ds.Len()),
		queuedFor: make([]int, ds.Len()),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reset は全ての点を未分類に戻し、クラスタIDの採番をやり直す
func (e *Engine) Reset() {
	for i := range e.labels {
		e.labels[i] = Unclassified()
		e.core[i] = false
		e.queuedFor[i] = 0
	}
	e.nClusters = 0
}

// Labels は現在のラベルストアのコピーを返す
func (e *Engine) Labels() []Label {
	out := make([]Label, len(e.labels))
	copy(out, e.labels)
	return out
}

// Run labels every point as Noise or Cluster(k) for the given eps and minPts.
//
// Points already classified are skipped, so calling Run again without Reset
// returns the previous labeling unchanged. Invalid parameters return an
// InvalidParameterError before any label is touched.
func (e *Engine) Run(eps float64, minPts int) (*Result, error) {
	if err := validateParams("Engine.Run", eps, minPts); err != nil {
		return nil, err
	}

	start := time.Now()
	if e.logger.Enabled(context.Background(), log.LevelDebug) {
		e.logger.Debug("dbscan run started",
			log.OperationKey, log.OperationRun,
			log.SamplesKey, e.ds.Len(),
			log.EpsilonKey, eps,
			log.MinPointsKey, minPts,
		)
	}

	for i := range e.labels {
		if !e.labels[i].IsUnclassified() {
			continue
		}
		neighbors := e.query.Neighbors(i, eps)
		if len(neighbors) < minPts {
			e.labels[i] = NoiseLabel()
			continue
		}
		e.nClusters++
		e.expand(i, neighbors, e.nClusters, eps, minPts)
	}

	res := e.result(eps, minPts)
	e.logger.Debug("dbscan run completed",
		log.OperationKey, log.OperationRun,
		log.EpsilonKey, eps,
		log.MinPointsKey, minPts,
		log.ClustersKey, res.NClusters,
		log.NoiseKey, res.NNoise,
		log.CoreKey, len(res.CoreSamples),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return res, nil
}

// expand はコア点 seed からクラスタ k を密度到達可能な点へ広げる
func (e *Engine) expand(seed int, neighbors []int, k int, eps float64, minPts int) {
	e.labels[seed] = ClusterLabel(k)
	e.core[seed] = true
	e.queuedFor[seed] = k

	self := e.ds.points[seed]
	work := newWorklist(e.order, len(neighbors))
	for _, j := range neighbors {
		// 座標が同じ点は seed 自身とみなして除外する
		if self.Equal(e.ds.points[j]) {
			continue
		}
		e.push(work, j, k)
	}

	for !work.empty() {
		n := work.pop()
		switch e.labels[n].Kind() {
		case KindNoise:
			// ノイズは非コアと確定しているので昇格のみ
			e.labels[n] = ClusterLabel(k)
		case KindClustered:
			// 処理済み
		case KindUnclassified:
			e.labels[n] = ClusterLabel(k)
			next := e.query.Neighbors(n, eps)
			if len(next) >= minPts {
				e.core[n] = true
				for _, j := range next {
					e.push(work, j, k)
				}
			}
		}
	}
}

func (e *Engine) push(work *worklist, j, k int) {
	if e.queuedFor[j] == k || e.labels[j].IsClustered() {
		return
	}
	e.queuedFor[j] = k
	work.push(j)
}

func (e *Engine) result(eps float64, minPts int) *Result {
	res := &Result{
		Labels:    e.Labels(),
		NClusters: e.nClusters,
		Eps:       eps,
		MinPoints: minPts,
	}
	for i, l := range e.labels {
		if l.IsNoise() {
			res.NNoise++
		}
		if e.core[i] {
			res.CoreSamples = append(res.CoreSamples, i)
		}
	}
	return res
}

func validateParams(op string, eps float64, minPts int) error {
	if math.IsNaN(eps) || math.IsInf(eps, 0) {
		return errors.NewInvalidParameterError(op, "eps", eps, "must be a finite number")
	}
	if eps <= 0 {
		return errors.NewInvalidParameterError(op, "eps", eps, "must be positive")
	}
	if minPts <= 0 {
		return errors.NewInvalidParameterError(op, "minPts", minPts, "must be positive")
	}
	return nil
}

// worklist is a stack or a queue of point indices.
type worklist struct {
	order WorklistOrder
	items []int
	head  int
}

func newWorklist(order WorklistOrder, capacity int) *worklist {
	return &worklist{order: order, items: make([]int, 0, capacity)}
}

func (w *worklist) push(i int) { w.items = append(w.items, i) }

func (w *worklist) empty() bool { return w.head >= len(w.items) }

func (w *worklist) pop() int {
	if w.order == FIFO {
		i := w.items[w.head]
		w.head++
		return i
	}
	last := len(w.items) - 1
	i := w.items[last]
	w.items = w.items[:last]
	return i
}

// Result はある (eps, minPts) でのラベル付け結果
type Result struct {
	Labels      []Label
	NClusters   int
	NNoise      int
	CoreSamples []int // コア点のID（昇順）
	Eps         float64
	MinPoints   int
}

// ClusterSizes はクラスタIDごとの点数。index k-1 がクラスタ k
func (r *Result) ClusterSizes() []int {
	sizes := make([]int, r.NClusters)
	for _, l := range r.Labels {
		if l.IsClustered() {
			sizes[l.ClusterID()-1]++
		}
	}
	return sizes
}

// Members はクラスタ k に属する点のID（昇順）
func (r *Result) Members(k int) []int {
	var out []int
	for i, l := range r.Labels {
		if l.IsClustered() && l.ClusterID() == k {
			out = append(out, i)
		}
	}
	return out
}

// Partition returns the clusters as sorted member lists, ordered by their
// smallest member, plus the noise points. Two results with the same partition
// return equal values regardless of how cluster ids were assigned.
func (r *Result) Partition() (clusters [][]int, noise []int) {
	for k := 1; k <= r.NClusters; k++ {
		if m := r.Members(k); len(m) > 0 {
			clusters = append(clusters, m)
		}
	}
	sort.Slice(clusters, func(a, b int) bool { return clusters[a][0] < clusters[b][0] })
	for i, l := range r.Labels {
		if l.IsNoise() {
			noise = append(noise, i)
		}
	}
	return clusters, noise
}
