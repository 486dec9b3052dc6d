package cluster

import (
	"fmt"
)

// LabelKind は点の分類状態の種別
type LabelKind uint8

const (
	// KindUnclassified はまだ訪問されていない点
	KindUnclassified LabelKind = iota
	// KindNoise はどのコア点からも密度到達可能でない点
	KindNoise
	// KindClustered はクラスタに所属する点
	KindClustered
)

func (k LabelKind) String() string {
	switch k {
	case KindUnclassified:
		return "unclassified"
	case KindNoise:
		return "noise"
	case KindClustered:
		return "cluster"
	default:
		return fmt.Sprintf("LabelKind(%d)", uint8(k))
	}
}

// Label は Unclassified | Noise | Cluster(k) のいずれかを表すタグ付き値
// ゼロ値は Unclassified
type Label struct {
	kind LabelKind
	id   int
}

// Unclassified は未分類ラベルを返す
func Unclassified() Label { return Label{} }

// NoiseLabel はノイズラベルを返す
func NoiseLabel() Label { return Label{kind: KindNoise} }

// ClusterLabel はクラスタIDが k のラベルを返す。k は 1 以上
func ClusterLabel(k int) Label {
	if k <= 0 {
		panic(fmt.Sprintf("cluster: cluster id must be positive, got %d", k))
	}
	return Label{kind: KindClustered, id: k}
}

// Kind はラベルの種別を返す
func (l Label) Kind() LabelKind { return l.kind }

// ClusterID はクラスタIDを返す。クラスタ以外は 0
func (l Label) ClusterID() int { return l.id }

// IsUnclassified reports whether the point has not been visited yet.
func (l Label) IsUnclassified() bool { return l.kind == KindUnclassified }

// IsNoise reports whether the point is currently noise.
func (l Label) IsNoise() bool { return l.kind == KindNoise }

// IsClustered reports whether the point belongs to a cluster.
func (l Label) IsClustered() bool { return l.kind == KindClustered }

// Int は書き出しや描画用の整数表現を返す（未分類 -2、ノイズ -1、クラスタ k）
func (l Label) Int() int {
	switch l.kind {
	case KindNoise:
		return -1
	case KindClustered:
		return l.id
	default:
		return -2
	}
}

func (l Label) String() string {
	switch l.kind {
	case KindNoise:
		return "Noise"
	case KindClustered:
		return fmt.Sprintf("Cluster(%d)", l.id)
	default:
		return "Unclassified"
	}
}

// LabelFromInt は Int の逆変換。-1 はノイズ、正の値はクラスタ、それ以外は未分類
func LabelFromInt(v int) Label {
	switch {
	case v == -1:
		return NoiseLabel()
	case v > 0:
		return ClusterLabel(v)
	default:
		return Unclassified()
	}
}

// LabelsToInts converts a label slice to the integer form used by writers and plots.
func LabelsToInts(labels []Label) []int {
	out := make([]int, len(labels))
	for i, l := range labels {
		out[i] = l.Int()
	}
	return out
}
