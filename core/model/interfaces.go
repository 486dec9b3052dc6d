// Package model provides the interfaces and base types shared by the estimators.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter は教師なしで学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はデータ行列（n_samples × n_features）でモデルを学習する
	Fit(X mat.Matrix) error
}

// ClusterMixin はクラスタリングのMixinインターフェース
type ClusterMixin interface {
	Fitter

	// FitPredict は学習とラベル付けを同時に実行する
	FitPredict(X mat.Matrix) ([]int, error)

	// Labels は学習データの各点のラベルを返す（ノイズは -1）
	Labels() ([]int, error)

	// NClusters は発見されたクラスタ数を返す
	NClusters() (int, error)
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// Snapshotter はクラスタリング結果をスナップショットとして入出力できるモデル
type Snapshotter interface {
	Snapshot() (*ClusteringSnapshot, error)
	Restore(s *ClusteringSnapshot) error
}
