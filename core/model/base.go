package model

import (
	"github.com/google/uuid"
)

// EstimatorState はモデルの学習状態を表す
type EstimatorState int

const (
	// NotFitted はモデルが未学習の状態
	NotFitted EstimatorState = iota
	// Fitted はモデルが学習済みの状態
	Fitted
)

// BaseEstimator は全てのモデルの基底となる構造体
// 学習状態とログ用の推定器IDを保持する
type BaseEstimator struct {
	state EstimatorState
	id    string
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted はモデルを学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset はモデルを初期状態にリセットする（IDは維持）
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}

// EstimatorID は推定器のUUIDを返す。初回呼び出し時に採番される
func (e *BaseEstimator) EstimatorID() string {
	if e.id == "" {
		e.id = uuid.NewString()
	}
	return e.id
}

// SetEstimatorID はスナップショットから復元したIDを設定する
func (e *BaseEstimator) SetEstimatorID(id string) {
	e.id = id
}
