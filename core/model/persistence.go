package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/YuminosukeSato/dbscango/pkg/errors"
)

// SnapshotVersion はスナップショット形式のバージョン
const SnapshotVersion = "1"

// ClusteringSnapshot は学習済みクラスタリング結果の保存用表現
// ラベルは -1 がノイズ、1..NClusters がクラスタID
type ClusteringSnapshot struct {
	Version     string
	ModelType   string
	EstimatorID string

	Eps       float64
	MinPoints int
	Algorithm string

	NSamples    int
	NFeatures   int
	NClusters   int
	Labels      []int
	CoreSamples []int
}

// Validate はスナップショットの整合性を検証する
func (s *ClusteringSnapshot) Validate() error {
	if s.Version != SnapshotVersion {
		return errors.NewValidationError("version", "unsupported snapshot version", s.Version)
	}
	if len(s.Labels) != s.NSamples {
		return errors.NewDimensionError("ClusteringSnapshot.Validate", s.NSamples, len(s.Labels), 0)
	}
	for i, l := range s.Labels {
		if l == 0 || l < -1 || l > s.NClusters {
			return errors.NewValidationError("labels", "label out of range", map[string]int{"index": i, "label": l})
		}
	}
	return nil
}

// SaveModel はモデルをファイルに保存する
//
// 使用例:
//
//	snap, _ := db.Snapshot()
//	err := model.SaveModel(snap, "dbscan.gob")
func SaveModel(model interface{}, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer file.Close()

	return SaveModelToWriter(model, file)
}

// LoadModel はファイルからモデルを読み込む
//
// 使用例:
//
//	var snap model.ClusteringSnapshot
//	err := model.LoadModel(&snap, "dbscan.gob")
func LoadModel(model interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	return LoadModelFromReader(model, file)
}

// SaveModelToWriter はモデルをio.Writerに保存する
func SaveModelToWriter(model interface{}, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(model); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadModelFromReader はio.Readerからモデルを読み込む
func LoadModelFromReader(model interface{}, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(model); err != nil {
		return errors.Wrap(err, "failed to decode model")
	}
	return nil
}
