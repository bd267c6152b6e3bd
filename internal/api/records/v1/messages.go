package recordsv1

import (
	"errors"

	jsoniter "github.com/json-iterator/go"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrEmptyMessage = errors.New("empty message")

type SelectRequest struct {
	Table   string         `json:"table"`
	Filters map[string]any `json:"filters,omitempty"`
}

type UpsertRequest struct {
	Table   string           `json:"table"`
	Records []map[string]any `json:"records"`
}

type DeleteRequest struct {
	Table string `json:"table"`
	ID    string `json:"id"`
}

// RecordsResponse — ответ Select и Upsert.
type RecordsResponse struct {
	Records []map[string]any `json:"records"`
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// Pack переводит сообщение в Struct через JSON. Числа на другой стороне придут как float64.
func Pack(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Unpack обратна к Pack.
func Unpack(s *structpb.Struct, dst any) error {
	if s == nil {
		return ErrEmptyMessage
	}
	raw, err := protojson.Marshal(s)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}
