package repository

import (
	"context"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	recordsv1 "github.com/Leganyst/rental-console/internal/api/records/v1"
	"github.com/Leganyst/rental-console/internal/domain"
	"github.com/Leganyst/rental-console/internal/mapper"
)

// RemoteStore — Store поверх gRPC RecordService.
type RemoteStore struct {
	client recordsv1.RecordServiceClient
}

func NewRemoteStore(client recordsv1.RecordServiceClient) *RemoteStore {
	return &RemoteStore{client: client}
}

func (s *RemoteStore) Select(ctx context.Context, table string, filters map[string]any) ([]mapper.Record, error) {
	req, err := recordsv1.Pack(recordsv1.SelectRequest{Table: table, Filters: filters})
	if err != nil {
		return nil, domain.NewValidationError("filters", "filters cannot be encoded", err)
	}
	resp, err := s.client.Select(ctx, req)
	if err != nil {
		return nil, fromStatus("select", table, err)
	}
	return unpackRecords("select", table, resp)
}

func (s *RemoteStore) Upsert(ctx context.Context, table string, records []mapper.Record) ([]mapper.Record, error) {
	plain := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		plain = append(plain, rec)
	}
	req, err := recordsv1.Pack(recordsv1.UpsertRequest{Table: table, Records: plain})
	if err != nil {
		return nil, domain.NewValidationError("records", "records cannot be encoded", err)
	}
	resp, err := s.client.Upsert(ctx, req)
	if err != nil {
		return nil, fromStatus("upsert", table, err)
	}
	return unpackRecords("upsert", table, resp)
}

func (s *RemoteStore) Delete(ctx context.Context, table, id string) error {
	req, err := recordsv1.Pack(recordsv1.DeleteRequest{Table: table, ID: id})
	if err != nil {
		return domain.NewValidationError("id", "request cannot be encoded", err)
	}
	resp, err := s.client.Delete(ctx, req)
	if err != nil {
		return fromStatus("delete", table, err)
	}
	var out recordsv1.DeleteResponse
	if err := recordsv1.Unpack(resp, &out); err != nil {
		return &domain.PersistenceError{Op: "delete", Table: table, Err: err}
	}
	if !out.Deleted {
		return &domain.PersistenceError{Op: "delete", Table: table, Err: fmt.Errorf("record %s not deleted", id)}
	}
	return nil
}

func unpackRecords(op, table string, resp *structpb.Struct) ([]mapper.Record, error) {
	var out recordsv1.RecordsResponse
	if err := recordsv1.Unpack(resp, &out); err != nil {
		return nil, &domain.PersistenceError{Op: op, Table: table, Err: err}
	}
	recs := make([]mapper.Record, 0, len(out.Records))
	for _, rec := range out.Records {
		recs = append(recs, mapper.Record(rec))
	}
	return recs, nil
}

// fromStatus переводит gRPC-статус обратно в ошибки домена.
func fromStatus(op, table string, err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return &domain.PersistenceError{Op: op, Table: table, Err: err}
	}
	switch st.Code() {
	case codes.InvalidArgument:
		return domain.NewValidationError("", st.Message(), nil)
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrUnknownTable, st.Message())
	default:
		return &domain.PersistenceError{Op: op, Table: table, Err: err}
	}
}
