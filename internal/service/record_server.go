package service

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	recordsv1 "github.com/Leganyst/rental-console/internal/api/records/v1"
	"github.com/Leganyst/rental-console/internal/domain"
	"github.com/Leganyst/rental-console/internal/mapper"
	"github.com/Leganyst/rental-console/internal/repository"
)

// RecordServer отдаёт Store по gRPC.
type RecordServer struct {
	store repository.Store
	log   *slog.Logger
}

var _ recordsv1.RecordServiceServer = (*RecordServer)(nil)

func NewRecordServer(store repository.Store, log *slog.Logger) *RecordServer {
	if log == nil {
		log = slog.Default()
	}
	return &RecordServer{store: store, log: log}
}

func (s *RecordServer) Select(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req recordsv1.SelectRequest
	if err := recordsv1.Unpack(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	if req.Table == "" {
		return nil, status.Error(codes.InvalidArgument, "table is required")
	}

	recs, err := s.store.Select(ctx, req.Table, req.Filters)
	if err != nil {
		return nil, s.toStatus("select", req.Table, err)
	}
	return packRecords(recs)
}

func (s *RecordServer) Upsert(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req recordsv1.UpsertRequest
	if err := recordsv1.Unpack(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	if req.Table == "" {
		return nil, status.Error(codes.InvalidArgument, "table is required")
	}

	recs := make([]mapper.Record, 0, len(req.Records))
	for _, r := range req.Records {
		recs = append(recs, r)
	}

	saved, err := s.store.Upsert(ctx, req.Table, recs)
	if err != nil {
		return nil, s.toStatus("upsert", req.Table, err)
	}
	return packRecords(saved)
}

func (s *RecordServer) Delete(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req recordsv1.DeleteRequest
	if err := recordsv1.Unpack(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	if req.Table == "" || req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "table and id are required")
	}

	if err := s.store.Delete(ctx, req.Table, req.ID); err != nil {
		return nil, s.toStatus("delete", req.Table, err)
	}
	out, err := recordsv1.Pack(recordsv1.DeleteResponse{Deleted: true})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func packRecords(recs []mapper.Record) (*structpb.Struct, error) {
	resp := recordsv1.RecordsResponse{Records: make([]map[string]any, 0, len(recs))}
	for _, r := range recs {
		resp.Records = append(resp.Records, r)
	}
	out, err := recordsv1.Pack(resp)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func (s *RecordServer) toStatus(op, table string, err error) error {
	switch {
	case domain.IsValidation(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, repository.ErrUnknownTable):
		return status.Error(codes.NotFound, err.Error())
	default:
		s.log.Error("record store failed",
			slog.String("op", op),
			slog.String("table", table),
			slog.Any("error", err),
		)
		return status.Errorf(codes.Internal, "%s %s: %v", op, table, err)
	}
}
