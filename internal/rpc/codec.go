// Package rpc holds the gRPC service descriptors shared by the gateway and
// the services. Messages are plain Go structs carried by a JSON codec.
package rpc

import (
	"context"
	"encoding/json"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// CodecName is the content-subtype every call in this package uses.
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

func unary[Req any, Resp any, Srv any](fullMethod string, call func(Srv, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(Srv), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(Srv), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Pagination mirrors the page-token scheme used by every List call.
type PaginationRequest struct {
	PageSize  int32  `json:"page_size"`
	PageToken string `json:"page_token"`
}

type PaginationResponse struct {
	NextPageToken string `json:"next_page_token"`
	TotalCount    int32  `json:"total_count"`
}

type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// Page resolves the 1-based page number, limit and row offset of a request.
func (p *PaginationRequest) Page() (page, limit, offset int) {
	page, limit = 1, defaultPageSize
	if p != nil {
		if p.PageSize > 0 {
			limit = int(p.PageSize)
		}
		if n, err := strconv.Atoi(p.PageToken); err == nil && n > 0 {
			page = n
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit, (page - 1) * limit
}

func NewPaginationResponse(page, limit int, total int64) *PaginationResponse {
	next := ""
	if int64(page*limit) < total {
		next = strconv.Itoa(page + 1)
	}
	return &PaginationResponse{NextPageToken: next, TotalCount: int32(total)}
}
