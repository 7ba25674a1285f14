package rpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/ksdfg/bill-splitter/internal/models"
)

// OutingServiceName is the fully-qualified name of the OutingService.
const OutingServiceName = "billsplitter.v1.OutingService"

const (
	// OutingServiceSplitProcedure settles an outing with the fewest payments.
	OutingServiceSplitProcedure = "/billsplitter.v1.OutingService/Split"
	// OutingServiceBalanceProcedure returns the creditors and debtors of an outing.
	OutingServiceBalanceProcedure = "/billsplitter.v1.OutingService/Balance"
)

// OutingServiceHandler is implemented by the server.
type OutingServiceHandler interface {
	Split(context.Context, *connect.Request[models.Outing]) (*connect.Response[models.OutingSplit], error)
	Balance(context.Context, *connect.Request[models.Outing]) (*connect.Response[models.OutingPaymentBalance], error)
}

// NewOutingServiceHandler builds an HTTP handler for the service and returns
// the path to mount it on.
func NewOutingServiceHandler(svc OutingServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	split := connect.NewUnaryHandler(OutingServiceSplitProcedure, svc.Split, opts...)
	balance := connect.NewUnaryHandler(OutingServiceBalanceProcedure, svc.Balance, opts...)

	return "/" + OutingServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case OutingServiceSplitProcedure:
			split.ServeHTTP(w, r)
		case OutingServiceBalanceProcedure:
			balance.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// OutingServiceClient calls a remote OutingService.
type OutingServiceClient struct {
	split   *connect.Client[models.Outing, models.OutingSplit]
	balance *connect.Client[models.Outing, models.OutingPaymentBalance]
}

// NewOutingServiceClient creates a client for the service at baseURL.
func NewOutingServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *OutingServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &OutingServiceClient{
		split:   connect.NewClient[models.Outing, models.OutingSplit](httpClient, baseURL+OutingServiceSplitProcedure, opts...),
		balance: connect.NewClient[models.Outing, models.OutingPaymentBalance](httpClient, baseURL+OutingServiceBalanceProcedure, opts...),
	}
}

// Split calls billsplitter.v1.OutingService.Split.
func (c *OutingServiceClient) Split(ctx context.Context, req *connect.Request[models.Outing]) (*connect.Response[models.OutingSplit], error) {
	return c.split.CallUnary(ctx, req)
}

// Balance calls billsplitter.v1.OutingService.Balance.
func (c *OutingServiceClient) Balance(ctx context.Context, req *connect.Request[models.Outing]) (*connect.Response[models.OutingPaymentBalance], error) {
	return c.balance.CallUnary(ctx, req)
}
