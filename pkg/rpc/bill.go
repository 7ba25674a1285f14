package rpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/ksdfg/bill-splitter/internal/models"
)

// BillServiceName is the fully-qualified name of the BillService.
const BillServiceName = "billsplitter.v1.BillService"

// BillServiceExtractBillProcedure reads a bill from a receipt image.
const BillServiceExtractBillProcedure = "/billsplitter.v1.BillService/ExtractBill"

// ExtractBillRequest carries a receipt image. Image is base64 in JSON.
type ExtractBillRequest struct {
	Image    []byte `json:"image"`
	MimeType string `json:"mime_type"`
}

// BillServiceHandler is implemented by the server.
type BillServiceHandler interface {
	ExtractBill(context.Context, *connect.Request[ExtractBillRequest]) (*connect.Response[models.OCRBill], error)
}

// NewBillServiceHandler builds an HTTP handler for the service and returns
// the path to mount it on.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	extract := connect.NewUnaryHandler(BillServiceExtractBillProcedure, svc.ExtractBill, opts...)

	return "/" + BillServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != BillServiceExtractBillProcedure {
			http.NotFound(w, r)
			return
		}
		extract.ServeHTTP(w, r)
	})
}

// BillServiceClient calls a remote BillService.
type BillServiceClient struct {
	extractBill *connect.Client[ExtractBillRequest, models.OCRBill]
}

// NewBillServiceClient creates a client for the service at baseURL.
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &BillServiceClient{
		extractBill: connect.NewClient[ExtractBillRequest, models.OCRBill](httpClient, baseURL+BillServiceExtractBillProcedure, opts...),
	}
}

// ExtractBill calls billsplitter.v1.BillService.ExtractBill.
func (c *BillServiceClient) ExtractBill(ctx context.Context, req *connect.Request[ExtractBillRequest]) (*connect.Response[models.OCRBill], error) {
	return c.extractBill.CallUnary(ctx, req)
}
