// Package ledgerv1connect wires the splitledger.v1.LedgerService messages
// to Connect handlers and clients.
package ledgerv1connect

import (
	"context"
	"mime"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	ledgerv1 "github.com/mmynk/splitledger/pkg/api/ledgerv1"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "splitledger.v1.LedgerService"

// Procedure paths, relative to the server root.
const (
	LedgerServiceCreateExpenseProcedure    = "/splitledger.v1.LedgerService/CreateExpense"
	LedgerServiceUpdateExpenseProcedure    = "/splitledger.v1.LedgerService/UpdateExpense"
	LedgerServiceDeleteExpenseProcedure    = "/splitledger.v1.LedgerService/DeleteExpense"
	LedgerServiceGetExpenseProcedure       = "/splitledger.v1.LedgerService/GetExpense"
	LedgerServiceListExpensesProcedure     = "/splitledger.v1.LedgerService/ListExpenses"
	LedgerServiceRecordSettlementProcedure = "/splitledger.v1.LedgerService/RecordSettlement"
	LedgerServiceDeleteSettlementProcedure = "/splitledger.v1.LedgerService/DeleteSettlement"
	LedgerServiceListSettlementsProcedure  = "/splitledger.v1.LedgerService/ListSettlements"
	LedgerServiceGetGroupLedgerProcedure   = "/splitledger.v1.LedgerService/GetGroupLedger"
	LedgerServiceSimplifyGroupProcedure    = "/splitledger.v1.LedgerService/SimplifyGroup"
	LedgerServiceGetGroupSummaryProcedure  = "/splitledger.v1.LedgerService/GetGroupSummary"
	LedgerServiceGetUserSummaryProcedure   = "/splitledger.v1.LedgerService/GetUserSummary"
	LedgerServiceReconcileGroupProcedure   = "/splitledger.v1.LedgerService/ReconcileGroup"
	LedgerServiceRebuildGroupProcedure     = "/splitledger.v1.LedgerService/RebuildGroup"
	LedgerServiceDeleteGroupProcedure      = "/splitledger.v1.LedgerService/DeleteGroup"
)

// LedgerServiceHandler is implemented by the server.
type LedgerServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[ledgerv1.CreateExpenseRequest]) (*connect.Response[ledgerv1.CreateExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[ledgerv1.UpdateExpenseRequest]) (*connect.Response[ledgerv1.UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[ledgerv1.DeleteExpenseRequest]) (*connect.Response[ledgerv1.DeleteExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[ledgerv1.GetExpenseRequest]) (*connect.Response[ledgerv1.GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ledgerv1.ListExpensesRequest]) (*connect.Response[ledgerv1.ListExpensesResponse], error)
	RecordSettlement(context.Context, *connect.Request[ledgerv1.RecordSettlementRequest]) (*connect.Response[ledgerv1.RecordSettlementResponse], error)
	DeleteSettlement(context.Context, *connect.Request[ledgerv1.DeleteSettlementRequest]) (*connect.Response[ledgerv1.DeleteSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[ledgerv1.ListSettlementsRequest]) (*connect.Response[ledgerv1.ListSettlementsResponse], error)
	GetGroupLedger(context.Context, *connect.Request[ledgerv1.GetGroupLedgerRequest]) (*connect.Response[ledgerv1.GetGroupLedgerResponse], error)
	SimplifyGroup(context.Context, *connect.Request[ledgerv1.SimplifyGroupRequest]) (*connect.Response[ledgerv1.SimplifyGroupResponse], error)
	GetGroupSummary(context.Context, *connect.Request[ledgerv1.GetGroupSummaryRequest]) (*connect.Response[ledgerv1.GetGroupSummaryResponse], error)
	GetUserSummary(context.Context, *connect.Request[ledgerv1.GetUserSummaryRequest]) (*connect.Response[ledgerv1.GetUserSummaryResponse], error)
	ReconcileGroup(context.Context, *connect.Request[ledgerv1.ReconcileGroupRequest]) (*connect.Response[ledgerv1.ReconcileGroupResponse], error)
	RebuildGroup(context.Context, *connect.Request[ledgerv1.RebuildGroupRequest]) (*connect.Response[ledgerv1.RebuildGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[ledgerv1.DeleteGroupRequest]) (*connect.Response[ledgerv1.DeleteGroupResponse], error)
}

// LedgerServiceClient is a client for the LedgerService.
type LedgerServiceClient interface {
	CreateExpense(context.Context, *connect.Request[ledgerv1.CreateExpenseRequest]) (*connect.Response[ledgerv1.CreateExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[ledgerv1.UpdateExpenseRequest]) (*connect.Response[ledgerv1.UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[ledgerv1.DeleteExpenseRequest]) (*connect.Response[ledgerv1.DeleteExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[ledgerv1.GetExpenseRequest]) (*connect.Response[ledgerv1.GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ledgerv1.ListExpensesRequest]) (*connect.Response[ledgerv1.ListExpensesResponse], error)
	RecordSettlement(context.Context, *connect.Request[ledgerv1.RecordSettlementRequest]) (*connect.Response[ledgerv1.RecordSettlementResponse], error)
	DeleteSettlement(context.Context, *connect.Request[ledgerv1.DeleteSettlementRequest]) (*connect.Response[ledgerv1.DeleteSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[ledgerv1.ListSettlementsRequest]) (*connect.Response[ledgerv1.ListSettlementsResponse], error)
	GetGroupLedger(context.Context, *connect.Request[ledgerv1.GetGroupLedgerRequest]) (*connect.Response[ledgerv1.GetGroupLedgerResponse], error)
	SimplifyGroup(context.Context, *connect.Request[ledgerv1.SimplifyGroupRequest]) (*connect.Response[ledgerv1.SimplifyGroupResponse], error)
	GetGroupSummary(context.Context, *connect.Request[ledgerv1.GetGroupSummaryRequest]) (*connect.Response[ledgerv1.GetGroupSummaryResponse], error)
	GetUserSummary(context.Context, *connect.Request[ledgerv1.GetUserSummaryRequest]) (*connect.Response[ledgerv1.GetUserSummaryResponse], error)
	ReconcileGroup(context.Context, *connect.Request[ledgerv1.ReconcileGroupRequest]) (*connect.Response[ledgerv1.ReconcileGroupResponse], error)
	RebuildGroup(context.Context, *connect.Request[ledgerv1.RebuildGroupRequest]) (*connect.Response[ledgerv1.RebuildGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[ledgerv1.DeleteGroupRequest]) (*connect.Response[ledgerv1.DeleteGroupResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler for svc and returns the path
// to mount it on. The JSON codec is always installed; opts may add
// interceptors and other handler options.
//
// Messages are plain Go structs, so only JSON bodies are served. Requests
// with any other content type, including the proto codecs Connect registers
// by default, get 415 Unsupported Media Type before reaching a procedure.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	handlers := map[string]http.Handler{
		LedgerServiceCreateExpenseProcedure:    connect.NewUnaryHandler(LedgerServiceCreateExpenseProcedure, svc.CreateExpense, opts...),
		LedgerServiceUpdateExpenseProcedure:    connect.NewUnaryHandler(LedgerServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...),
		LedgerServiceDeleteExpenseProcedure:    connect.NewUnaryHandler(LedgerServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...),
		LedgerServiceGetExpenseProcedure:       connect.NewUnaryHandler(LedgerServiceGetExpenseProcedure, svc.GetExpense, opts...),
		LedgerServiceListExpensesProcedure:     connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...),
		LedgerServiceRecordSettlementProcedure: connect.NewUnaryHandler(LedgerServiceRecordSettlementProcedure, svc.RecordSettlement, opts...),
		LedgerServiceDeleteSettlementProcedure: connect.NewUnaryHandler(LedgerServiceDeleteSettlementProcedure, svc.DeleteSettlement, opts...),
		LedgerServiceListSettlementsProcedure:  connect.NewUnaryHandler(LedgerServiceListSettlementsProcedure, svc.ListSettlements, opts...),
		LedgerServiceGetGroupLedgerProcedure:   connect.NewUnaryHandler(LedgerServiceGetGroupLedgerProcedure, svc.GetGroupLedger, opts...),
		LedgerServiceSimplifyGroupProcedure:    connect.NewUnaryHandler(LedgerServiceSimplifyGroupProcedure, svc.SimplifyGroup, opts...),
		LedgerServiceGetGroupSummaryProcedure:  connect.NewUnaryHandler(LedgerServiceGetGroupSummaryProcedure, svc.GetGroupSummary, opts...),
		LedgerServiceGetUserSummaryProcedure:   connect.NewUnaryHandler(LedgerServiceGetUserSummaryProcedure, svc.GetUserSummary, opts...),
		LedgerServiceReconcileGroupProcedure:   connect.NewUnaryHandler(LedgerServiceReconcileGroupProcedure, svc.ReconcileGroup, opts...),
		LedgerServiceRebuildGroupProcedure:     connect.NewUnaryHandler(LedgerServiceRebuildGroupProcedure, svc.RebuildGroup, opts...),
		LedgerServiceDeleteGroupProcedure:      connect.NewUnaryHandler(LedgerServiceDeleteGroupProcedure, svc.DeleteGroup, opts...),
	}

	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if !isJSONContentType(r.Header.Get("Content-Type")) {
			w.Header().Set("Accept-Post", "application/json, application/grpc+json, application/grpc-web+json")
			http.Error(w, "unsupported content type: this service accepts JSON only", http.StatusUnsupportedMediaType)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// isJSONContentType accepts application/json and any +json media type, which
// covers the gRPC and gRPC-Web JSON variants.
func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// NewLedgerServiceClient constructs a client for the LedgerService at baseURL
// (for example, http://localhost:8080).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)

	return &ledgerServiceClient{
		createExpense:    connect.NewClient[ledgerv1.CreateExpenseRequest, ledgerv1.CreateExpenseResponse](httpClient, baseURL+LedgerServiceCreateExpenseProcedure, opts...),
		updateExpense:    connect.NewClient[ledgerv1.UpdateExpenseRequest, ledgerv1.UpdateExpenseResponse](httpClient, baseURL+LedgerServiceUpdateExpenseProcedure, opts...),
		deleteExpense:    connect.NewClient[ledgerv1.DeleteExpenseRequest, ledgerv1.DeleteExpenseResponse](httpClient, baseURL+LedgerServiceDeleteExpenseProcedure, opts...),
		getExpense:       connect.NewClient[ledgerv1.GetExpenseRequest, ledgerv1.GetExpenseResponse](httpClient, baseURL+LedgerServiceGetExpenseProcedure, opts...),
		listExpenses:     connect.NewClient[ledgerv1.ListExpensesRequest, ledgerv1.ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		recordSettlement: connect.NewClient[ledgerv1.RecordSettlementRequest, ledgerv1.RecordSettlementResponse](httpClient, baseURL+LedgerServiceRecordSettlementProcedure, opts...),
		deleteSettlement: connect.NewClient[ledgerv1.DeleteSettlementRequest, ledgerv1.DeleteSettlementResponse](httpClient, baseURL+LedgerServiceDeleteSettlementProcedure, opts...),
		listSettlements:  connect.NewClient[ledgerv1.ListSettlementsRequest, ledgerv1.ListSettlementsResponse](httpClient, baseURL+LedgerServiceListSettlementsProcedure, opts...),
		getGroupLedger:   connect.NewClient[ledgerv1.GetGroupLedgerRequest, ledgerv1.GetGroupLedgerResponse](httpClient, baseURL+LedgerServiceGetGroupLedgerProcedure, opts...),
		simplifyGroup:    connect.NewClient[ledgerv1.SimplifyGroupRequest, ledgerv1.SimplifyGroupResponse](httpClient, baseURL+LedgerServiceSimplifyGroupProcedure, opts...),
		getGroupSummary:  connect.NewClient[ledgerv1.GetGroupSummaryRequest, ledgerv1.GetGroupSummaryResponse](httpClient, baseURL+LedgerServiceGetGroupSummaryProcedure, opts...),
		getUserSummary:   connect.NewClient[ledgerv1.GetUserSummaryRequest, ledgerv1.GetUserSummaryResponse](httpClient, baseURL+LedgerServiceGetUserSummaryProcedure, opts...),
		reconcileGroup:   connect.NewClient[ledgerv1.ReconcileGroupRequest, ledgerv1.ReconcileGroupResponse](httpClient, baseURL+LedgerServiceReconcileGroupProcedure, opts...),
		rebuildGroup:     connect.NewClient[ledgerv1.RebuildGroupRequest, ledgerv1.RebuildGroupResponse](httpClient, baseURL+LedgerServiceRebuildGroupProcedure, opts...),
		deleteGroup:      connect.NewClient[ledgerv1.DeleteGroupRequest, ledgerv1.DeleteGroupResponse](httpClient, baseURL+LedgerServiceDeleteGroupProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	createExpense    *connect.Client[ledgerv1.CreateExpenseRequest, ledgerv1.CreateExpenseResponse]
	updateExpense    *connect.Client[ledgerv1.UpdateExpenseRequest, ledgerv1.UpdateExpenseResponse]
	deleteExpense    *connect.Client[ledgerv1.DeleteExpenseRequest, ledgerv1.DeleteExpenseResponse]
	getExpense       *connect.Client[ledgerv1.GetExpenseRequest, ledgerv1.GetExpenseResponse]
	listExpenses     *connect.Client[ledgerv1.ListExpensesRequest, ledgerv1.ListExpensesResponse]
	recordSettlement *connect.Client[ledgerv1.RecordSettlementRequest, ledgerv1.RecordSettlementResponse]
	deleteSettlement *connect.Client[ledgerv1.DeleteSettlementRequest, ledgerv1.DeleteSettlementResponse]
	listSettlements  *connect.Client[ledgerv1.ListSettlementsRequest, ledgerv1.ListSettlementsResponse]
	getGroupLedger   *connect.Client[ledgerv1.GetGroupLedgerRequest, ledgerv1.GetGroupLedgerResponse]
	simplifyGroup    *connect.Client[ledgerv1.SimplifyGroupRequest, ledgerv1.SimplifyGroupResponse]
	getGroupSummary  *connect.Client[ledgerv1.GetGroupSummaryRequest, ledgerv1.GetGroupSummaryResponse]
	getUserSummary   *connect.Client[ledgerv1.GetUserSummaryRequest, ledgerv1.GetUserSummaryResponse]
	reconcileGroup   *connect.Client[ledgerv1.ReconcileGroupRequest, ledgerv1.ReconcileGroupResponse]
	rebuildGroup     *connect.Client[ledgerv1.RebuildGroupRequest, ledgerv1.RebuildGroupResponse]
	deleteGroup      *connect.Client[ledgerv1.DeleteGroupRequest, ledgerv1.DeleteGroupResponse]
}

func (c *ledgerServiceClient) CreateExpense(ctx context.Context, req *connect.Request[ledgerv1.CreateExpenseRequest]) (*connect.Response[ledgerv1.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[ledgerv1.UpdateExpenseRequest]) (*connect.Response[ledgerv1.UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[ledgerv1.DeleteExpenseRequest]) (*connect.Response[ledgerv1.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetExpense(ctx context.Context, req *connect.Request[ledgerv1.GetExpenseRequest]) (*connect.Response[ledgerv1.GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ledgerv1.ListExpensesRequest]) (*connect.Response[ledgerv1.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RecordSettlement(ctx context.Context, req *connect.Request[ledgerv1.RecordSettlementRequest]) (*connect.Response[ledgerv1.RecordSettlementResponse], error) {
	return c.recordSettlement.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteSettlement(ctx context.Context, req *connect.Request[ledgerv1.DeleteSettlementRequest]) (*connect.Response[ledgerv1.DeleteSettlementResponse], error) {
	return c.deleteSettlement.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListSettlements(ctx context.Context, req *connect.Request[ledgerv1.ListSettlementsRequest]) (*connect.Response[ledgerv1.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetGroupLedger(ctx context.Context, req *connect.Request[ledgerv1.GetGroupLedgerRequest]) (*connect.Response[ledgerv1.GetGroupLedgerResponse], error) {
	return c.getGroupLedger.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) SimplifyGroup(ctx context.Context, req *connect.Request[ledgerv1.SimplifyGroupRequest]) (*connect.Response[ledgerv1.SimplifyGroupResponse], error) {
	return c.simplifyGroup.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetGroupSummary(ctx context.Context, req *connect.Request[ledgerv1.GetGroupSummaryRequest]) (*connect.Response[ledgerv1.GetGroupSummaryResponse], error) {
	return c.getGroupSummary.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetUserSummary(ctx context.Context, req *connect.Request[ledgerv1.GetUserSummaryRequest]) (*connect.Response[ledgerv1.GetUserSummaryResponse], error) {
	return c.getUserSummary.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ReconcileGroup(ctx context.Context, req *connect.Request[ledgerv1.ReconcileGroupRequest]) (*connect.Response[ledgerv1.ReconcileGroupResponse], error) {
	return c.reconcileGroup.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RebuildGroup(ctx context.Context, req *connect.Request[ledgerv1.RebuildGroupRequest]) (*connect.Response[ledgerv1.RebuildGroupResponse], error) {
	return c.rebuildGroup.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[ledgerv1.DeleteGroupRequest]) (*connect.Response[ledgerv1.DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

// UnimplementedLedgerServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedLedgerServiceHandler struct{}

func (UnimplementedLedgerServiceHandler) CreateExpense(context.Context, *connect.Request[ledgerv1.CreateExpenseRequest]) (*connect.Response[ledgerv1.CreateExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(LedgerServiceCreateExpenseProcedure))
}

func (UnimplementedLedgerServiceHandler) UpdateExpense(context.Context, *connect.Request[ledgerv1.UpdateExpenseRequest]) (*connect.Response[ledgerv1.UpdateExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(LedgerServiceUpdateExpenseProcedure))
}

func (UnimplementedLedgerServiceHandler) DeleteExpense(context.Context, *connect.Request[ledgerv1.DeleteExpenseRequest]) (*connect.Response[ledgerv1.DeleteExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(LedgerServiceDeleteExpenseProcedure))
}

func (UnimplementedLedgerServiceHandler) GetExpense(context.Context, *connect.Request[ledgerv1.GetExpenseRequest]) (*connect.Response[ledgerv1.GetExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(LedgerServiceGetExpenseProcedure))
}

func (UnimplementedLedgerServiceHandler) ListExpenses(context.Context, *connect.Request[ledgerv1.ListExpensesRequest]) (*connect.Response[ledgerv1.ListExpensesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(LedgerServiceListExpensesProcedure))
}

func (UnimplementedLedgerServiceHandler) RecordSettlement(context.Context, *connect.Request[ledgerv1.RecordSettlementRequest]) (*connect.Response[ledgerv1.RecordSettlementResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(LedgerServiceRecordSettlementProcedure))
}

func (UnimplementedLedgerServiceHandler) DeleteSettlement(context.Context, *connect.Request[ledgerv1.DeleteSettlementRequest]) (*connect.Response[ledgerv1.DeleteSettlementResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(LedgerServiceDeleteSettlementProcedure))
}

func (UnimplementedLedgerServiceHandler) ListSettlements(context.Context, *connect.Request[ledgerv1.ListSettlementsRequest]) (*connect.Response[ledgerv1.ListSettlementsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(LedgerServiceListSettlementsProcedure))
}

func (UnimplementedLedgerServiceHandler) GetGroupLedger(context.Context, *connect.Request[ledgerv1.GetGroupLedgerRequest]) (*connect.Response[ledgerv1.GetGroupLedgerResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(LedgerServiceGetGroupLedgerProcedure))
}

func (UnimplementedLedgerServiceHandler) SimplifyGroup(context.Context, *connect.Request[ledgerv1.SimplifyGroupRequest]) (*connect.Response[ledgerv1.SimplifyGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(LedgerServiceSimplifyGroupProcedure))
}

func (UnimplementedLedgerServiceHandler) GetGroupSummary(context.Context, *connect.Request[ledgerv1.GetGroupSummaryRequest]) (*connect.Response[ledgerv1.GetGroupSummaryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(LedgerServiceGetGroupSummaryProcedure))
}

func (UnimplementedLedgerServiceHandler) GetUserSummary(context.Context, *connect.Request[ledgerv1.GetUserSummaryRequest]) (*connect.Response[ledgerv1.GetUserSummaryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(LedgerServiceGetUserSummaryProcedure))
}

func (UnimplementedLedgerServiceHandler) ReconcileGroup(context.Context, *connect.Request[ledgerv1.ReconcileGroupRequest]) (*connect.Response[ledgerv1.ReconcileGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(LedgerServiceReconcileGroupProcedure))
}

func (UnimplementedLedgerServiceHandler) RebuildGroup(context.Context, *connect.Request[ledgerv1.RebuildGroupRequest]) (*connect.Response[ledgerv1.RebuildGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(LedgerServiceRebuildGroupProcedure))
}

func (UnimplementedLedgerServiceHandler) DeleteGroup(context.Context, *connect.Request[ledgerv1.DeleteGroupRequest]) (*connect.Response[ledgerv1.DeleteGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(LedgerServiceDeleteGroupProcedure))
}

type errUnimplemented string

func (e errUnimplemented) Error() string {
	return string(e) + " is not implemented"
}
