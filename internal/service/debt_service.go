package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/middleware"
	ledgerv1 "github.com/mmynk/splitledger/pkg/api/ledgerv1"
)

// GetGroupLedger returns the live debt edges of a group.
func (s *LedgerService) GetGroupLedger(ctx context.Context, req *connect.Request[ledgerv1.GetGroupLedgerRequest]) (*connect.Response[ledgerv1.GetGroupLedgerResponse], error) {
	if _, err := requireCaller(ctx); err != nil {
		return nil, err
	}

	groupID := req.Msg.GroupID
	if groupID == "" {
		return nil, s.fail(ctx, "GetGroupLedger", invalidArgument("group_id is required"))
	}

	edges, err := s.ledger.GroupLedger(ctx, groupID)
	if err != nil {
		return nil, s.fail(ctx, "GetGroupLedger", err, "group_id", groupID)
	}

	return connect.NewResponse(&ledgerv1.GetGroupLedgerResponse{
		GroupID: groupID,
		Edges:   toProtoEdges(edges),
	}), nil
}

// SimplifyGroup suggests a small set of payments that settles the group.
// Stored edges are not modified.
func (s *LedgerService) SimplifyGroup(ctx context.Context, req *connect.Request[ledgerv1.SimplifyGroupRequest]) (*connect.Response[ledgerv1.SimplifyGroupResponse], error) {
	if _, err := requireCaller(ctx); err != nil {
		return nil, err
	}

	groupID := req.Msg.GroupID
	if groupID == "" {
		return nil, s.fail(ctx, "SimplifyGroup", invalidArgument("group_id is required"))
	}

	transfers, err := s.ledger.Simplify(ctx, groupID)
	if err != nil {
		return nil, s.fail(ctx, "SimplifyGroup", err, "group_id", groupID)
	}

	return connect.NewResponse(&ledgerv1.SimplifyGroupResponse{
		GroupID:   groupID,
		Transfers: toProtoTransfers(transfers),
	}), nil
}

// GetGroupSummary returns per-member totals and the simplified payments of a group.
func (s *LedgerService) GetGroupSummary(ctx context.Context, req *connect.Request[ledgerv1.GetGroupSummaryRequest]) (*connect.Response[ledgerv1.GetGroupSummaryResponse], error) {
	if _, err := requireCaller(ctx); err != nil {
		return nil, err
	}

	groupID := req.Msg.GroupID
	if groupID == "" {
		return nil, s.fail(ctx, "GetGroupSummary", invalidArgument("group_id is required"))
	}

	summary, err := s.ledger.GroupSummary(ctx, groupID)
	if err != nil {
		return nil, s.fail(ctx, "GetGroupSummary", err, "group_id", groupID)
	}

	return connect.NewResponse(toProtoGroupSummary(summary)), nil
}

// GetUserSummary returns a user's position across groups.
func (s *LedgerService) GetUserSummary(ctx context.Context, req *connect.Request[ledgerv1.GetUserSummaryRequest]) (*connect.Response[ledgerv1.GetUserSummaryResponse], error) {
	callerID, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}

	userID := req.Msg.UserID
	if userID == "" {
		userID = callerID
	}
	if userID != callerID && !middleware.IsAdmin(ctx) {
		return nil, s.fail(ctx, "GetUserSummary", permissionDenied("cannot read the summary of another user"), "user_id", userID)
	}

	groupIDs := req.Msg.GroupIDs
	if len(groupIDs) == 0 {
		groupIDs, err = s.store.ListGroupIDs(ctx)
		if err != nil {
			return nil, s.fail(ctx, "GetUserSummary", err, "user_id", userID)
		}
	}

	summary, err := s.ledger.UserSummary(ctx, userID, groupIDs)
	if err != nil {
		return nil, s.fail(ctx, "GetUserSummary", err, "user_id", userID)
	}

	return connect.NewResponse(toProtoUserSummary(summary)), nil
}
