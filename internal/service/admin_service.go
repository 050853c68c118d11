package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/middleware"
	ledgerv1 "github.com/mmynk/splitledger/pkg/api/ledgerv1"
)

// requireAdmin returns the caller's user ID if they carry the admin claim.
func requireAdmin(ctx context.Context) (string, error) {
	userID, err := requireCaller(ctx)
	if err != nil {
		return "", err
	}
	if !middleware.IsAdmin(ctx) {
		return "", permissionDenied("admin privileges required")
	}
	return userID, nil
}

// ReconcileGroup compares the live ledger of a group with the ledger its
// history implies. A mismatch is reported in the response, not as an error.
func (s *LedgerService) ReconcileGroup(ctx context.Context, req *connect.Request[ledgerv1.ReconcileGroupRequest]) (*connect.Response[ledgerv1.ReconcileGroupResponse], error) {
	groupID := req.Msg.GroupID

	userID, err := requireAdmin(ctx)
	if err != nil {
		return nil, s.fail(ctx, "ReconcileGroup", err, "group_id", groupID)
	}
	if groupID == "" {
		return nil, s.fail(ctx, "ReconcileGroup", invalidArgument("group_id is required"))
	}

	s.logger.Info("ReconcileGroup request received", "group_id", groupID, "user_id", userID)

	report, err := s.reconciler.Reconcile(ctx, groupID)
	if err != nil {
		return nil, s.fail(ctx, "ReconcileGroup", err, "group_id", groupID)
	}

	return connect.NewResponse(toProtoReport(report)), nil
}

// RebuildGroup replaces the live ledger of a group with the recomputed one.
// The request must set confirm; the caller is recorded as the actor.
func (s *LedgerService) RebuildGroup(ctx context.Context, req *connect.Request[ledgerv1.RebuildGroupRequest]) (*connect.Response[ledgerv1.RebuildGroupResponse], error) {
	groupID := req.Msg.GroupID

	userID, err := requireAdmin(ctx)
	if err != nil {
		return nil, s.fail(ctx, "RebuildGroup", err, "group_id", groupID)
	}
	switch {
	case groupID == "":
		err = invalidArgument("group_id is required")
	case !req.Msg.Confirm:
		err = invalidArgument("rebuild is destructive and requires confirm=true")
	}
	if err != nil {
		return nil, s.fail(ctx, "RebuildGroup", err, "group_id", groupID)
	}

	s.logger.Warn("RebuildGroup request received", "group_id", groupID, "user_id", userID)

	result, err := s.reconciler.Rebuild(ctx, groupID, userID)
	if err != nil {
		return nil, s.fail(ctx, "RebuildGroup", err, "group_id", groupID)
	}

	return connect.NewResponse(&ledgerv1.RebuildGroupResponse{
		GroupID:     result.GroupID,
		AuditID:     result.AuditID,
		EdgesBefore: result.EdgesBefore,
		EdgesAfter:  result.EdgesAfter,
		Edges:       toProtoEdges(result.After),
		RebuiltBy:   result.RebuiltBy,
		RebuiltAt:   result.RebuiltAt.Unix(),
	}), nil
}

// DeleteGroup removes a group with its expenses, settlements and ledger. The
// request must set confirm; the ledger as it stood goes to the audit trail.
func (s *LedgerService) DeleteGroup(ctx context.Context, req *connect.Request[ledgerv1.DeleteGroupRequest]) (*connect.Response[ledgerv1.DeleteGroupResponse], error) {
	groupID := req.Msg.GroupID

	userID, err := requireAdmin(ctx)
	if err != nil {
		return nil, s.fail(ctx, "DeleteGroup", err, "group_id", groupID)
	}
	switch {
	case groupID == "":
		err = invalidArgument("group_id is required")
	case !req.Msg.Confirm:
		err = invalidArgument("deleting a group is destructive and requires confirm=true")
	}
	if err != nil {
		return nil, s.fail(ctx, "DeleteGroup", err, "group_id", groupID)
	}

	s.logger.Warn("DeleteGroup request received", "group_id", groupID, "user_id", userID)

	entry, err := s.ledger.DeleteGroup(ctx, groupID, userID)
	if err != nil {
		return nil, s.fail(ctx, "DeleteGroup", err, "group_id", groupID)
	}

	return connect.NewResponse(&ledgerv1.DeleteGroupResponse{
		GroupID:      groupID,
		AuditID:      entry.ID,
		EdgesRemoved: len(entry.Before),
		Edges:        toProtoEdges(entry.Before),
		DeletedBy:    userID,
	}), nil
}
