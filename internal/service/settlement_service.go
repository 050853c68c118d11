package service

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	ledgerv1 "github.com/mmynk/splitledger/pkg/api/ledgerv1"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// RecordSettlement persists a payment and applies it to the ledger in one transaction.
func (s *LedgerService) RecordSettlement(ctx context.Context, req *connect.Request[ledgerv1.RecordSettlementRequest]) (*connect.Response[ledgerv1.RecordSettlementResponse], error) {
	userID, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	payerID := msg.PayerID
	if payerID == "" {
		payerID = userID
	}

	s.logger.Info("RecordSettlement request received",
		"group_id", msg.GroupID,
		"payer_id", payerID,
		"receiver_id", msg.ReceiverID,
		"amount", msg.Amount.String(),
	)

	switch {
	case msg.GroupID == "":
		err = invalidArgument("group_id is required")
	case msg.ReceiverID == "":
		err = invalidArgument("receiver_id is required")
	case payerID == msg.ReceiverID:
		err = invalidArgument("payer and receiver must be different users")
	case !msg.Amount.IsPositive():
		err = invalidArgument("amount must be positive, got %s", msg.Amount)
	case !calculator.IsWholeCents(msg.Amount):
		err = invalidArgument("amount %s has more than two decimal places", msg.Amount)
	}
	if err != nil {
		return nil, s.fail(ctx, "RecordSettlement", err, "group_id", msg.GroupID)
	}

	var settlement *models.Settlement
	err = s.store.WriteTx(ctx, func(tx storage.Tx) error {
		settlement = &models.Settlement{
			GroupID:    msg.GroupID,
			PayerID:    payerID,
			ReceiverID: msg.ReceiverID,
			Amount:     msg.Amount,
			CreatedBy:  userID,
			Note:       strings.TrimSpace(msg.Note),
		}
		if err := tx.EnsureGroup(ctx, settlement.GroupID); err != nil {
			return err
		}
		if err := tx.CreateSettlement(ctx, settlement); err != nil {
			return err
		}
		return s.ledger.With(tx).ApplySettlement(ctx, settlement.GroupID, settlement.PayerID, settlement.ReceiverID, settlement.Amount)
	})
	if err != nil {
		return nil, s.fail(ctx, "RecordSettlement", err, "group_id", msg.GroupID)
	}

	s.logger.Info("Settlement recorded", "settlement_id", settlement.ID, "group_id", settlement.GroupID)

	return connect.NewResponse(&ledgerv1.RecordSettlementResponse{
		Settlement: toProtoSettlement(settlement),
	}), nil
}

// DeleteSettlement removes a settlement and reverses its ledger effect.
// The creator, payer or receiver may delete it.
func (s *LedgerService) DeleteSettlement(ctx context.Context, req *connect.Request[ledgerv1.DeleteSettlementRequest]) (*connect.Response[ledgerv1.DeleteSettlementResponse], error) {
	userID, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}

	settlementID := req.Msg.SettlementID
	s.logger.Info("DeleteSettlement request received", "settlement_id", settlementID)

	if settlementID == "" {
		return nil, s.fail(ctx, "DeleteSettlement", invalidArgument("settlement_id is required"))
	}

	err = s.store.WriteTx(ctx, func(tx storage.Tx) error {
		existing, err := tx.GetSettlement(ctx, settlementID)
		if err != nil {
			return err
		}
		if userID != existing.CreatedBy && userID != existing.PayerID && userID != existing.ReceiverID {
			return permissionDenied("only a party to settlement %s can delete it", existing.ID)
		}

		if err := s.ledger.With(tx).ReverseSettlement(ctx, existing.GroupID, existing.PayerID, existing.ReceiverID, existing.Amount); err != nil {
			return err
		}
		return tx.DeleteSettlement(ctx, settlementID)
	})
	if err != nil {
		return nil, s.fail(ctx, "DeleteSettlement", err, "settlement_id", settlementID)
	}

	s.logger.Info("Settlement deleted", "settlement_id", settlementID)

	return connect.NewResponse(&ledgerv1.DeleteSettlementResponse{}), nil
}

// ListSettlements returns a page of a group's settlements, newest first.
func (s *LedgerService) ListSettlements(ctx context.Context, req *connect.Request[ledgerv1.ListSettlementsRequest]) (*connect.Response[ledgerv1.ListSettlementsResponse], error) {
	if _, err := requireCaller(ctx); err != nil {
		return nil, err
	}

	msg := req.Msg
	if msg.GroupID == "" {
		return nil, s.fail(ctx, "ListSettlements", invalidArgument("group_id is required"))
	}
	if msg.Offset < 0 || msg.Limit < 0 {
		return nil, s.fail(ctx, "ListSettlements", invalidArgument("limit and offset must not be negative"))
	}

	limit := msg.Limit
	if limit == 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	settlements, total, err := s.store.ListSettlementsPage(ctx, msg.GroupID, limit, msg.Offset)
	if err != nil {
		return nil, s.fail(ctx, "ListSettlements", err, "group_id", msg.GroupID)
	}

	out := make([]*ledgerv1.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = toProtoSettlement(st)
	}

	return connect.NewResponse(&ledgerv1.ListSettlementsResponse{
		Settlements: out,
		Total:       total,
		HasMore:     msg.Offset+len(out) < total,
	}), nil
}
