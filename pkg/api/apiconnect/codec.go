// Package apiconnect wires the freightledger.v1 services into Connect handlers
// and clients. Messages are the plain structs of package api, carried by a
// JSON codec registered under the "json" name.
package apiconnect

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// codecName replaces Connect's protobuf-only JSON codec.
const codecName = "json"

type jsonCodec struct{}

func (jsonCodec) Name() string { return codecName }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", msg, err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", msg, err)
	}
	return nil
}

// Codec returns the option that installs the JSON codec. Handlers and clients
// built by this package include it already.
func Codec() connect.Option {
	return connect.WithCodec(jsonCodec{})
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{Codec()}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{Codec()}, opts...)
}

// LedgerProcedures are the mutating procedures only ledger roles (ADMIN, CEO,
// ACCOUNTING) may call. Pass them to middleware.RequireLedgerRole.
var LedgerProcedures = []string{
	SettlementServiceCreateSettlementProcedure,
	SettlementServiceFinalizeSettlementProcedure,
	SettlementServiceMarkSettlementPaidProcedure,
	FundServiceDepositProcedure,
	FundServiceWithdrawProcedure,
	FundServiceAdjustProcedure,
	CarrierPayServiceApproveCarrierPayProcedure,
	CarrierPayServiceRejectCarrierPayProcedure,
	IntakeServiceUpsertCarrierProcedure,
	IntakeServiceCreateCarrierPayProcedure,
	IntakeServiceRecordInvoiceProcedure,
	IntakeServiceUpdateDocumentsProcedure,
}
