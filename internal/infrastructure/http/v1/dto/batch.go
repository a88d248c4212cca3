package dto

import (
	"galen/internal/core/batch"
	"galen/internal/domain/batchalloc"
)

// AllocateBatchRequest is the request body for allocating batch codes
// to a production order. Input is either a single code fragment
// ("045", "045A", "ABC24100") or an inclusive range ("045-047",
// "045A-047A"). An empty input is accepted and allocates nothing.
type AllocateBatchRequest struct {
	Input string `json:"input"`
}

// AllocationResponse reports the result of an allocation.
type AllocationResponse struct {
	Codes          []string `json:"codes"`
	PrimaryOrderID string   `json:"primaryOrderId"`
	ClonedOrderIDs []string `json:"clonedOrderIds"`
}

// FromOutcome creates response DTO from an allocation outcome.
func FromOutcome(out batchalloc.Outcome) *AllocationResponse {
	cloned := make([]string, len(out.ClonedOrderIDs))
	for i, cid := range out.ClonedOrderIDs {
		cloned[i] = cid.String()
	}
	return &AllocationResponse{
		Codes:          out.CodeStrings(),
		PrimaryOrderID: out.PrimaryOrderID.String(),
		ClonedOrderIDs: cloned,
	}
}

// NextCodeResponse carries the suggested next code for a category.
type NextCodeResponse struct {
	Category batch.Category `json:"category"`
	Code     string         `json:"code"`
}
