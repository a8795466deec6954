package core_test

import (
	"testing"

	"jewelry-ledger/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftInventory() []core.JewelryItem {
	return []core.JewelryItem{
		{ID: "ring-7", Name: "Ruby Ring", Category: core.CategoryRing, SerialNo: "0007", Weight: d("5"), Price: d("30000"), Quantity: 2},
		{ID: "neck-1", Name: "Haaram", Category: core.CategoryNecklace, SerialNo: "0001", Weight: d("40"), Price: d("250000"), Quantity: 1},
	}
}

func TestDraftProposal_NormalizeAndResolve(t *testing.T) {
	p := core.DraftProposal{
		CustomerID:            " c0003 ",
		BillType:              "invoice",
		Lines:                 []core.DraftLine{{Category: "ring", SerialNo: "7"}, {Category: "Necklace", SerialNo: "0001", Quantity: 1}},
		LessWeight:            "null",
		ExtraChargePercentage: "",
		BargainedAmount:       "1,000",
		AmountPaid:            "",
	}
	p.Normalize()
	assert.Equal(t, "C0003", p.CustomerID)
	assert.Equal(t, "INVOICE", p.BillType)
	assert.Equal(t, "0007", p.Lines[0].SerialNo)
	assert.Equal(t, 1, p.Lines[0].Quantity)

	draft, err := p.ToDraft(draftInventory(), d("12"))
	require.NoError(t, err)
	assert.Equal(t, core.BillTypeInvoice, draft.Type)
	require.Len(t, draft.Items, 2)
	assert.Equal(t, "ring-7", draft.Items[0].ItemID)
	assertDecimal(t, "12", draft.ExtraChargePercentage, "default extra charge")
	assertDecimal(t, "1000", draft.BargainedAmount)
	assertDecimal(t, "0", draft.LessWeight)
}

func TestDraftProposal_Errors(t *testing.T) {
	tests := []struct {
		name    string
		p       core.DraftProposal
		wantErr error
	}{
		{
			name:    "unknown serial",
			p:       core.DraftProposal{CustomerID: "C0001", BillType: "ESTIMATE", Lines: []core.DraftLine{{Category: "Ring", SerialNo: "0099"}}},
			wantErr: core.ErrNotFound,
		},
		{
			name:    "bad amount",
			p:       core.DraftProposal{CustomerID: "C0001", BillType: "ESTIMATE", Lines: []core.DraftLine{{Category: "Ring", SerialNo: "7"}}, AmountPaid: "lots"},
			wantErr: core.ErrValidation,
		},
		{
			name:    "no lines",
			p:       core.DraftProposal{CustomerID: "C0001", BillType: "ESTIMATE"},
			wantErr: core.ErrValidation,
		},
		{
			name:    "bad bill type",
			p:       core.DraftProposal{CustomerID: "C0001", BillType: "QUOTE", Lines: []core.DraftLine{{Category: "Ring", SerialNo: "7"}}},
			wantErr: core.ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.p.Normalize()
			_, err := tt.p.ToDraft(draftInventory(), d("0"))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
