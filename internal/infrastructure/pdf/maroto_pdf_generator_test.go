package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/report"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/pdf"
)

func TestGenerateRequestPDF(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	req := &entity.MaterialRequest{
		ID: "r1", Folio: "MR-000007", TicketID: "TCK-42", RequestedBy: "tec-1",
		Status: entity.RequestStatusApproved, ApprovedBy: "bod-1", ApprovedAt: &now,
		FulfillmentLocationID: "W", Notes: "urgente", CreatedAt: now,
		Items: []entity.MaterialRequestItem{
			{ItemID: "I1", QuantityRequested: decimal.NewFromInt(10), QuantityApproved: decimal.NewFromInt(8)},
			{ItemID: "I2", QuantityRequested: decimal.RequireFromString("2.5")},
		},
	}
	doc := report.RequestDocument{
		Request:  req,
		Items:    map[string]*entity.Item{"I1": {ID: "I1", Code: "CAB-12", Description: "Cable calibre 12"}},
		Location: &entity.Location{ID: "W", Code: "BOD", Name: "Bodega central"},
	}

	out, err := pdf.NewMarotoPDFGenerator("Almacén Central").GenerateRequestPDF(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateItemLabel(t *testing.T) {
	item := &entity.Item{ID: "I1", Code: "CAB-12", Description: "Cable calibre 12", QRCode: "ALM-0001"}

	out, err := pdf.NewMarotoPDFGenerator("").GenerateItemLabel(context.Background(), item)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
