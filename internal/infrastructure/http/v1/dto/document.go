package dto

import (
	"time"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
	"minibooks/internal/domain/documents"
)

// DocumentItemRequest is one line of a document request. For adjustments,
// quantity is the system (book) quantity and actualQuantity the counted one;
// prices are ignored. For the other kinds actualQuantity must be absent.
type DocumentItemRequest struct {
	ProductID      string          `json:"productId" binding:"required"`
	Quantity       types.Quantity  `json:"quantity"`
	ActualQuantity *types.Quantity `json:"actualQuantity"`
	UnitPrice      types.Money     `json:"unitPrice"`
	Discount       types.Money     `json:"discount"`
}

// CreateDocumentRequest for creating a draft document of any kind.
type CreateDocumentRequest struct {
	Kind           string                `json:"kind" binding:"required"`
	CounterpartyID *string               `json:"counterpartyId"`
	Date           *time.Time            `json:"date"`
	Tax            types.Money           `json:"tax"`
	Comment        string                `json:"comment"`
	Items          []DocumentItemRequest `json:"items" binding:"required"`
}

// ToEntity maps the request to a draft document.
func (r CreateDocumentRequest) ToEntity() (*documents.Document, error) {
	kind := documents.Kind(r.Kind)

	var counterpartyID *id.ID
	if r.CounterpartyID != nil {
		parsed, err := id.Parse(*r.CounterpartyID)
		if err != nil {
			return nil, apperror.NewValidation("invalid counterpartyId format")
		}
		counterpartyID = &parsed
	}

	doc := documents.New(kind, counterpartyID)
	if r.Date != nil {
		doc.Date = *r.Date
	}
	doc.Tax = r.Tax
	doc.Comment = r.Comment

	if err := applyItems(doc, kind, r.Items); err != nil {
		return nil, err
	}

	return doc, nil
}

// UpdateDocumentRequest replaces the editable fields of a draft. Kind,
// number, and status are not editable.
type UpdateDocumentRequest struct {
	CounterpartyID *string               `json:"counterpartyId"`
	Date           *time.Time            `json:"date"`
	Tax            types.Money           `json:"tax"`
	Comment        string                `json:"comment"`
	Items          []DocumentItemRequest `json:"items" binding:"required"`
	Version        int                   `json:"version" binding:"required,min=1"`
}

// ApplyTo maps the request onto an existing draft.
func (r UpdateDocumentRequest) ApplyTo(doc *documents.Document) error {
	if r.CounterpartyID != nil {
		parsed, err := id.Parse(*r.CounterpartyID)
		if err != nil {
			return apperror.NewValidation("invalid counterpartyId format")
		}
		doc.CounterpartyID = &parsed
	}
	if r.Date != nil {
		doc.Date = *r.Date
	}
	doc.Tax = r.Tax
	doc.Comment = r.Comment
	doc.Version = r.Version

	doc.Items = doc.Items[:0]
	if err := applyItems(doc, doc.Kind, r.Items); err != nil {
		return err
	}
	doc.RecalculateTotals()

	return nil
}

func applyItems(doc *documents.Document, kind documents.Kind, items []DocumentItemRequest) error {
	for i, item := range items {
		productID, err := id.Parse(item.ProductID)
		if err != nil {
			return apperror.NewValidation("invalid productId format").
				WithDetail("lineNo", i+1)
		}

		if kind == documents.KindAdjustment {
			if item.ActualQuantity == nil {
				return apperror.NewValidation("actual quantity is required").
					WithDetail("lineNo", i+1)
			}
			doc.AddAdjustmentItem(productID, item.Quantity, *item.ActualQuantity)
			continue
		}

		doc.AddItem(productID, item.Quantity, item.UnitPrice, item.Discount)
	}
	return nil
}
