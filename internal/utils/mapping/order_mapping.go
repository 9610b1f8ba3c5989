package mapping

import (
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/SscSPs/smb_books_app/internal/models"
)

// ToModelOrder converts a domain Order header to a model Order
func ToModelOrder(d domain.Order, partyID string) models.Order {
	return models.Order{
		OrderID:       d.OrderID,
		CompanyID:     d.CompanyID,
		PartyID:       partyID,
		OrderDate:     d.OrderDate,
		Status:        string(d.Status),
		PaymentMethod: string(d.PaymentMethod),
		TotalAmount:   d.TotalAmount,
		Remark:        d.Remark,
		PostedBy:      NullableString(d.PostedBy),
		PostedAt:      d.PostedAt,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainOrder converts a model Order and its items to a domain Order
func ToDomainOrder(kind domain.OrderKind, m models.Order, items []models.OrderItem) domain.Order {
	return domain.Order{
		OrderID:       m.OrderID,
		CompanyID:     m.CompanyID,
		Kind:          kind,
		OrderDate:     m.OrderDate,
		Status:        domain.OrderStatus(m.Status),
		PaymentMethod: domain.PaymentMethod(m.PaymentMethod),
		TotalAmount:   m.TotalAmount,
		Remark:        m.Remark,
		Items:         ToDomainOrderItems(items),
		PostedBy:      StringValue(m.PostedBy),
		PostedAt:      m.PostedAt,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelOrderItem converts a domain OrderItem to a model OrderItem
func ToModelOrderItem(d domain.OrderItem) models.OrderItem {
	return models.OrderItem{
		ItemID:       d.ItemID,
		OrderID:      d.OrderID,
		LineNo:       d.LineNo,
		ProductID:    NullableString(d.ProductID),
		Description:  d.Description,
		Quantity:     d.Quantity,
		UnitPrice:    d.UnitPrice,
		DiscountRate: d.DiscountRate,
		Subtotal:     d.Subtotal,
	}
}

// ToDomainOrderItems converts model OrderItems to domain OrderItems
func ToDomainOrderItems(ms []models.OrderItem) []domain.OrderItem {
	ds := make([]domain.OrderItem, len(ms))
	for i, m := range ms {
		ds[i] = domain.OrderItem{
			ItemID:       m.ItemID,
			OrderID:      m.OrderID,
			LineNo:       m.LineNo,
			ProductID:    StringValue(m.ProductID),
			Description:  m.Description,
			Quantity:     m.Quantity,
			UnitPrice:    m.UnitPrice,
			DiscountRate: m.DiscountRate,
			Subtotal:     m.Subtotal,
		}
	}
	return ds
}
