package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sourcingops/backend/internal/domain/sourcing"
)

// OrderLineModel is the persistence model for the OrderLine domain entity.
// row_index preserves import order, which the sheet view relies on.
type OrderLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	SheetID     string          `gorm:"type:varchar(100);not null;index:idx_order_lines_sheet"`
	RowIndex    int             `gorm:"not null;default:0"`
	OfferID     string          `gorm:"type:varchar(100);index"`
	OptionColor string          `gorm:"type:varchar(200)"`
	OptionSize  string          `gorm:"type:varchar(200)"`
	Quantity    int             `gorm:"not null;default:0"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OrderNumber string          `gorm:"type:varchar(200);index"`
	Note        string          `gorm:"type:text"`
	CancelMark  string          `gorm:"type:varchar(50)"`
	ImageURL    string          `gorm:"type:text"`

	DeliveryStatus string     `gorm:"type:varchar(50)"`
	Carrier        string     `gorm:"type:varchar(100)"`
	TrackingNo     string     `gorm:"type:varchar(100)"`
	DeliveredAt    *time.Time `gorm:""`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the persistence model to a domain OrderLine entity.
func (m *OrderLineModel) ToDomain() *sourcing.OrderLine {
	return &sourcing.OrderLine{
		ID:             m.ID,
		SheetID:        m.SheetID,
		OfferID:        m.OfferID,
		OptionColor:    m.OptionColor,
		OptionSize:     m.OptionSize,
		Quantity:       m.Quantity,
		UnitCost:       m.UnitCost,
		OrderNumber:    m.OrderNumber,
		Note:           m.Note,
		CancelMark:     m.CancelMark,
		ImageURL:       m.ImageURL,
		DeliveryStatus: m.DeliveryStatus,
		Carrier:        m.Carrier,
		TrackingNo:     m.TrackingNo,
		DeliveredAt:    m.DeliveredAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// OrderLineFromDomain converts a domain OrderLine to its persistence model.
func OrderLineFromDomain(l *sourcing.OrderLine, rowIndex int) *OrderLineModel {
	return &OrderLineModel{
		ID:             l.ID,
		SheetID:        l.SheetID,
		RowIndex:       rowIndex,
		OfferID:        l.OfferID,
		OptionColor:    l.OptionColor,
		OptionSize:     l.OptionSize,
		Quantity:       l.Quantity,
		UnitCost:       l.UnitCost,
		OrderNumber:    l.OrderNumber,
		Note:           l.Note,
		CancelMark:     l.CancelMark,
		ImageURL:       l.ImageURL,
		DeliveryStatus: l.DeliveryStatus,
		Carrier:        l.Carrier,
		TrackingNo:     l.TrackingNo,
		DeliveredAt:    l.DeliveredAt,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// VerificationLineModel is one persisted row of a sheet's verification
// snapshot. The snapshot is always replaced wholesale, so rows carry the
// load timestamp instead of a separate header table.
type VerificationLineModel struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	SheetID   string          `gorm:"type:varchar(100);not null;index:idx_verification_sheet"`
	RowIndex  int             `gorm:"not null;default:0"`
	OfferID   string          `gorm:"type:varchar(100);index"`
	OptionRaw string          `gorm:"type:varchar(400)"`
	Quantity  int             `gorm:"not null;default:0"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ImageURL  string          `gorm:"type:text"`
	LoadedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (VerificationLineModel) TableName() string {
	return "verification_lines"
}

// ToDomain converts the persistence model to a domain VerificationLine.
func (m *VerificationLineModel) ToDomain() sourcing.VerificationLine {
	return sourcing.VerificationLine{
		OfferID:   m.OfferID,
		OptionRaw: m.OptionRaw,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		ImageURL:  m.ImageURL,
	}
}

// VerificationLineFromDomain converts a domain VerificationLine to its
// persistence model.
func VerificationLineFromDomain(sheetID string, rowIndex int, l sourcing.VerificationLine, loadedAt time.Time) *VerificationLineModel {
	return &VerificationLineModel{
		SheetID:   sheetID,
		RowIndex:  rowIndex,
		OfferID:   l.OfferID,
		OptionRaw: l.OptionRaw,
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice,
		ImageURL:  l.ImageURL,
		LoadedAt:  loadedAt,
	}
}

// DeliveryRecordModel is one persisted row of the delivery registry.
type DeliveryRecordModel struct {
	ID                   uint       `gorm:"primaryKey;autoIncrement"`
	RowIndex             int        `gorm:"not null;default:0"`
	CanonicalOrderNumber string     `gorm:"type:varchar(200);not null;index:idx_delivery_order_number"`
	StatusCode           string     `gorm:"type:varchar(50)"`
	Carrier              string     `gorm:"type:varchar(100)"`
	TrackingNo           string     `gorm:"type:varchar(100)"`
	DeliveredAt          *time.Time `gorm:""`
	CreatedAt            time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DeliveryRecordModel) TableName() string {
	return "delivery_records"
}

// ToDomain converts the persistence model to a domain DeliveryRecord.
func (m *DeliveryRecordModel) ToDomain() sourcing.DeliveryRecord {
	return sourcing.DeliveryRecord{
		CanonicalOrderNumber: m.CanonicalOrderNumber,
		StatusCode:           m.StatusCode,
		Carrier:              m.Carrier,
		TrackingNo:           m.TrackingNo,
		DeliveredAt:          m.DeliveredAt,
	}
}

// DeliveryRecordFromDomain converts a domain DeliveryRecord to its
// persistence model.
func DeliveryRecordFromDomain(rowIndex int, r sourcing.DeliveryRecord) *DeliveryRecordModel {
	return &DeliveryRecordModel{
		RowIndex:             rowIndex,
		CanonicalOrderNumber: r.CanonicalOrderNumber,
		StatusCode:           r.StatusCode,
		Carrier:              r.Carrier,
		TrackingNo:           r.TrackingNo,
		DeliveredAt:          r.DeliveredAt,
		CreatedAt:            time.Now(),
	}
}
