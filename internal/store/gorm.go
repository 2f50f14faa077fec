package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rezonia/invoice-finalizer/internal/config"
	"github.com/rezonia/invoice-finalizer/internal/model"
)

// InvoiceRecord is the database row for a finalized invoice
type InvoiceRecord struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	Number      string          `gorm:"size:100;uniqueIndex;not null"`
	IssuedAt    time.Time       `gorm:"not null;index"`
	SellerName  string          `gorm:"size:255"`
	SellerTaxID string          `gorm:"size:255"`
	Items       string          `gorm:"type:text;not null"` // JSON array of line items
	NetTotal    decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	TaxTotal    decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	GrossTotal  decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	QRCode      string          `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BeforeCreate generates a UUID before creating a new record
func (r *InvoiceRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (InvoiceRecord) TableName() string {
	return "invoices"
}

// NewInvoiceRecord maps a finalized invoice to its row
func NewInvoiceRecord(inv *model.Invoice) (*InvoiceRecord, error) {
	items := inv.Items
	if items == nil {
		items = []model.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode items: %w", err)
	}

	return &InvoiceRecord{
		Number:      inv.Number,
		IssuedAt:    inv.IssuedAt.UTC(),
		SellerName:  inv.Seller.Name,
		SellerTaxID: inv.Seller.TaxID,
		Items:       string(data),
		NetTotal:    inv.Totals.Net,
		TaxTotal:    inv.Totals.Tax,
		GrossTotal:  inv.Totals.Gross(),
		QRCode:      inv.QRCode,
	}, nil
}

// Invoice maps the row back to a finalized invoice
func (r *InvoiceRecord) Invoice() (*model.Invoice, error) {
	var items []model.LineItem
	if err := json.Unmarshal([]byte(r.Items), &items); err != nil {
		return nil, fmt.Errorf("failed to decode items of %s: %w", r.Number, err)
	}
	if items == nil {
		items = []model.LineItem{}
	}

	return &model.Invoice{
		Number:   r.Number,
		IssuedAt: r.IssuedAt.UTC(),
		Seller: model.Party{
			Name:  r.SellerName,
			TaxID: r.SellerTaxID,
		},
		Items: items,
		Totals: model.Totals{
			Net: r.NetTotal,
			Tax: r.TaxTotal,
		},
		QRCode: r.QRCode,
	}, nil
}

// Open connects to PostgreSQL
func Open(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if debug {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	slog.Info("connected to database", "host", cfg.Host, "dbname", cfg.Name)
	return db, nil
}

// AutoMigrate creates or updates the invoices table
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&InvoiceRecord{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// GormRepository stores invoices through gorm
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Save(ctx context.Context, inv *model.Invoice) error {
	rec, err := NewInvoiceRecord(inv)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Create(rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateNumber
	}
	return err
}

func (r *GormRepository) GetByNumber(ctx context.Context, number string) (*model.Invoice, error) {
	var rec InvoiceRecord
	err := r.db.WithContext(ctx).First(&rec, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.Invoice()
}

func (r *GormRepository) List(ctx context.Context, params ListParams) ([]model.Invoice, error) {
	params = params.Normalize()

	var recs []InvoiceRecord
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	out := make([]model.Invoice, 0, len(recs))
	for i := range recs {
		inv, err := recs[i].Invoice()
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, nil
}
