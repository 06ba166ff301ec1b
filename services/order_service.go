package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yeremiapane/storefront-api/models"
	"github.com/yeremiapane/storefront-api/utils"
)

const maxOrderNumberAttempts = 5

type CreateOrderItemInput struct {
	ProductID        uint   `json:"productId" binding:"required"`
	ProductVariantID uint   `json:"productVariantId" binding:"required"`
	Quantity         int    `json:"quantity" binding:"required,min=1"`
	Notes            string `json:"notes" binding:"max=1000"`
}

type CreateOrderInput struct {
	CustomerName        string                 `json:"customerName" binding:"required,max=255"`
	CustomerWhatsapp    string                 `json:"customerWhatsapp" binding:"required,max=30"`
	CustomerAddress     string                 `json:"customerAddress" binding:"required"`
	CustomerCoordinates *string                `json:"customerCoordinates" binding:"omitempty,max=100"`
	ShippingMethod      string                 `json:"shippingMethod" binding:"required,oneof=express pickup"`
	DeliveryDay         *string                `json:"deliveryDay" binding:"omitempty,oneof=selasa kamis sabtu"`
	PaymentMethod       string                 `json:"paymentMethod" binding:"required,oneof=transfer cod"`
	CustomerID          *uint                  `json:"customerId"`
	Items               []CreateOrderItemInput `json:"items" binding:"required,min=1,dive"`
	Notes               string                 `json:"notes" binding:"max=2000"`
}

// Validate merapikan spasi lalu memeriksa semua field
func (in *CreateOrderInput) Validate() error {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerWhatsapp = strings.TrimSpace(in.CustomerWhatsapp)
	in.CustomerAddress = strings.TrimSpace(in.CustomerAddress)
	in.ShippingMethod = strings.ToLower(strings.TrimSpace(in.ShippingMethod))
	in.PaymentMethod = strings.ToLower(strings.TrimSpace(in.PaymentMethod))
	if in.DeliveryDay != nil {
		day := strings.ToLower(strings.TrimSpace(*in.DeliveryDay))
		in.DeliveryDay = &day
		if day == "" {
			in.DeliveryDay = nil
		}
	}
	return validateStruct(in)
}

type OrderListQuery struct {
	Page       int
	Limit      int
	Status     string
	CustomerID *uint
}

type OrderPage struct {
	Orders     []models.Order   `json:"orders"`
	Pagination utils.Pagination `json:"pagination"`
}

// OrderService menangani pembuatan order, perubahan status dan pembatalan
type OrderService struct {
	db             *gorm.DB
	notifier       Notifier
	mailer         Mailer
	events         EventPublisher
	shipping       ShippingPolicy
	newOrderNumber OrderNumberFunc
	now            func() time.Time
}

func NewOrderService(db *gorm.DB, notifier Notifier, mailer Mailer, events EventPublisher, shippingFee decimal.Decimal) *OrderService {
	return &OrderService{
		db:             db,
		notifier:       notifier,
		mailer:         mailer,
		events:         events,
		shipping:       ShippingPolicy{ExpressFee: shippingFee},
		newOrderNumber: DefaultOrderNumber,
		now:            time.Now,
	}
}

// SetOrderNumberGenerator mengganti generator nomor order (dipakai di test)
func (s *OrderService) SetOrderNumberGenerator(fn OrderNumberFunc) {
	s.newOrderNumber = fn
}

// CreateOrder -> validasi, resolve harga terkini dari katalog, hitung total, simpan, lalu side effect
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	// Semua item di-resolve dulu, belum ada row yang ditulis
	items, err := s.resolveItems(db, in.Items)
	if err != nil {
		return nil, err
	}

	subtotal := Subtotal(items)
	shippingCost := s.shipping.Cost(in.ShippingMethod)

	order := &models.Order{
		CustomerID:          in.CustomerID,
		CustomerName:        in.CustomerName,
		CustomerWhatsapp:    in.CustomerWhatsapp,
		CustomerAddress:     in.CustomerAddress,
		CustomerCoordinates: in.CustomerCoordinates,
		ShippingMethod:      in.ShippingMethod,
		DeliveryDay:         in.DeliveryDay,
		PaymentMethod:       in.PaymentMethod,
		Subtotal:            subtotal,
		ShippingCost:        shippingCost,
		TotalAmount:         subtotal.Add(shippingCost),
		Status:              models.OrderStatusPending,
		Notes:               strings.TrimSpace(in.Notes),
		OrderItems:          items,
	}
	// Hari pengiriman tidak berlaku untuk pickup
	if order.ShippingMethod == models.ShippingPickup {
		order.DeliveryDay = nil
	}

	if err := s.insertOrder(db, order); err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total_amount": order.TotalAmount.String(),
	}).Info("Order created")

	s.fanOut(ctx, order, s.orderCreatedEffects(order))
	return order, nil
}

type catalogRow struct {
	ProductName   string
	VariantWeight string
	VariantPrice  decimal.Decimal
}

func (s *OrderService) resolveItems(db *gorm.DB, reqItems []CreateOrderItemInput) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(reqItems))
	for _, reqItem := range reqItems {
		var row catalogRow
		res := db.Table("product_variants").
			Select("products.name AS product_name, product_variants.weight AS variant_weight, product_variants.price AS variant_price").
			Joins("JOIN products ON products.id = product_variants.product_id").
			Where("product_variants.id = ? AND product_variants.product_id = ?", reqItem.ProductVariantID, reqItem.ProductID).
			Limit(1).
			Scan(&row)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, &NotFoundError{
				Err:    ErrProductNotFound,
				Entity: fmt.Sprintf("product %d with variant %d", reqItem.ProductID, reqItem.ProductVariantID),
			}
		}

		items = append(items, models.OrderItem{
			ProductID:            reqItem.ProductID,
			ProductVariantID:     reqItem.ProductVariantID,
			ProductName:          row.ProductName,
			ProductVariantWeight: row.VariantWeight,
			UnitPrice:            row.VariantPrice,
			Quantity:             reqItem.Quantity,
			TotalPrice:           LineTotal(row.VariantPrice, reqItem.Quantity),
			Notes:                strings.TrimSpace(reqItem.Notes),
		})
	}
	return items, nil
}

// insertOrder menyimpan order + item dalam satu transaksi, nomor order yang bentrok diganti lalu dicoba lagi
func (s *OrderService) insertOrder(db *gorm.DB, order *models.Order) error {
	for attempt := 1; attempt <= maxOrderNumberAttempts; attempt++ {
		order.OrderNumber = s.newOrderNumber(s.now())

		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(order).Error
		})
		if err == nil {
			return nil
		}
		if !isDuplicateKey(err) {
			return err
		}

		utils.ErrorLogger.WithFields(logrus.Fields{
			"order_number": order.OrderNumber,
			"attempt":      attempt,
		}).Warn("Order number collision, retrying")

		order.ID = 0
		for i := range order.OrderItems {
			order.OrderItems[i].ID = 0
			order.OrderItems[i].OrderID = 0
		}
	}
	return ErrOrderNumberExhausted
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}

// GetOrder -> detail order beserta item dan gambar produk
func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	db := s.db.WithContext(ctx)

	var order models.Order
	if err := db.Preload("OrderItems").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if err := s.attachProductImages(db, order.OrderItems); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) attachProductImages(db *gorm.DB, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	var products []models.Product
	if err := db.Select("id", "image_url").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return err
	}
	images := make(map[uint]string, len(products))
	for _, p := range products {
		images[p.ID] = p.ImageURL
	}
	for i := range items {
		items[i].ProductImage = images[items[i].ProductID]
	}
	return nil
}

// ListOrders -> daftar order terbaru dengan pagination dan filter status
func (s *OrderService) ListOrders(ctx context.Context, q OrderListQuery) (*OrderPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	q.Status = strings.ToLower(strings.TrimSpace(q.Status))
	if q.Status != "" && !models.IsValidOrderStatus(q.Status) {
		return nil, newValidationError("status", "must be one of ["+strings.Join(models.OrderStatuses, " ")+"]")
	}

	query := s.db.WithContext(ctx).Model(&models.Order{})
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.CustomerID != nil {
		query = query.Where("customer_id = ?", *q.CustomerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0)
	if err := query.Preload("OrderItems").
		Order("created_at DESC").
		Order("id DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}

	return &OrderPage{
		Orders:     orders,
		Pagination: utils.NewPagination(q.Page, q.Limit, total),
	}, nil
}

// UpdateStatus dipakai admin, semua status di enum boleh diset kapan saja
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !models.IsValidOrderStatus(status) {
		return nil, newValidationError("status", "must be one of ["+strings.Join(models.OrderStatuses, " ")+"]")
	}

	db := s.db.WithContext(ctx)

	var order models.Order
	if err := db.Preload("OrderItems").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	previous := order.Status
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", status).Error; err != nil {
		return nil, err
	}
	order.Status = status

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"from":     previous,
		"to":       status,
	}).Info("Order status updated")

	effects := []sideEffect{s.publishEffect(&order, EventOrderStatusChanged)}
	if msg, ok := customerStatusMessages[status]; ok && order.CustomerID != nil {
		customerID := *order.CustomerID
		effects = append(effects, sideEffect{
			name: "customer_notification",
			run: func(ctx context.Context) error {
				return s.notifier.NotifyCustomer(ctx, customerID, models.CustomerNotifOrderStatus,
					msg.title, fmt.Sprintf(msg.message, order.OrderNumber), &order.ID)
			},
		})
	}
	s.fanOut(ctx, &order, effects)

	return &order, nil
}

// CancelOrder dipakai customer, hanya order miliknya yang masih pending
func (s *OrderService) CancelOrder(ctx context.Context, orderID, customerID uint) (*models.Order, error) {
	db := s.db.WithContext(ctx)

	var order models.Order
	if err := db.Preload("OrderItems").
		Where("id = ? AND customer_id = ?", orderID, customerID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.Status != models.OrderStatusPending {
		return nil, ErrOrderNotCancellable
	}

	// Update bersyarat supaya dua cancel bersamaan tidak sama-sama sukses
	res := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, models.OrderStatusPending).
		Update("status", models.OrderStatusCancelled)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrOrderNotCancellable
	}
	order.Status = models.OrderStatusCancelled

	s.fanOut(ctx, &order, []sideEffect{
		{
			name: "admin_notification",
			run: func(ctx context.Context) error {
				return s.notifier.NotifyAdmins(ctx, models.AdminNotifOrderCancelled, "Pesanan Dibatalkan",
					fmt.Sprintf("Pesanan %s dibatalkan oleh %s", order.OrderNumber, order.CustomerName), &order.ID)
			},
		},
		s.publishEffect(&order, EventOrderCancelled),
	})

	return &order, nil
}

// DeleteOrder menghapus order beserta item-nya
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, orderID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotFound
		}
		return nil
	})
}

type statusMessage struct {
	title   string
	message string
}

// Tidak ada notifikasi untuk pending karena itu status awal
var customerStatusMessages = map[string]statusMessage{
	models.OrderStatusConfirmed:  {"Pesanan Dikonfirmasi", "Pesanan %s telah dikonfirmasi dan akan segera diproses."},
	models.OrderStatusProcessing: {"Pesanan Diproses", "Pesanan %s sedang diproses."},
	models.OrderStatusDelivered:  {"Pesanan Selesai", "Pesanan %s telah diterima. Terima kasih sudah berbelanja!"},
	models.OrderStatusCancelled:  {"Pesanan Dibatalkan", "Pesanan %s telah dibatalkan."},
}

type sideEffect struct {
	name string
	run  func(ctx context.Context) error
}

func (s *OrderService) orderCreatedEffects(order *models.Order) []sideEffect {
	effects := []sideEffect{
		{
			name: "admin_notification",
			run: func(ctx context.Context) error {
				return s.notifier.NotifyAdmins(ctx, models.AdminNotifNewOrder, "Pesanan Baru",
					fmt.Sprintf("Pesanan %s dari %s senilai %s", order.OrderNumber, order.CustomerName,
						utils.FormatCurrencyIDR(order.TotalAmount)), &order.ID)
			},
		},
		s.publishEffect(order, EventOrderCreated),
	}

	if order.CustomerID == nil {
		return effects
	}

	customerID := *order.CustomerID
	effects = append(effects,
		sideEffect{
			name: "customer_notification",
			run: func(ctx context.Context) error {
				return s.notifier.NotifyCustomer(ctx, customerID, models.CustomerNotifOrderPlaced, "Pesanan Diterima",
					fmt.Sprintf("Pesanan %s berhasil dibuat dan menunggu konfirmasi.", order.OrderNumber), &order.ID)
			},
		},
		sideEffect{
			name: "order_email",
			run: func(ctx context.Context) error {
				var customer models.Customer
				if err := s.db.WithContext(ctx).Select("id", "email").First(&customer, customerID).Error; err != nil {
					return err
				}
				if customer.Email == "" {
					return nil
				}
				return s.mailer.SendOrderConfirmation(ctx, customer.Email, order)
			},
		},
	)
	return effects
}

func (s *OrderService) publishEffect(order *models.Order, eventType string) sideEffect {
	return sideEffect{
		name: "order_event",
		run: func(ctx context.Context) error {
			return s.events.PublishOrderEvent(ctx, OrderEvent{
				EventID:     uuid.NewString(),
				Type:        eventType,
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				CustomerID:  order.CustomerID,
				Status:      order.Status,
				TotalAmount: order.TotalAmount,
				Timestamp:   s.now(),
			})
		},
	}
}

// fanOut menjalankan side effect secara paralel. Kegagalan hanya dicatat,
// order yang sudah tersimpan tetap dianggap sukses.
func (s *OrderService) fanOut(ctx context.Context, order *models.Order, effects []sideEffect) {
	ctx = context.WithoutCancel(ctx)

	var g errgroup.Group
	for _, effect := range effects {
		g.Go(func() error {
			if err := effect.run(ctx); err != nil {
				utils.ErrorLogger.WithFields(logrus.Fields{
					"effect":       effect.name,
					"order_id":     order.ID,
					"order_number": order.OrderNumber,
				}).Warnf("Side effect failed: %v", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}
