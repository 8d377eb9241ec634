package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sabzihub/backend/internal/constants"
	"github.com/sabzihub/backend/internal/models"
	"github.com/sabzihub/backend/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:order_svc_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Category{},
		&models.Product{},
		&models.PriceTier{},
		&models.CartItem{},
		&models.Coupon{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusEvent{},
		&models.PaymentAttempt{},
		&models.OrderCounter{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	models.DB = db
	return db
}

func newTestOrderService(db *gorm.DB) *OrderService {
	return NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewOrderCounterRepository(db),
		repository.NewProductRepository(db),
		repository.NewCartRepository(db),
		repository.NewCouponRepository(db),
		repository.NewAddressRepository(db),
		nil,
		OrderPricing{
			ExpireMinutes:         15,
			DeliveryFee:           decimal.NewFromInt(40),
			FreeDeliveryThreshold: decimal.NewFromInt(499),
		},
	)
}

type checkoutFixture struct {
	UserID    uint
	AddressID uint
	TierID    uint
}

// seedCheckout creates one user with an address and a cart holding
// quantity units of a single tier priced at 120.00 with the given stock.
func seedCheckout(t *testing.T, db *gorm.DB, stock, quantity int) checkoutFixture {
	t.Helper()
	user := models.User{Phone: "9876543210", Name: "Test User", Status: constants.UserStatusActive}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	address := models.Address{UserID: user.ID, Line1: "12 MG Road", City: "Pune", Pincode: "411001"}
	if err := db.Create(&address).Error; err != nil {
		t.Fatalf("seed address: %v", err)
	}
	category := models.Category{Name: "Vegetables", Slug: "vegetables"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	product := models.Product{CategoryID: category.ID, Slug: "spinach", Name: "Spinach", IsActive: true}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	tier := models.PriceTier{
		ProductID: product.ID,
		Label:     "500 g",
		UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(120)),
		MRP:       models.NewMoneyFromDecimal(decimal.NewFromInt(140)),
		Stock:     stock,
		IsActive:  true,
	}
	if err := db.Create(&tier).Error; err != nil {
		t.Fatalf("seed tier: %v", err)
	}
	cartItem := models.CartItem{UserID: user.ID, ProductID: product.ID, TierID: tier.ID, Quantity: quantity}
	if err := db.Create(&cartItem).Error; err != nil {
		t.Fatalf("seed cart item: %v", err)
	}
	return checkoutFixture{UserID: user.ID, AddressID: address.ID, TierID: tier.ID}
}

func tierStock(t *testing.T, db *gorm.DB, tierID uint) int {
	t.Helper()
	var tier models.PriceTier
	if err := db.First(&tier, tierID).Error; err != nil {
		t.Fatalf("load tier: %v", err)
	}
	return tier.Stock
}

func TestCreateOrderCOD(t *testing.T) {
	db := newOrderTestDB(t)
	fx := seedCheckout(t, db, 10, 2)
	svc := newTestOrderService(db)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:        fx.UserID,
		AddressID:     fx.AddressID,
		PaymentMethod: constants.PaymentMethodCOD,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.Status != models.StatusPlaced {
		t.Fatalf("expected PLACED, got %s", order.Status)
	}
	if order.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("expected pending payment status, got %s", order.PaymentStatus)
	}
	wantNo := fmt.Sprintf("SH%s0001", time.Now().Format("20060102"))
	if order.OrderNo != wantNo {
		t.Fatalf("expected order no %s, got %s", wantNo, order.OrderNo)
	}
	if order.PaymentExpiresAt != nil {
		t.Fatalf("COD order must not carry a payment expiry")
	}
	// 2 x 120.00 = 240.00, below the free delivery threshold.
	if order.Subtotal.String() != "240.00" || order.DeliveryFee.String() != "40.00" || order.Total.String() != "280.00" {
		t.Fatalf("unexpected amounts: subtotal=%s fee=%s total=%s", order.Subtotal, order.DeliveryFee, order.Total)
	}
	if got := tierStock(t, db, fx.TierID); got != 8 {
		t.Fatalf("expected stock 8 after reservation, got %d", got)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items: %+v", order.Items)
	}
	if len(order.StatusEvents) != 1 || order.StatusEvents[0].ToStatus != models.StatusPlaced {
		t.Fatalf("expected one placement event, got %+v", order.StatusEvents)
	}

	cart, err := svc.cartRepo.ListByUser(fx.UserID)
	if err != nil {
		t.Fatalf("list cart: %v", err)
	}
	if len(cart) != 0 {
		t.Fatalf("cart must be cleared after checkout, got %d items", len(cart))
	}
}

func TestCreateOrderGatewaySetsExpiry(t *testing.T) {
	db := newOrderTestDB(t)
	fx := seedCheckout(t, db, 10, 1)
	svc := newTestOrderService(db)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:        fx.UserID,
		AddressID:     fx.AddressID,
		PaymentMethod: constants.PaymentMethodGateway,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.Status != models.StatusPaymentPending {
		t.Fatalf("expected PAYMENT_PENDING, got %s", order.Status)
	}
	if order.PaymentExpiresAt == nil {
		t.Fatalf("gateway order must carry a payment expiry")
	}
	if until := time.Until(*order.PaymentExpiresAt); until < 14*time.Minute || until > 16*time.Minute {
		t.Fatalf("expiry not around 15 minutes out: %v", until)
	}
}

func TestCreateOrderStockInsufficient(t *testing.T) {
	db := newOrderTestDB(t)
	fx := seedCheckout(t, db, 1, 2)
	svc := newTestOrderService(db)

	_, err := svc.CreateOrder(CreateOrderInput{
		UserID:        fx.UserID,
		AddressID:     fx.AddressID,
		PaymentMethod: constants.PaymentMethodCOD,
	})
	if !errors.Is(err, ErrStockInsufficient) {
		t.Fatalf("expected ErrStockInsufficient, got %v", err)
	}

	// The whole checkout rolls back: no order row, stock untouched.
	var count int64
	if err := db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no order rows, got %d", count)
	}
	if got := tierStock(t, db, fx.TierID); got != 1 {
		t.Fatalf("expected stock unchanged at 1, got %d", got)
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	db := newOrderTestDB(t)
	svc := newTestOrderService(db)

	_, err := svc.CreateOrder(CreateOrderInput{
		UserID:        42,
		AddressID:     1,
		PaymentMethod: constants.PaymentMethodCOD,
	})
	if !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
}

func TestCreateOrderCouponAndFreeDelivery(t *testing.T) {
	db := newOrderTestDB(t)
	fx := seedCheckout(t, db, 10, 5) // 5 x 120.00 = 600.00
	coupon := models.Coupon{
		Code:        "FRESH10",
		Type:        constants.CouponTypePercent,
		Value:       models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		MaxDiscount: models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
		IsActive:    true,
		UsageLimit:  1,
	}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("seed coupon: %v", err)
	}
	svc := newTestOrderService(db)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:        fx.UserID,
		AddressID:     fx.AddressID,
		PaymentMethod: constants.PaymentMethodCOD,
		CouponCode:    "fresh10",
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	// 10% of 600.00 is 60.00, capped at 50.00; 550.00 clears the free
	// delivery threshold.
	if order.Discount.String() != "50.00" {
		t.Fatalf("expected discount 50.00, got %s", order.Discount)
	}
	if order.DeliveryFee.String() != "0.00" {
		t.Fatalf("expected free delivery, got %s", order.DeliveryFee)
	}
	if order.Total.String() != "550.00" {
		t.Fatalf("expected total 550.00, got %s", order.Total)
	}

	var reloaded models.Coupon
	if err := db.First(&reloaded, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon: %v", err)
	}
	if reloaded.UsedCount != 1 {
		t.Fatalf("expected used_count 1, got %d", reloaded.UsedCount)
	}

	// The coupon is now exhausted for the next checkout.
	fx2 := checkoutFixture{UserID: fx.UserID, AddressID: fx.AddressID, TierID: fx.TierID}
	if err := db.Create(&models.CartItem{UserID: fx2.UserID, ProductID: 1, TierID: fx2.TierID, Quantity: 1}).Error; err != nil {
		t.Fatalf("refill cart: %v", err)
	}
	_, err = svc.CreateOrder(CreateOrderInput{
		UserID:        fx2.UserID,
		AddressID:     fx2.AddressID,
		PaymentMethod: constants.PaymentMethodCOD,
		CouponCode:    "FRESH10",
	})
	if !errors.Is(err, ErrCouponExhausted) {
		t.Fatalf("expected ErrCouponExhausted, got %v", err)
	}
}

func TestOrderNumberSequence(t *testing.T) {
	db := newOrderTestDB(t)
	fx := seedCheckout(t, db, 10, 1)
	svc := newTestOrderService(db)

	first, err := svc.CreateOrder(CreateOrderInput{
		UserID:        fx.UserID,
		AddressID:     fx.AddressID,
		PaymentMethod: constants.PaymentMethodCOD,
	})
	if err != nil {
		t.Fatalf("first CreateOrder: %v", err)
	}
	if err := db.Create(&models.CartItem{UserID: fx.UserID, ProductID: 1, TierID: fx.TierID, Quantity: 1}).Error; err != nil {
		t.Fatalf("refill cart: %v", err)
	}
	second, err := svc.CreateOrder(CreateOrderInput{
		UserID:        fx.UserID,
		AddressID:     fx.AddressID,
		PaymentMethod: constants.PaymentMethodCOD,
	})
	if err != nil {
		t.Fatalf("second CreateOrder: %v", err)
	}

	date := time.Now().Format("20060102")
	if first.OrderNo != "SH"+date+"0001" || second.OrderNo != "SH"+date+"0002" {
		t.Fatalf("unexpected order numbers: %s, %s", first.OrderNo, second.OrderNo)
	}
}

func TestCancelOrderByUser(t *testing.T) {
	db := newOrderTestDB(t)
	fx := seedCheckout(t, db, 10, 2)
	svc := newTestOrderService(db)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:        fx.UserID,
		AddressID:     fx.AddressID,
		PaymentMethod: constants.PaymentMethodCOD,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	cancelled, err := svc.CancelOrder(order.ID, fx.UserID)
	if err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	if cancelled.Status != models.StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", cancelled.Status)
	}
	if cancelled.CancelledAt == nil || cancelled.CancelledBy != constants.ActorUser {
		t.Fatalf("cancel metadata missing: %+v", cancelled)
	}
	if got := tierStock(t, db, fx.TierID); got != 10 {
		t.Fatalf("expected stock released back to 10, got %d", got)
	}

	var events int64
	if err := db.Model(&models.OrderStatusEvent{}).Where("order_id = ?", order.ID).Count(&events).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if events != 2 {
		t.Fatalf("expected 2 history rows (placed, cancelled), got %d", events)
	}
}

func TestCancelOrderByUserRejectedForGateway(t *testing.T) {
	db := newOrderTestDB(t)
	fx := seedCheckout(t, db, 10, 1)
	svc := newTestOrderService(db)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:        fx.UserID,
		AddressID:     fx.AddressID,
		PaymentMethod: constants.PaymentMethodGateway,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if _, err := svc.CancelOrder(order.ID, fx.UserID); !errors.Is(err, ErrCancelNotAllowed) {
		t.Fatalf("expected ErrCancelNotAllowed, got %v", err)
	}
}

func TestUpdateOrderStatusFullCODSequence(t *testing.T) {
	db := newOrderTestDB(t)
	fx := seedCheckout(t, db, 10, 1)
	svc := newTestOrderService(db)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:        fx.UserID,
		AddressID:     fx.AddressID,
		PaymentMethod: constants.PaymentMethodCOD,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	steps := []models.OrderStatus{
		models.StatusConfirmed,
		models.StatusPacked,
		models.StatusReadyToDeliver,
		models.StatusHandedToAgent,
		models.StatusDelivered,
	}
	current := order
	for _, target := range steps {
		current, err = svc.UpdateOrderStatus(order.ID, target, "")
		if err != nil {
			t.Fatalf("transition to %s: %v", target, err)
		}
		if current.Status != target {
			t.Fatalf("expected %s, got %s", target, current.Status)
		}
	}

	// Delivery of a COD order settles the payment.
	if current.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("expected paid after COD delivery, got %s", current.PaymentStatus)
	}
	if current.PaidAt == nil || current.DeliveredAt == nil {
		t.Fatalf("expected paid_at and delivered_at to be set")
	}

	var events int64
	if err := db.Model(&models.OrderStatusEvent{}).Where("order_id = ?", order.ID).Count(&events).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if events != int64(len(steps))+1 {
		t.Fatalf("expected %d history rows, got %d", len(steps)+1, events)
	}
}

func TestUpdateOrderStatusInvalidTransition(t *testing.T) {
	db := newOrderTestDB(t)
	fx := seedCheckout(t, db, 10, 1)
	svc := newTestOrderService(db)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:        fx.UserID,
		AddressID:     fx.AddressID,
		PaymentMethod: constants.PaymentMethodCOD,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	_, err = svc.UpdateOrderStatus(order.ID, models.StatusDelivered, "")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	var te *TransitionError
	if !errors.As(err, &te) || te.From != models.StatusPlaced || te.To != models.StatusDelivered {
		t.Fatalf("unexpected transition error: %v", err)
	}

	// The rejected transition leaves the order and its history untouched.
	reloaded, err := svc.GetOrderForAdmin(order.ID)
	if err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if reloaded.Status != models.StatusPlaced {
		t.Fatalf("status changed on rejected transition: %s", reloaded.Status)
	}
	if len(reloaded.StatusEvents) != 1 {
		t.Fatalf("expected 1 history row, got %d", len(reloaded.StatusEvents))
	}
}

func TestUpdateOrderStatusRepeatedStatusRejected(t *testing.T) {
	db := newOrderTestDB(t)
	fx := seedCheckout(t, db, 10, 1)
	svc := newTestOrderService(db)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:        fx.UserID,
		AddressID:     fx.AddressID,
		PaymentMethod: constants.PaymentMethodCOD,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	// Re-asserting the current status is not a transition; the adjacency
	// table has no self-edges.
	_, err = svc.UpdateOrderStatus(order.ID, models.StatusPlaced, "")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	var te *TransitionError
	if !errors.As(err, &te) || te.From != models.StatusPlaced || te.To != models.StatusPlaced {
		t.Fatalf("unexpected transition error: %v", err)
	}

	reloaded, err := svc.GetOrderForAdmin(order.ID)
	if err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if len(reloaded.StatusEvents) != 1 {
		t.Fatalf("expected 1 history row, got %d", len(reloaded.StatusEvents))
	}
}

func TestUpdateOrderStatusVersionConflict(t *testing.T) {
	db := newOrderTestDB(t)
	fx := seedCheckout(t, db, 10, 1)
	svc := newTestOrderService(db)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:        fx.UserID,
		AddressID:     fx.AddressID,
		PaymentMethod: constants.PaymentMethodCOD,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	stale, err := svc.GetOrderForAdmin(order.ID)
	if err != nil {
		t.Fatalf("load order: %v", err)
	}
	// A concurrent writer bumps the version between read and write.
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("version", gorm.Expr("version + 1")).Error; err != nil {
		t.Fatalf("bump version: %v", err)
	}

	if _, err := svc.applyTransition(stale, models.StatusConfirmed, constants.ActorAdmin, "", nil); !errors.Is(err, ErrOrderConflict) {
		t.Fatalf("expected ErrOrderConflict, got %v", err)
	}
}

func TestExpireOverduePayment(t *testing.T) {
	db := newOrderTestDB(t)
	fx := seedCheckout(t, db, 10, 2)
	svc := newTestOrderService(db)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:        fx.UserID,
		AddressID:     fx.AddressID,
		PaymentMethod: constants.PaymentMethodGateway,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	past := time.Now().Add(-time.Minute)
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("payment_expires_at", past).Error; err != nil {
		t.Fatalf("backdate expiry: %v", err)
	}

	expired, err := svc.ExpireOverduePayment(order.ID)
	if err != nil {
		t.Fatalf("ExpireOverduePayment: %v", err)
	}
	if expired.Status != models.StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", expired.Status)
	}
	if expired.CancelledBy != constants.ActorSystem {
		t.Fatalf("expected system actor, got %s", expired.CancelledBy)
	}
	if got := tierStock(t, db, fx.TierID); got != 10 {
		t.Fatalf("expected stock released back to 10, got %d", got)
	}

	// Expiring again is a no-op.
	again, err := svc.ExpireOverduePayment(order.ID)
	if err != nil {
		t.Fatalf("second ExpireOverduePayment: %v", err)
	}
	if again.Status != models.StatusCancelled {
		t.Fatalf("expected CANCELLED on replay, got %s", again.Status)
	}
	var events int64
	if err := db.Model(&models.OrderStatusEvent{}).Where("order_id = ?", order.ID).Count(&events).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if events != 2 {
		t.Fatalf("expected 2 history rows, got %d", events)
	}
}

func TestSweepOverduePayments(t *testing.T) {
	db := newOrderTestDB(t)
	fx := seedCheckout(t, db, 10, 1)
	svc := newTestOrderService(db)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:        fx.UserID,
		AddressID:     fx.AddressID,
		PaymentMethod: constants.PaymentMethodGateway,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	past := time.Now().Add(-time.Minute)
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("payment_expires_at", past).Error; err != nil {
		t.Fatalf("backdate expiry: %v", err)
	}

	expired, err := svc.SweepOverduePayments(50)
	if err != nil {
		t.Fatalf("SweepOverduePayments: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expected 1 expired order, got %d", expired)
	}

	expired, err = svc.SweepOverduePayments(50)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if expired != 0 {
		t.Fatalf("expected idle sweep, got %d", expired)
	}
}

func TestRefundFlow(t *testing.T) {
	db := newOrderTestDB(t)
	fx := seedCheckout(t, db, 10, 5)
	svc := newTestOrderService(db)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:        fx.UserID,
		AddressID:     fx.AddressID,
		PaymentMethod: constants.PaymentMethodGateway,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	// Simulate a captured payment, then an admin cancellation.
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
		Updates(map[string]interface{}{"status": models.StatusConfirmed, "payment_status": constants.PaymentStatusPaid}).Error; err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if _, err := svc.UpdateOrderStatus(order.ID, models.StatusCancelled, "out of stock"); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}

	initiated, err := svc.InitiateRefund(order.ID, "customer refund")
	if err != nil {
		t.Fatalf("InitiateRefund: %v", err)
	}
	if initiated.Status != models.StatusRefundInitiated {
		t.Fatalf("expected REFUND_INITIATED, got %s", initiated.Status)
	}

	partial := models.NewMoneyFromDecimal(decimal.NewFromInt(100))
	refunded, err := svc.CompleteRefund(order.ID, partial, "rfnd_123")
	if err != nil {
		t.Fatalf("CompleteRefund: %v", err)
	}
	if refunded.Status != models.StatusPartiallyRefunded {
		t.Fatalf("expected PARTIALLY_REFUNDED, got %s", refunded.Status)
	}
	if refunded.RefundAmount.String() != "100.00" {
		t.Fatalf("expected refund amount 100.00, got %s", refunded.RefundAmount)
	}
}

func TestCompleteRefundFullAmount(t *testing.T) {
	db := newOrderTestDB(t)
	fx := seedCheckout(t, db, 10, 1)
	svc := newTestOrderService(db)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:        fx.UserID,
		AddressID:     fx.AddressID,
		PaymentMethod: constants.PaymentMethodGateway,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
		Updates(map[string]interface{}{"status": models.StatusConfirmed, "payment_status": constants.PaymentStatusPaid}).Error; err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if _, err := svc.UpdateOrderStatus(order.ID, models.StatusCancelled, ""); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
	if _, err := svc.InitiateRefund(order.ID, ""); err != nil {
		t.Fatalf("InitiateRefund: %v", err)
	}

	full, err := svc.GetOrderForAdmin(order.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	refunded, err := svc.CompleteRefund(order.ID, full.Total, "rfnd_456")
	if err != nil {
		t.Fatalf("CompleteRefund: %v", err)
	}
	if refunded.Status != models.StatusRefunded {
		t.Fatalf("expected REFUNDED, got %s", refunded.Status)
	}
	if refunded.PaymentStatus != constants.PaymentStatusRefunded {
		t.Fatalf("expected refunded payment status, got %s", refunded.PaymentStatus)
	}
	if refunded.RefundedAt == nil {
		t.Fatalf("expected refunded_at to be set")
	}
}
