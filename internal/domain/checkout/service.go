// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/fashion-storefront/internal/config"
	"github.com/your-org/fashion-storefront/internal/domain/cart"
	"github.com/your-org/fashion-storefront/internal/domain/order"
	"github.com/your-org/fashion-storefront/internal/domain/user"
	"github.com/your-org/fashion-storefront/internal/pkg/email"
	"github.com/your-org/fashion-storefront/internal/pkg/metrics"
)

// OrderCreator stores submitted orders
type OrderCreator interface {
	CreateOrder(ctx context.Context, o *order.Order) error
}

// Mailer sends the order confirmation
type Mailer interface {
	SendOrderConfirmationEmail(ctx context.Context, data email.OrderConfirmationData) error
}

// Service handles checkout business logic
type Service struct {
	orders     OrderCreator
	mailer     Mailer
	calculator Calculator
	validate   *validator.Validate
	logger     logrus.FieldLogger
	metrics    *metrics.Metrics
}

// NewService creates a new checkout service
func NewService(orders OrderCreator, mailer Mailer, cfg *config.Config, logger logrus.FieldLogger, m *metrics.Metrics) *Service {
	return &Service{
		orders:     orders,
		mailer:     mailer,
		calculator: NewCalculator(cfg),
		validate:   newValidator(time.Now),
		logger:     logger,
		metrics:    m,
	}
}

// Summary prices the current contents of a cart without changing it
func (s *Service) Summary(store *cart.Store) Summary {
	return s.calculator.Calculate(store.Items())
}

// Checkout submits the cart as an order. The ordered lines leave the cart
// only after the order is stored; anything added meanwhile stays. Only one
// checkout per cart runs at a time. The confirmation email is best effort.
func (s *Service) Checkout(ctx context.Context, id user.Identity, store *cart.Store, req *Request) (o *order.Order, err error) {
	defer func() {
		total := decimal.Zero
		if o != nil {
			total = o.Total
		}
		s.metrics.Checkout(total, err)
	}()

	if !id.Authenticated() {
		return nil, &cart.AuthorizationError{Message: "Please login to checkout", ResumePath: "/checkout"}
	}
	if !id.Verified {
		return nil, ErrEmailNotVerified
	}

	items, err := store.BeginCheckout()
	if err != nil {
		return nil, err
	}
	defer store.EndCheckout()

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	req.normalize()
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	summary := s.calculator.Calculate(items)
	o = &order.Order{
		UserID:   id.UserID,
		Email:    req.Email,
		Status:   order.OrderStatusProcessing,
		Subtotal: summary.Subtotal,
		Tax:      summary.Tax,
		Shipping: summary.Shipping,
		Total:    summary.Total,
		ShippingAddress: order.Address{
			FullName: req.FullName,
			Street:   req.Address,
			City:     req.City,
			ZipCode:  req.ZipCode,
			Country:  req.Country,
		},
		CardLast4: req.CardLast4(),
		CardName:  req.CardName,
		Items:     make([]order.OrderItem, 0, len(items)),
	}
	for _, item := range items {
		o.Items = append(o.Items, order.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal(),
		})
	}

	if err := s.orders.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}

	log := s.logger.WithFields(logrus.Fields{
		"user_id":      id.UserID,
		"order_number": o.OrderNumber,
		"total":        o.Total.StringFixed(2),
	})

	if err := store.RemoveOrdered(ctx, items); err != nil {
		var perr *cart.PersistenceError
		if !errors.As(err, &perr) {
			return nil, err
		}
		log.WithError(err).Warn("Order placed but the updated cart was not saved")
	}

	if err := s.mailer.SendOrderConfirmationEmail(ctx, confirmationData(o, req.FullName)); err != nil {
		log.WithError(err).Warn("Failed to send order confirmation email")
	}

	log.Info("Order placed")
	return o, nil
}

func confirmationData(o *order.Order, name string) email.OrderConfirmationData {
	data := email.OrderConfirmationData{
		EmailTemplateData: email.EmailTemplateData{UserName: name, UserEmail: o.Email},
		OrderNumber:       o.OrderNumber,
		OrderDate:         o.CreatedAt.Format("January 2, 2006"),
		Subtotal:          o.Subtotal.StringFixed(2),
		Tax:               o.Tax.StringFixed(2),
		Shipping:          o.Shipping.StringFixed(2),
		Total:             o.Total.StringFixed(2),
		ShippingAddress: email.Address{
			FullName: o.ShippingAddress.FullName,
			Street:   o.ShippingAddress.Street,
			City:     o.ShippingAddress.City,
			ZipCode:  o.ShippingAddress.ZipCode,
			Country:  o.ShippingAddress.Country,
		},
	}
	for _, item := range o.Items {
		data.Items = append(data.Items, email.OrderItem{
			Name:     item.Name,
			Variant:  item.Size + " / " + item.Color,
			Quantity: item.Quantity,
			Price:    item.UnitPrice.StringFixed(2),
			Total:    item.LineTotal.StringFixed(2),
			ImageURL: item.Image,
		})
	}
	return data
}
