package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OrderUseCase defines the service surface the handlers depend on.
type OrderUseCase interface {
	PlaceOrder(ctx context.Context, form CustomerForm, cart ShoppingCart) (int64, error)
	GetOrderDetails(ctx context.Context, orderID int64) (*OrderDetails, error)
	GetBook(ctx context.Context, bookID int64) (*Book, error)
}

// CheckoutRequest is the checkout payload: the customer form plus the cart
// snapshot the client assembled.
type CheckoutRequest struct {
	CustomerForm CustomerForm `json:"customer_form" binding:"required"`
	Cart         ShoppingCart `json:"cart" binding:"required"`
}

// OrderHandler holds the HTTP handlers.
type OrderHandler struct {
	useCase OrderUseCase
	tracer  trace.Tracer
}

func NewOrderHandler(useCase OrderUseCase, tracer trace.Tracer) *OrderHandler {
	return &OrderHandler{
		useCase: useCase,
		tracer:  tracer,
	}
}

// PlaceOrder handles POST /api/orders.
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "place_order")
	defer span.End()

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(
		attribute.Int("cart_items", len(req.Cart.Items)),
		attribute.Int64("subtotal", req.Cart.ComputedSubtotal()),
	)

	orderID, err := h.useCase.PlaceOrder(ctx, req.CustomerForm, req.Cart)
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}

	span.SetAttributes(attribute.Int64("order_id", orderID))
	c.JSON(http.StatusCreated, gin.H{"order_id": orderID})
}

// GetOrderDetails handles GET /api/orders/:id.
func (h *OrderHandler) GetOrderDetails(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "get_order_details")
	defer span.End()

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	span.SetAttributes(attribute.Int64("order_id", orderID))

	details, err := h.useCase.GetOrderDetails(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// GetBook handles GET /api/books/:id.
func (h *OrderHandler) GetBook(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "get_book")
	defer span.End()

	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}
	span.SetAttributes(attribute.Int64("book_id", bookID))

	book, err := h.useCase.GetBook(ctx, bookID)
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, book)
}

// HealthCheck reports service liveness.
func (h *OrderHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "orders-service",
	})
}

// writeError maps the service's error kinds onto HTTP statuses.
func (h *OrderHandler) writeError(c *gin.Context, err error) {
	var vf *ValidationFailure
	if errors.As(err, &vf) {
		c.JSON(http.StatusBadRequest, gin.H{"error": vf.Message, "field": vf.Field})
		return
	}
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
