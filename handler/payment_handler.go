package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	parcelpkg "github.com/Klainnoble1/backend-logistics/parcel"
	paymentpkg "github.com/Klainnoble1/backend-logistics/payment"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	service paymentpkg.Service
}

func NewPaymentHandler(svc paymentpkg.Service) *PaymentHandler {
	return &PaymentHandler{service: svc}
}

type initiatePaymentPayload struct {
	ParcelID      string  `json:"parcel_id" binding:"required"`
	Email         string  `json:"email" binding:"omitempty,email"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
}

func (h *PaymentHandler) Initiate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var p initiatePaymentPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
		parcelID, err := uuid.Parse(p.ParcelID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parcel_id"})
			return
		}
		userID, err := uuid.Parse(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id in token"})
			return
		}
		// provider initialization is a remote call
		ctx, cancel := context.WithTimeout(c.Request.Context(), 20*time.Second)
		defer cancel()
		res, err := h.service.Initiate(ctx, paymentpkg.InitiateRequest{
			ParcelID:      parcelID,
			UserID:        userID,
			Email:         p.Email,
			Amount:        p.Amount,
			PaymentMethod: p.PaymentMethod,
		})
		if err != nil {
			switch {
			case errors.Is(err, parcelpkg.ErrParcelNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "parcel not found"})
			case errors.Is(err, paymentpkg.ErrAmountMismatch):
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "amount does not match the quoted price", "detail": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to initiate payment", "detail": err.Error()})
			}
			return
		}
		body := gin.H{"payment": res.Payment}
		if res.Checkout != nil {
			body["checkout_url"] = res.Checkout.CheckoutURL
			body["tx_ref"] = res.Checkout.TxRef
		} else {
			body["message"] = "payment gateway not configured; confirm manually"
		}
		c.JSON(http.StatusCreated, body)
	}
}

type confirmPaymentPayload struct {
	TransactionID string `json:"transaction_id" binding:"required"`
}

// Confirm records a manual confirmation (admin, or degraded mode without a
// gateway). Safe to repeat.
func (h *PaymentHandler) Confirm() gin.HandlerFunc {
	return func(c *gin.Context) {
		var p confirmPaymentPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
		paymentID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		pay, err := h.service.Confirm(ctx, paymentID, p.TransactionID)
		if err != nil {
			writePaymentError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"payment": pay})
	}
}

// Callback handles the provider's server-to-server notification. The tx_ref
// is re-verified against the provider before anything is recorded.
func (h *PaymentHandler) Callback() gin.HandlerFunc {
	return func(c *gin.Context) {
		txRef := c.Query("tx_ref")
		if txRef == "" {
			var body struct {
				TxRef string `json:"tx_ref"`
			}
			if err := c.ShouldBindJSON(&body); err == nil {
				txRef = body.TxRef
			}
		}
		if txRef == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing tx_ref"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 20*time.Second)
		defer cancel()
		pay, err := h.service.HandleCallback(ctx, txRef)
		if err != nil {
			writePaymentError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"payment": pay})
	}
}

type refundPayload struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

func (h *PaymentHandler) Refund() gin.HandlerFunc {
	return func(c *gin.Context) {
		paymentID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
			return
		}
		var payload refundPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		pay, err := h.service.Refund(ctx, paymentID, payload.Amount)
		if err != nil {
			writePaymentError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"payment": pay})
	}
}

func (h *PaymentHandler) MyPayments() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id in token"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		list, err := h.service.ListForUser(ctx, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list payments"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"payments": list})
	}
}

func writePaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, paymentpkg.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
	case errors.Is(err, paymentpkg.ErrAmountMismatch):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "settled amount does not match", "detail": err.Error()})
	case errors.Is(err, paymentpkg.ErrPaymentNotCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "payment is not in a state that allows this operation"})
	case errors.Is(err, paymentpkg.ErrVerificationFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "provider verification failed"})
	case errors.Is(err, paymentpkg.ErrGatewayUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payment gateway not configured"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment operation failed"})
	}
}
