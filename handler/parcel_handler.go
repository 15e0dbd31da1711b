package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/Klainnoble1/backend-logistics/geo"
	parcelpkg "github.com/Klainnoble1/backend-logistics/parcel"
	"github.com/Klainnoble1/backend-logistics/pricing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ParcelHandler struct {
	service parcelpkg.Service
	pricing pricing.Service
}

func NewParcelHandler(svc parcelpkg.Service, pricingSvc pricing.Service) *ParcelHandler {
	return &ParcelHandler{service: svc, pricing: pricingSvc}
}

type createParcelPayload struct {
	RecipientName   string  `json:"recipient_name" binding:"required"`
	RecipientPhone  string  `json:"recipient_phone" binding:"required"`
	PickupAddress   string  `json:"pickup_address" binding:"required"`
	DeliveryAddress string  `json:"delivery_address" binding:"required"`
	ParcelType      string  `json:"parcel_type"`
	Description     string  `json:"description"`
	WeightKg        float64 `json:"weight_kg" binding:"required,gt=0"`
	ServiceType     string  `json:"service_type" binding:"required,oneof=standard express"`
	Insurance       bool    `json:"insurance"`
}

func (h *ParcelHandler) CreateParcel() gin.HandlerFunc {
	return func(c *gin.Context) {
		var p createParcelPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
		senderID, err := uuid.Parse(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id in token"})
			return
		}
		// geocoding two addresses plus routing can be slow on the free tier
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		created, quote, err := h.service.CreateParcel(ctx, parcelpkg.CreateParcelRequest{
			SenderID:        senderID,
			RecipientName:   p.RecipientName,
			RecipientPhone:  p.RecipientPhone,
			PickupAddress:   p.PickupAddress,
			DeliveryAddress: p.DeliveryAddress,
			ParcelType:      p.ParcelType,
			Description:     p.Description,
			WeightKg:        p.WeightKg,
			ServiceType:     entity.ServiceType(p.ServiceType),
			Insurance:       p.Insurance,
		})
		if err != nil {
			switch {
			case errors.Is(err, pricing.ErrNoActivePricingRule):
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "pricing is not configured"})
			case errors.Is(err, geo.ErrGeocodeUnavailable):
				c.JSON(http.StatusBadGateway, gin.H{"error": "could not resolve addresses", "detail": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create parcel", "detail": err.Error()})
			}
			return
		}
		c.JSON(http.StatusCreated, gin.H{"parcel": created, "quote": quote})
	}
}

type quotePayload struct {
	PickupAddress   string  `json:"pickup_address" binding:"required"`
	DeliveryAddress string  `json:"delivery_address" binding:"required"`
	WeightKg        float64 `json:"weight_kg" binding:"required,gt=0"`
	ServiceType     string  `json:"service_type" binding:"required,oneof=standard express"`
	Insurance       bool    `json:"insurance"`
}

// QuoteParcel prices a prospective parcel without creating anything.
func (h *ParcelHandler) QuoteParcel() gin.HandlerFunc {
	return func(c *gin.Context) {
		var p quotePayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		quote, err := h.pricing.Quote(ctx, pricing.QuoteRequest{
			PickupAddress:   p.PickupAddress,
			DeliveryAddress: p.DeliveryAddress,
			WeightKg:        p.WeightKg,
			ServiceType:     entity.ServiceType(p.ServiceType),
			Insurance:       p.Insurance,
		})
		if err != nil {
			if errors.Is(err, pricing.ErrNoActivePricingRule) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "pricing is not configured"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to quote", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"quote": quote})
	}
}

// Track is the public tracking endpoint keyed by tracking id, no auth.
func (h *ParcelHandler) Track() gin.HandlerFunc {
	return func(c *gin.Context) {
		trackingID := c.Param("trackingId")
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		p, history, err := h.service.Track(ctx, trackingID)
		if err != nil {
			if errors.Is(err, parcelpkg.ErrParcelNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "tracking id not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to track parcel"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"tracking_id":             p.TrackingID,
			"status":                  p.Status,
			"current_location":        p.CurrentLocation,
			"estimated_delivery_date": p.EstimatedDeliveryDate,
			"actual_delivery_date":    p.ActualDeliveryDate,
			"history":                 history,
		})
	}
}

// ListParcels scopes the listing by the caller's role: customers see their
// own, drivers their assigned, admins everything (with status filter and
// paging).
func (h *ParcelHandler) ListParcels() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id in token"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		switch c.GetString("role") {
		case "admin":
			filter := parcelpkg.ListFilter{}
			if s := c.Query("status"); s != "" {
				status := entity.ParcelStatus(s)
				filter.Status = &status
			}
			if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
				filter.Limit = limit
			}
			if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
				filter.Offset = offset
			}
			list, total, err := h.service.ListAll(ctx, filter)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list parcels"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"parcels": list, "total": total})
		case "driver":
			driverID, err := uuid.Parse(c.GetString("driver_id"))
			if err != nil {
				c.JSON(http.StatusForbidden, gin.H{"error": "driver profile missing"})
				return
			}
			list, err := h.service.ListForDriver(ctx, driverID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list parcels"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"parcels": list})
		default:
			list, err := h.service.ListForSender(ctx, userID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list parcels"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"parcels": list})
		}
	}
}

func (h *ParcelHandler) GetParcel() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parcel id"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		p, err := h.service.GetParcel(ctx, id)
		if err != nil {
			if errors.Is(err, parcelpkg.ErrParcelNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "parcel not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load parcel"})
			return
		}
		if !canViewParcel(c, p) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		history, err := h.service.History(ctx, p.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"parcel": p, "history": history})
	}
}

func canViewParcel(c *gin.Context, p *entity.Parcel) bool {
	switch c.GetString("role") {
	case "admin", "driver":
		// drivers get filtered lists; detail access is not sender-scoped for
		// them so they can inspect claimable parcels
		return true
	default:
		return p.SenderID.String() == c.GetString("user_id")
	}
}

type statusUpdatePayload struct {
	Status   string `json:"status" binding:"required"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

func (h *ParcelHandler) UpdateStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		var p statusUpdatePayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
		parcelID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parcel id"})
			return
		}
		userID, err := uuid.Parse(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id in token"})
			return
		}
		actor := parcelpkg.Actor{UserID: userID, Role: c.GetString("role")}
		if actor.Role == "driver" {
			driverID, err := uuid.Parse(c.GetString("driver_id"))
			if err != nil {
				c.JSON(http.StatusForbidden, gin.H{"error": "driver profile missing"})
				return
			}
			actor.DriverID = driverID
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		updated, err := h.service.UpdateStatus(ctx, actor, parcelID, parcelpkg.StatusUpdate{
			Status:   entity.ParcelStatus(p.Status),
			Location: p.Location,
			Notes:    p.Notes,
		})
		if err != nil {
			switch {
			case errors.Is(err, parcelpkg.ErrParcelNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "parcel not found"})
			case errors.Is(err, parcelpkg.ErrInvalidTransition):
				c.JSON(http.StatusConflict, gin.H{"error": "invalid status transition", "detail": err.Error()})
			case errors.Is(err, parcelpkg.ErrNotAssigned):
				c.JSON(http.StatusForbidden, gin.H{"error": "parcel is not assigned to you"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"parcel": updated})
	}
}
