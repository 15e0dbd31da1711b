package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	adminpkg "github.com/Klainnoble1/backend-logistics/admin"
	dispatchpkg "github.com/Klainnoble1/backend-logistics/dispatch"
	driverpkg "github.com/Klainnoble1/backend-logistics/driver"
	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/Klainnoble1/backend-logistics/pricing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	admin    adminpkg.Service
	pricing  pricing.Service
	drivers  driverpkg.Service
	dispatch dispatchpkg.Service
}

func NewAdminHandler(admin adminpkg.Service, pricingSvc pricing.Service, drivers driverpkg.Service, dispatch dispatchpkg.Service) *AdminHandler {
	return &AdminHandler{admin: admin, pricing: pricingSvc, drivers: drivers, dispatch: dispatch}
}

func (h *AdminHandler) Dashboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		stats, err := h.admin.Dashboard(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"stats": stats})
	}
}

func (h *AdminHandler) Analytics() gin.HandlerFunc {
	return func(c *gin.Context) {
		var since time.Time
		if s := c.Query("since"); s != "" {
			parsed, err := time.Parse("2006-01-02", s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "since must be YYYY-MM-DD"})
				return
			}
			since = parsed
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		report, err := h.admin.Report(ctx, since)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"analytics": report})
	}
}

type assignParcelPayload struct {
	ParcelID string `json:"parcel_id" binding:"required"`
	DriverID string `json:"driver_id" binding:"required"`
}

func (h *AdminHandler) AssignParcel() gin.HandlerFunc {
	return func(c *gin.Context) {
		var p assignParcelPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
		parcelID, err := uuid.Parse(p.ParcelID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parcel_id"})
			return
		}
		driverID, err := uuid.Parse(p.DriverID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid driver_id"})
			return
		}
		adminID, err := uuid.Parse(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id in token"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		res, err := h.dispatch.AssignParcel(ctx, parcelID, driverID, adminID)
		if err != nil {
			writeClaimError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"assignment": res.Assignment, "parcel": res.Parcel})
	}
}

func (h *AdminHandler) ListDrivers() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		var (
			list []entity.Driver
			err  error
		)
		if c.Query("status") == string(entity.DriverAvailable) {
			list, err = h.drivers.ListAvailableDrivers(ctx)
		} else {
			list, err = h.drivers.ListDrivers(ctx)
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list drivers"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"drivers": list})
	}
}

type pricingRulePayload struct {
	RuleName         string   `json:"rule_name" binding:"required"`
	BasePrice        float64  `json:"base_price" binding:"required,gte=0"`
	PricePerKm       float64  `json:"price_per_km" binding:"gte=0"`
	PricePerKg       float64  `json:"price_per_kg" binding:"gte=0"`
	WeightIncludedKg float64  `json:"weight_included_kg" binding:"gte=0"`
	ExpressSurcharge float64  `json:"express_surcharge" binding:"gte=0"`
	InsuranceFee     float64  `json:"insurance_fee" binding:"gte=0"`
	MinPrice         float64  `json:"min_price" binding:"gte=0"`
	MaxPrice         *float64 `json:"max_price"`
	IsActive         bool     `json:"is_active"`
}

func (h *AdminHandler) CreatePricingRule() gin.HandlerFunc {
	return func(c *gin.Context) {
		var p pricingRulePayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		rule, err := h.pricing.CreateRule(ctx, &entity.PricingRule{
			RuleName:         p.RuleName,
			BasePrice:        p.BasePrice,
			PricePerKm:       p.PricePerKm,
			PricePerKg:       p.PricePerKg,
			WeightIncludedKg: p.WeightIncludedKg,
			ExpressSurcharge: p.ExpressSurcharge,
			InsuranceFee:     p.InsuranceFee,
			MinPrice:         p.MinPrice,
			MaxPrice:         p.MaxPrice,
			IsActive:         p.IsActive,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create pricing rule"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"rule": rule})
	}
}

func (h *AdminHandler) ListPricingRules() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		rules, err := h.pricing.ListRules(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list pricing rules"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"rules": rules})
	}
}

type pricingRuleUpdatePayload struct {
	RuleName         *string  `json:"rule_name"`
	BasePrice        *float64 `json:"base_price"`
	PricePerKm       *float64 `json:"price_per_km"`
	PricePerKg       *float64 `json:"price_per_kg"`
	WeightIncludedKg *float64 `json:"weight_included_kg"`
	ExpressSurcharge *float64 `json:"express_surcharge"`
	InsuranceFee     *float64 `json:"insurance_fee"`
	MinPrice         *float64 `json:"min_price"`
	MaxPrice         *float64 `json:"max_price"`
}

func (h *AdminHandler) UpdatePricingRule() gin.HandlerFunc {
	return func(c *gin.Context) {
		var p pricingRuleUpdatePayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		rule, err := h.pricing.UpdateRule(ctx, id, pricing.RuleUpdate{
			RuleName:         p.RuleName,
			BasePrice:        p.BasePrice,
			PricePerKm:       p.PricePerKm,
			PricePerKg:       p.PricePerKg,
			WeightIncludedKg: p.WeightIncludedKg,
			ExpressSurcharge: p.ExpressSurcharge,
			InsuranceFee:     p.InsuranceFee,
			MinPrice:         p.MinPrice,
			MaxPrice:         p.MaxPrice,
		})
		if err != nil {
			if errors.Is(err, pricing.ErrRuleNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "pricing rule not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update pricing rule"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"rule": rule})
	}
}

func (h *AdminHandler) ActivatePricingRule() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		rule, err := h.pricing.ActivateRule(ctx, id)
		if err != nil {
			if errors.Is(err, pricing.ErrRuleNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "pricing rule not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to activate pricing rule"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"rule": rule})
	}
}
