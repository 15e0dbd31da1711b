package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	dispatchpkg "github.com/Klainnoble1/backend-logistics/dispatch"
	driverpkg "github.com/Klainnoble1/backend-logistics/driver"
	"github.com/Klainnoble1/backend-logistics/entity"
	parcelpkg "github.com/Klainnoble1/backend-logistics/parcel"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DriverHandler struct {
	drivers  driverpkg.Service
	parcels  parcelpkg.Service
	dispatch dispatchpkg.Service
}

func NewDriverHandler(drivers driverpkg.Service, parcels parcelpkg.Service, dispatch dispatchpkg.Service) *DriverHandler {
	return &DriverHandler{drivers: drivers, parcels: parcels, dispatch: dispatch}
}

func driverIDFrom(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString("driver_id"))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "driver profile missing"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *DriverHandler) Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID, ok := driverIDFrom(c)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		d, err := h.drivers.GetByID(ctx, driverID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "driver not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"driver": d})
	}
}

type driverProfilePayload struct {
	LicenseNumber *string `json:"license_number"`
	VehicleType   *string `json:"vehicle_type"`
	VehiclePlate  *string `json:"vehicle_plate"`
}

func (h *DriverHandler) UpdateProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		var p driverProfilePayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
		driverID, ok := driverIDFrom(c)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		d, err := h.drivers.UpdateProfile(ctx, driverID, driverpkg.ProfileUpdate{
			LicenseNumber: p.LicenseNumber,
			VehicleType:   p.VehicleType,
			VehiclePlate:  p.VehiclePlate,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"driver": d})
	}
}

type availabilityPayload struct {
	Status string `json:"status" binding:"required,oneof=available offline"`
}

func (h *DriverHandler) SetAvailability() gin.HandlerFunc {
	return func(c *gin.Context) {
		var p availabilityPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
		driverID, ok := driverIDFrom(c)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		d, err := h.drivers.SetAvailability(ctx, driverID, entity.DriverStatus(p.Status))
		if err != nil {
			if errors.Is(err, driverpkg.ErrDriverHasActiveAssignment) {
				c.JSON(http.StatusConflict, gin.H{"error": "finish the active delivery before changing availability"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update availability"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"driver": d})
	}
}

type locationPayload struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

func (h *DriverHandler) UpdateLocation() gin.HandlerFunc {
	return func(c *gin.Context) {
		var p locationPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
		driverID, ok := driverIDFrom(c)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		if err := h.drivers.UpdateLocation(ctx, driverID, p.Latitude, p.Longitude); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update location"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "location updated"})
	}
}

// AvailableParcels lists unclaimed parcels drivers can pick from.
func (h *DriverHandler) AvailableParcels() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		list, err := h.parcels.ListUnassigned(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list parcels"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"parcels": list})
	}
}

func (h *DriverHandler) MyAssignments() gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID, ok := driverIDFrom(c)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		list, err := h.drivers.ListAssignments(ctx, driverID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list assignments"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"assignments": list})
	}
}

func (h *DriverHandler) ClaimParcel() gin.HandlerFunc {
	return func(c *gin.Context) {
		parcelID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parcel id"})
			return
		}
		driverID, ok := driverIDFrom(c)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		res, err := h.dispatch.ClaimParcel(ctx, parcelID, driverID)
		if err != nil {
			writeClaimError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"assignment": res.Assignment, "parcel": res.Parcel})
	}
}

func writeClaimError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, dispatchpkg.ErrParcelNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "parcel not found"})
	case errors.Is(err, dispatchpkg.ErrParcelAlreadyAssigned):
		c.JSON(http.StatusConflict, gin.H{"error": "parcel already assigned"})
	case errors.Is(err, dispatchpkg.ErrParcelNotAvailable):
		c.JSON(http.StatusConflict, gin.H{"error": "parcel is not available for assignment"})
	case errors.Is(err, dispatchpkg.ErrDriverNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "driver not found"})
	case errors.Is(err, dispatchpkg.ErrDriverBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "driver already has an active assignment"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assign parcel"})
	}
}
