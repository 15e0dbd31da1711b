package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	adminrepo "github.com/Klainnoble1/backend-logistics/admin/repository"
	adminsvc "github.com/Klainnoble1/backend-logistics/admin/service"
	authrepo "github.com/Klainnoble1/backend-logistics/auth/repository"
	authsvc "github.com/Klainnoble1/backend-logistics/auth/service"
	dispatchrepo "github.com/Klainnoble1/backend-logistics/dispatch/repository"
	dispatchsvc "github.com/Klainnoble1/backend-logistics/dispatch/service"
	driverrepo "github.com/Klainnoble1/backend-logistics/driver/repository"
	driversvc "github.com/Klainnoble1/backend-logistics/driver/service"
	"github.com/Klainnoble1/backend-logistics/geo"
	api "github.com/Klainnoble1/backend-logistics/handler"
	"github.com/Klainnoble1/backend-logistics/middleware"
	notificationrepo "github.com/Klainnoble1/backend-logistics/notification/repository"
	notificationsvc "github.com/Klainnoble1/backend-logistics/notification/service"
	parcelrepo "github.com/Klainnoble1/backend-logistics/parcel/repository"
	parcelsvc "github.com/Klainnoble1/backend-logistics/parcel/service"
	paymentpkg "github.com/Klainnoble1/backend-logistics/payment"
	paymentgw "github.com/Klainnoble1/backend-logistics/payment/gateway"
	paymentrepo "github.com/Klainnoble1/backend-logistics/payment/repository"
	paymentsvc "github.com/Klainnoble1/backend-logistics/payment/service"
	pricingrepo "github.com/Klainnoble1/backend-logistics/pricing/repository"
	pricingsvc "github.com/Klainnoble1/backend-logistics/pricing/service"
	"github.com/Klainnoble1/backend-logistics/realtime"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	db := setupDatabase()
	secret := getEnv("JWT_SECRET", "dev-insecure-secret-change-me")

	// geocoding chain: paid provider first when configured, free fallback last
	var geocoders []geo.Geocoder
	if key := os.Getenv("LOCATIONIQ_API_KEY"); key != "" {
		geocoders = append(geocoders, geo.NewLocationIQGeocoder(key, getEnv("GEO_COUNTRY_CODE", "et")))
	}
	geocoders = append(geocoders, geo.NewNominatimGeocoder())
	resolver := geo.NewResolver(geocoders...)
	estimator := geo.NewOSRMEstimator(getEnv("OSRM_BASE_URL", "https://router.project-osrm.org"))

	hub := realtime.NewHub()
	notificationRepo := notificationrepo.NewGormNotificationRepo(db)
	events := notificationsvc.NewNotificationService(notificationRepo, hub)

	pricingService := pricingsvc.NewPricingService(pricingrepo.NewGormPricingRepo(db), resolver, estimator)
	parcelService := parcelsvc.NewParcelService(parcelrepo.NewGormParcelRepo(db), pricingService, events)
	dispatchService := dispatchsvc.NewDispatchService(dispatchrepo.NewGormDispatchRepo(db), events)
	driverService := driversvc.NewDriverService(driverrepo.NewGormDriverRepo(db))
	authService := authsvc.NewAuthService(authrepo.NewGormAuthRepo(db), secret)
	adminService := adminsvc.NewAdminService(adminrepo.NewGormAdminRepo(db))

	var gateway paymentpkg.Gateway
	if chapaSecret := os.Getenv("CHAPA_SECRET_KEY"); chapaSecret != "" {
		gateway = paymentgw.NewChapaGateway(chapaSecret, os.Getenv("CHAPA_BASE_URL"), os.Getenv("CHAPA_CURRENCY"))
	} else {
		log.Println("CHAPA_SECRET_KEY not set: payments run in degraded mode (manual confirmation only)")
	}
	paymentService := paymentsvc.NewPaymentService(paymentrepo.NewGormPaymentRepo(db), parcelrepo.NewGormParcelRepo(db), gateway, events)

	authHandler := api.NewAuthHandler(authService)
	parcelHandler := api.NewParcelHandler(parcelService, pricingService)
	driverHandler := api.NewDriverHandler(driverService, parcelService, dispatchService)
	paymentHandler := api.NewPaymentHandler(paymentService)
	adminHandler := api.NewAdminHandler(adminService, pricingService, driverService, dispatchService)
	notificationHandler := api.NewNotificationHandler(notificationRepo)
	wsHandler := api.NewWSHandler(hub).WithDriverLocationHandler(func(driverID string, lat, lng float64) {
		id, err := uuid.Parse(driverID)
		if err != nil {
			return
		}
		if err := driverService.UpdateLocation(context.Background(), id, lat, lng); err != nil {
			log.Println("ws location update failed:", err)
		}
	})

	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/auth/register", authHandler.Register())
		apiGroup.POST("/auth/login", authHandler.Login())

		// public tracking, no auth
		apiGroup.GET("/parcels/track/:trackingId", parcelHandler.Track())

		// provider server-to-server callback; authenticity comes from the
		// verify round-trip, not from a session
		apiGroup.POST("/payments/callback", paymentHandler.Callback())
		apiGroup.GET("/payments/callback", paymentHandler.Callback())

		authed := apiGroup.Group("", middleware.RequireAuth(secret))
		{
			authed.GET("/auth/me", authHandler.Me())
			authed.POST("/auth/push-token", authHandler.RegisterPushToken())

			authed.POST("/parcels", middleware.RequireRoles("customer", "admin"), parcelHandler.CreateParcel())
			authed.POST("/parcels/quote", parcelHandler.QuoteParcel())
			authed.GET("/parcels", parcelHandler.ListParcels())
			authed.GET("/parcels/:id", parcelHandler.GetParcel())
			authed.PATCH("/parcels/:id/status", middleware.RequireRoles("driver", "admin"), parcelHandler.UpdateStatus())

			authed.GET("/notifications", notificationHandler.List())
			authed.PATCH("/notifications/:id/read", notificationHandler.MarkRead())

			authed.POST("/payments", middleware.RequireRoles("customer", "admin"), paymentHandler.Initiate())
			authed.GET("/payments", paymentHandler.MyPayments())
			authed.POST("/payments/:id/confirm", middleware.RequireRoles("admin"), paymentHandler.Confirm())
			authed.POST("/payments/:id/refund", middleware.RequireRoles("admin"), paymentHandler.Refund())

			drivers := authed.Group("/drivers", middleware.RequireRoles("driver"))
			{
				drivers.GET("/me", driverHandler.Me())
				drivers.PATCH("/me", driverHandler.UpdateProfile())
				drivers.PATCH("/me/availability", driverHandler.SetAvailability())
				drivers.PATCH("/me/location", driverHandler.UpdateLocation())
				drivers.GET("/parcels/available", driverHandler.AvailableParcels())
				drivers.GET("/assignments", driverHandler.MyAssignments())
				drivers.POST("/parcels/:id/claim", driverHandler.ClaimParcel())
			}

			admins := authed.Group("/admin", middleware.RequireRoles("admin"))
			{
				admins.GET("/dashboard", adminHandler.Dashboard())
				admins.GET("/analytics", adminHandler.Analytics())
				admins.GET("/drivers", adminHandler.ListDrivers())
				admins.POST("/assignments", adminHandler.AssignParcel())
				admins.POST("/pricing-rules", adminHandler.CreatePricingRule())
				admins.GET("/pricing-rules", adminHandler.ListPricingRules())
				admins.PATCH("/pricing-rules/:id", adminHandler.UpdatePricingRule())
				admins.POST("/pricing-rules/:id/activate", adminHandler.ActivatePricingRule())
			}

			authed.GET("/ws/driver", middleware.RequireRoles("driver"), wsHandler.DriverSocket())
			authed.GET("/ws/customer", wsHandler.CustomerSocket())
		}
	}

	addr := ":" + getEnv("PORT", "8080")
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
