package main

import (
	"context"
	"log"
	"time"

	"github.com/Kariqs/neon-store-api/cart"
	"github.com/Kariqs/neon-store-api/checkout"
	"github.com/Kariqs/neon-store-api/composer"
	"github.com/Kariqs/neon-store-api/controllers"
	"github.com/Kariqs/neon-store-api/gateway"
	"github.com/Kariqs/neon-store-api/initializers"
	"github.com/Kariqs/neon-store-api/metrics"
	"github.com/Kariqs/neon-store-api/middlewares"
	"github.com/Kariqs/neon-store-api/persistence"
	"github.com/Kariqs/neon-store-api/previews"
	"github.com/Kariqs/neon-store-api/routes"
	"github.com/Kariqs/neon-store-api/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var cfg initializers.Config

func init() {
	initializers.LoadEnv()
	initializers.CheckIDSource()
	cfg = initializers.LoadConfig()
	initializers.ConnectToDB(cfg.DatabaseDSN)
	initializers.SyncDatabase()
}

func main() {
	ctx := context.Background()

	razorpay := gateway.NewRazorpayClient(cfg.RazorpayURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.GatewayTimeout)
	local := &gateway.LocalBackend{Orders: razorpay, Secret: cfg.RazorpayKeySecret}
	var payments gateway.Backend = local
	if cfg.PaymentAPIURL != "" {
		payments = gateway.NewHTTPBackend(cfg.PaymentAPIURL, cfg.GatewayTimeout)
	}
	widget := gateway.NewHostedWidget()

	db := persistence.NewGormClient(initializers.DB)
	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)
	summaries := checkout.NewLastOrderStore()
	deps := checkout.Deps{
		Payer:     gateway.NewAdapter(payments, widget, cfg.RazorpayKeyID),
		Composer:  composer.New(nil),
		DB:        db,
		Summaries: summaries,
		Currency:  cfg.Currency,
		Metrics:   checkoutMetrics,

		WriteTimeout: cfg.WriteTimeout,
	}
	if cfg.S3Bucket != "" {
		uploader, err := previews.NewS3Uploader(ctx, cfg.S3Bucket)
		if err != nil {
			log.Println("Preview uploads disabled:", err)
		} else {
			deps.Previews = uploader
		}
	}
	if mailer := utils.NewMailer("templates/orderConfirmation.html", cfg.FrontendURL); mailer.Enabled() {
		deps.Notifier = mailer
	}

	reconciler := checkout.NewReconciler(db, cfg.ReconcileStale, cfg.ReconcileInterval, checkoutMetrics)
	go reconciler.Run(ctx)

	carts := cart.NewRegistry()
	// Idle sessions must outlive a pending widget, or its cart vanishes mid-payment.
	idle := max(cfg.SessionIdle, cfg.WidgetTimeout+cfg.WriteTimeout)
	go checkout.NewJanitor(cfg.ReconcileInterval, idle, carts, summaries).Run(ctx)

	server := gin.Default()
	server.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	server.Use(middlewares.Session())

	routes.DefaultRoutes(server)
	routes.CartRoutes(server, &controllers.CartController{Carts: carts})
	routes.CheckoutRoutes(server,
		controllers.NewCheckoutController(checkout.NewOrchestrator(deps), carts, widget, cfg.WidgetTimeout),
		&controllers.ConfirmationController{Summaries: summaries})
	routes.PaymentRoutes(server, &controllers.PaymentController{Backend: local})
	routes.AdminRoutes(server, cfg.JWTSecret, &controllers.AdminController{Reconciler: reconciler})

	if err := server.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
