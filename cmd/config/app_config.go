package config

import (
	"Streamora-Backend/internal/api/handlers"
	"Streamora-Backend/internal/api/routes"
	"Streamora-Backend/internal/middleware"
	"Streamora-Backend/internal/utils"
	"Streamora-Backend/internal/utils/storage"
	"Streamora-Backend/pkg/discount"
	"Streamora-Backend/pkg/gift"
	"Streamora-Backend/pkg/jwt"
	"Streamora-Backend/pkg/midtrans"
	"Streamora-Backend/pkg/purchase"
	"Streamora-Backend/pkg/user"
	"Streamora-Backend/pkg/wallet"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	appLog := logrus.New()
	appLog.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	userRepository := user.NewUserRepository(db)
	walletRepository := wallet.NewWalletRepository(db)
	purchaseRepository := purchase.NewPurchaseRepository(db)
	discountRepository := discount.NewDiscountRepository(db)
	giftRepository := gift.NewGiftRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	walletService := wallet.NewWalletService(walletRepository)
	midtransService := midtrans.NewMidtransService()
	discountService := discount.NewDiscountService(discountRepository)
	purchaseService := purchase.NewPurchaseService(
		db,
		purchaseRepository,
		walletRepository,
		userRepository,
		discountService,
		midtransService,
		appLog,
	)
	giftService := gift.NewGiftService(db, giftRepository, walletRepository, s3, appLog)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	walletHandler := handlers.NewWalletHandler(walletService)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService, midtransService, validator)
	discountHandler := handlers.NewDiscountHandler(discountService, purchaseRepository, validator)
	giftHandler := handlers.NewGiftHandler(giftService, validator)

	// routes
	routesConfig := routes.Config{
		App:             app,
		UserHandler:     userHandler,
		WalletHandler:   walletHandler,
		PurchaseHandler: purchaseHandler,
		DiscountHandler: discountHandler,
		GiftHandler:     giftHandler,
		Middleware:      middlewares,
		JWTService:      jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
