package routes

import (
	"Streamora-Backend/domain"
	"Streamora-Backend/internal/api/handlers"
	"Streamora-Backend/internal/middleware"
	"Streamora-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App             *fiber.App
	UserHandler     handlers.UserHandler
	WalletHandler   handlers.WalletHandler
	PurchaseHandler handlers.PurchaseHandler
	DiscountHandler handlers.DiscountHandler
	GiftHandler     handlers.GiftHandler
	Middleware      middleware.Middleware
	JWTService      jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Coins()
	c.Gifts()
	c.Admin()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
	}
}

func (c *Config) Coins() {
	coins := c.App.Group("/api/v1/coins", c.Middleware.AuthMiddleware(c.JWTService))
	{
		coins.Get("/packages", c.PurchaseHandler.GetCoinPackages)
		coins.Get("/wallet", c.WalletHandler.GetWallet)
		coins.Get("/history", c.PurchaseHandler.GetPurchaseHistory)
		coins.Post("/checkout", c.PurchaseHandler.InitiateCheckout)
		coins.Post("/discounts/validate", c.DiscountHandler.ValidateDiscount)
	}
}

func (c *Config) Gifts() {
	gifts := c.App.Group("/api/v1/gifts", c.Middleware.AuthMiddleware(c.JWTService))
	{
		gifts.Get("", c.GiftHandler.GetGifts)
		gifts.Post("/send", c.GiftHandler.SendGift)
		gifts.Get("/history", c.GiftHandler.GetGiftHistory)
	}
}

func (c *Config) Admin() {
	admin := c.App.Group(
		"/api/v1/admin",
		c.Middleware.AuthMiddleware(c.JWTService),
		c.Middleware.RequireRole(domain.RoleAdmin),
	)
	{
		admin.Post("/gifts", c.GiftHandler.CreateGift)
		admin.Post("/gifts/:id/image", c.GiftHandler.UploadGiftImage)
		admin.Post("/discounts", c.DiscountHandler.CreatePromotionalCode)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Post("/webhook/midtrans", c.PurchaseHandler.MidtransWebhookHandler)
}
