package handlers

import (
	"Streamora-Backend/domain"
	"Streamora-Backend/internal/api/presenters"
	"Streamora-Backend/pkg/wallet"

	"github.com/gofiber/fiber/v2"
)

type (
	WalletHandler interface {
		GetWallet(c *fiber.Ctx) error
	}

	walletHandler struct {
		walletService wallet.WalletService
	}
)

func NewWalletHandler(walletService wallet.WalletService) WalletHandler {
	return &walletHandler{
		walletService: walletService,
	}
}

func (h *walletHandler) GetWallet(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.walletService.GetWallet(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetWallet, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetWallet)
}
