package handlers

import (
	"Streamora-Backend/domain"
	"Streamora-Backend/internal/api/presenters"
	"Streamora-Backend/pkg/midtrans"
	"Streamora-Backend/pkg/purchase"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	PurchaseHandler interface {
		GetCoinPackages(c *fiber.Ctx) error
		InitiateCheckout(c *fiber.Ctx) error
		GetPurchaseHistory(c *fiber.Ctx) error
		MidtransWebhookHandler(c *fiber.Ctx) error
	}

	purchaseHandler struct {
		purchaseService purchase.PurchaseService
		midtransService midtrans.MidtransService
		validator       *validator.Validate
	}
)

func NewPurchaseHandler(
	purchaseService purchase.PurchaseService,
	midtransService midtrans.MidtransService,
	validator *validator.Validate,
) PurchaseHandler {
	return &purchaseHandler{
		purchaseService: purchaseService,
		midtransService: midtransService,
		validator:       validator,
	}
}

func (h *purchaseHandler) GetCoinPackages(c *fiber.Ctx) error {
	packages, err := h.purchaseService.GetCoinPackages(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetCoinPackages, err)
	}

	return presenters.SuccessResponse(c, packages, fiber.StatusOK, domain.MessageSuccessGetCoinPackages)
}

func (h *purchaseHandler) InitiateCheckout(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.CheckoutRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedInitiateCheckout, err)
	}

	res, err := h.purchaseService.InitiateCheckout(c.Context(), *req, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCheckoutCreationFailed) {
			return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedInitiateCheckout, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedInitiateCheckout, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessInitiateCheckout)
}

func (h *purchaseHandler) GetPurchaseHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	purchases, count, err := h.purchaseService.GetPurchaseHistory(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetPurchaseHistory, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"purchases": purchases,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetPurchaseHistory)
}

// MidtransWebhookHandler receives payment notifications. The notification
// body is untrusted; the transaction status is re-verified against the
// gateway before any state changes.
func (h *purchaseHandler) MidtransWebhookHandler(c *fiber.Ctx) error {
	var notification map[string]interface{}
	if err := c.BodyParser(&notification); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	orderID, ok := notification["order_id"].(string)
	if !ok || orderID == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedProcessWebhook, domain.ErrPurchaseNotFound)
	}

	status, err := h.midtransService.VerifyPayment(c.Context(), orderID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedProcessWebhook, err)
	}

	switch status {
	case midtrans.PaymentStatusSuccess:
		err = h.purchaseService.CompletePurchase(c.Context(), orderID)
	case midtrans.PaymentStatusFailed:
		err = h.purchaseService.FailPurchase(c.Context(), orderID, "payment failed at gateway")
	default:
		// Still pending at the gateway; a later notification settles it.
	}
	if err != nil {
		if errors.Is(err, domain.ErrPurchaseNotFound) || errors.Is(err, domain.ErrPurchaseNotPending) {
			// Logged by the service; a 200 stops the gateway from retrying a
			// notification that can never be applied.
			return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessProcessWebhook)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedProcessWebhook, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessProcessWebhook)
}
