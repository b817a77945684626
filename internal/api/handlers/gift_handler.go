package handlers

import (
	"Streamora-Backend/domain"
	"Streamora-Backend/internal/api/presenters"
	"Streamora-Backend/pkg/gift"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	GiftHandler interface {
		GetGifts(c *fiber.Ctx) error
		SendGift(c *fiber.Ctx) error
		GetGiftHistory(c *fiber.Ctx) error
		CreateGift(c *fiber.Ctx) error
		UploadGiftImage(c *fiber.Ctx) error
	}

	giftHandler struct {
		giftService gift.GiftService
		validator   *validator.Validate
	}
)

func NewGiftHandler(giftService gift.GiftService, validator *validator.Validate) GiftHandler {
	return &giftHandler{
		giftService: giftService,
		validator:   validator,
	}
}

func (h *giftHandler) GetGifts(c *fiber.Ctx) error {
	gifts, err := h.giftService.GetGifts(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetGifts, err)
	}

	return presenters.SuccessResponse(c, gifts, fiber.StatusOK, domain.MessageSuccessGetGifts)
}

func (h *giftHandler) SendGift(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.SendGiftRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSendGift, err)
	}

	res, err := h.giftService.SendGift(c.Context(), *req, userID)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			return presenters.ErrorResponse(c, fiber.StatusPaymentRequired, domain.MessageFailedSendGift, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSendGift, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSendGift)
}

func (h *giftHandler) GetGiftHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	direction := c.Query("direction", "all")

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	transactions, count, err := h.giftService.GetGiftHistory(c.Context(), userID, direction, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetGiftHistory, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"transactions": transactions,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetGiftHistory)
}

func (h *giftHandler) CreateGift(c *fiber.Ctx) error {
	req := new(domain.CreateGiftRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateGift, err)
	}

	res, err := h.giftService.CreateGift(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateGift, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateGift)
}

func (h *giftHandler) UploadGiftImage(c *fiber.Ctx) error {
	giftID := c.Params("id")

	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.giftService.UploadGiftImage(c.Context(), giftID, file)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUploadImage)
}
