package handlers

import (
	"Streamora-Backend/domain"
	"Streamora-Backend/internal/api/presenters"
	"Streamora-Backend/pkg/discount"
	"Streamora-Backend/pkg/purchase"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	DiscountHandler interface {
		ValidateDiscount(c *fiber.Ctx) error
		CreatePromotionalCode(c *fiber.Ctx) error
	}

	discountHandler struct {
		discountService    discount.DiscountService
		purchaseRepository purchase.PurchaseRepository
		validator          *validator.Validate
	}
)

func NewDiscountHandler(
	discountService discount.DiscountService,
	purchaseRepository purchase.PurchaseRepository,
	validator *validator.Validate,
) DiscountHandler {
	return &discountHandler{
		discountService:    discountService,
		purchaseRepository: purchaseRepository,
		validator:          validator,
	}
}

func (h *discountHandler) ValidateDiscount(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.ValidateDiscountRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedValidateDiscount, err)
	}

	packageID, err := uuid.Parse(req.PackageID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedValidateDiscount, domain.ErrParseUUID)
	}

	pkg, err := h.purchaseRepository.GetCoinPackageByID(c.Context(), packageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedValidateDiscount, domain.ErrPackageNotFound)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedValidateDiscount, err)
	}

	res, err := h.discountService.Validate(c.Context(), req.Code, userID, pkg)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedValidateDiscount, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessValidateDiscount)
}

func (h *discountHandler) CreatePromotionalCode(c *fiber.Ctx) error {
	req := new(domain.CreateDiscountRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateDiscount, err)
	}

	res, err := h.discountService.CreatePromotionalCode(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateDiscount, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateDiscount)
}
