package midtrans

import (
	"Streamora-Backend/domain"
	"Streamora-Backend/internal/utils"
	"context"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

const (
	PaymentStatusSuccess = "SUCCESS"
	PaymentStatusPending = "PENDING"
	PaymentStatusFailed  = "FAILED"
)

type (
	// MidtransService is the payment-gateway boundary. The purchase flow only
	// ever sees this interface, so tests substitute a double for it.
	MidtransService interface {
		CreateCheckoutSession(ctx context.Context, req domain.CheckoutSessionRequest) (*domain.CheckoutSession, error)
		VerifyPayment(ctx context.Context, orderID string) (string, error)
	}

	midtransService struct {
		snapClient snap.Client
		coreClient coreapi.Client
	}
)

func NewMidtransService() MidtransService {
	serverKey := utils.GetConfig("SERVER_KEY")
	env := midtrans.Sandbox
	if utils.GetConfig("IsProd") == "true" {
		env = midtrans.Production
	}

	var snapClient snap.Client
	snapClient.New(serverKey, env)
	var coreClient coreapi.Client
	coreClient.New(serverKey, env)

	return &midtransService{
		snapClient: snapClient,
		coreClient: coreClient,
	}
}

func (s *midtransService) CreateCheckoutSession(ctx context.Context, req domain.CheckoutSessionRequest) (*domain.CheckoutSession, error) {
	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: req.Amount,
		},
	}
	if req.Email != "" {
		snapReq.CustomerDetail = &midtrans.CustomerDetails{
			Email: req.Email,
		}
	}

	resp, err := s.snapClient.CreateTransaction(snapReq)
	if err != nil {
		return nil, err
	}

	return &domain.CheckoutSession{
		SessionID:   resp.Token,
		CheckoutURL: resp.RedirectURL,
	}, nil
}

// VerifyPayment re-queries the gateway instead of trusting the notification
// body. Notifications are delivered at least once; callers must deduplicate.
func (s *midtransService) VerifyPayment(ctx context.Context, orderID string) (string, error) {
	resp, err := s.coreClient.CheckTransaction(orderID)
	if err != nil {
		return "", err
	}

	switch resp.TransactionStatus {
	case "capture":
		if resp.FraudStatus == "accept" {
			return PaymentStatusSuccess, nil
		}
		return PaymentStatusPending, nil
	case "settlement":
		return PaymentStatusSuccess, nil
	case "pending":
		return PaymentStatusPending, nil
	case "deny", "cancel", "expire", "failure":
		return PaymentStatusFailed, nil
	default:
		return PaymentStatusPending, nil
	}
}
