package wallet

import (
	"Streamora-Backend/domain"
	"context"

	"github.com/google/uuid"
)

type (
	WalletService interface {
		GetWallet(ctx context.Context, userID string) (*domain.WalletResponse, error)
	}

	walletService struct {
		walletRepository WalletRepository
	}
)

func NewWalletService(walletRepository WalletRepository) WalletService {
	return &walletService{
		walletRepository: walletRepository,
	}
}

func (s *walletService) GetWallet(ctx context.Context, userID string) (*domain.WalletResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	wallet, err := s.walletRepository.GetOrCreateWallet(ctx, nil, userUUID)
	if err != nil {
		return nil, err
	}

	return &domain.WalletResponse{
		UserID:      wallet.UserID.String(),
		Balance:     wallet.Balance,
		TotalEarned: wallet.TotalEarned,
		TotalSpent:  wallet.TotalSpent,
	}, nil
}
