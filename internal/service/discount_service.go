package service

import (
	"context"
	"fmt"

	"saleshub/internal/model"
	"saleshub/internal/repository"

	"github.com/google/uuid"
)

// DiscountValidation is the result of checking one proposed discount
// percentage against a salesman's ceiling.
type DiscountValidation struct {
	IsValid    bool    `json:"is_valid"`
	MaxAllowed float64 `json:"max_allowed"`
	Message    string  `json:"message,omitempty"`
}

type DiscountService interface {
	ValidateDiscount(ctx context.Context, salesmanID string, discountPercent float64) DiscountValidation
}

type discountService struct {
	userRepo repository.UserRepository
}

func NewDiscountService(userRepo repository.UserRepository) DiscountService {
	return &discountService{userRepo: userRepo}
}

// ValidateDiscount is a pure read-and-compare: no side effects. The percent
// is computed by callers from per-line prices, so equality with the ceiling
// must pass (the boundary is inclusive to absorb float rounding).
func (s *discountService) ValidateDiscount(ctx context.Context, salesmanID string, discountPercent float64) DiscountValidation {
	id, err := uuid.Parse(salesmanID)
	if err != nil {
		return DiscountValidation{IsValid: false, MaxAllowed: 0, Message: "salesman not found"}
	}

	salesman, err := s.userRepo.GetByID(ctx, id)
	if err != nil || salesman.Role != model.RoleSalesman {
		return DiscountValidation{IsValid: false, MaxAllowed: 0, Message: "salesman not found"}
	}

	if discountPercent > salesman.MaxDiscountPercent {
		return DiscountValidation{
			IsValid:    false,
			MaxAllowed: salesman.MaxDiscountPercent,
			Message:    fmt.Sprintf("discount %.2f%% exceeds the allowed maximum of %.2f%%", discountPercent, salesman.MaxDiscountPercent),
		}
	}

	return DiscountValidation{IsValid: true, MaxAllowed: salesman.MaxDiscountPercent}
}
