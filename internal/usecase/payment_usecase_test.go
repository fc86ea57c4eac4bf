package usecase

import (
	"context"
	"errors"
	"testing"

	"ktcomp_payments/internal/domain/entities"
	"ktcomp_payments/internal/usecase/interfaces"
	mock_interfaces "ktcomp_payments/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestPaymentUseCase_Initiate_Validations(t *testing.T) {
	t.Run("non-positive amount", func(t *testing.T) {
		uc := NewPaymentUseCase(nil, nil)
		_, err := uc.Initiate(context.Background(), 0, "0781234567", "")
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("negative amount", func(t *testing.T) {
		uc := NewPaymentUseCase(nil, nil)
		_, err := uc.Initiate(context.Background(), -500, "0781234567", "")
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("malformed number", func(t *testing.T) {
		uc := NewPaymentUseCase(nil, nil)
		for _, number := range []string{"", "12345", "0711234567", "078123456", "07812345678", "hello"} {
			if _, err := uc.Initiate(context.Background(), 500, number, ""); !errors.Is(err, ErrInvalidNumber) {
				t.Fatalf("number %q: expected ErrInvalidNumber, got %v", number, err)
			}
		}
	})
}

func TestPaymentUseCase_Initiate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewPaymentUseCase(repo, gateway)

		var createdID string
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) {
				if p.Status != entities.PaymentStatusPending {
					t.Fatalf("expected PENDING at creation, got %s", p.Status)
				}
				if p.ProviderRef != "" {
					t.Fatalf("provider ref must not be set at creation")
				}
				createdID = p.ID
				return p, nil
			})
		gateway.EXPECT().Cashin(gomock.Any(), interfaces.CashinRequest{Amount: 500, Number: "0781234567"}).
			Return(interfaces.CashinResponse{Ref: "R1", Status: "pending"}, nil)
		repo.EXPECT().SetProviderRef(gomock.Any(), gomock.Any(), "R1").Return(nil)

		p, err := uc.Initiate(context.Background(), 500, "0781234567", "ord-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ID == "" || p.ID != createdID {
			t.Fatalf("expected created payment id, got %q", p.ID)
		}
		if p.ProviderRef != "R1" {
			t.Fatalf("expected provider ref R1, got %q", p.ProviderRef)
		}
		if p.OrderID != "ord-1" {
			t.Fatalf("expected order id carried, got %q", p.OrderID)
		}
	})

	t.Run("country code normalized", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewPaymentUseCase(repo, gateway)

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) {
				if p.Number != "0781234567" {
					t.Fatalf("expected normalized number, got %q", p.Number)
				}
				return p, nil
			})
		gateway.EXPECT().Cashin(gomock.Any(), interfaces.CashinRequest{Amount: 500, Number: "0781234567"}).
			Return(interfaces.CashinResponse{Ref: "R2"}, nil)
		repo.EXPECT().SetProviderRef(gomock.Any(), gomock.Any(), "R2").Return(nil)

		if _, err := uc.Initiate(context.Background(), 500, "+250781234567", ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("gateway failure keeps pending record", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewPaymentUseCase(repo, gateway)

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) { return p, nil })
		gateway.EXPECT().Cashin(gomock.Any(), gomock.Any()).
			Return(interfaces.CashinResponse{}, errors.New("provider 502"))
		// No SetProviderRef and no delete: the PENDING row is retained.

		p, err := uc.Initiate(context.Background(), 500, "0781234567", "")
		if !errors.Is(err, ErrGatewayCashin) {
			t.Fatalf("expected ErrGatewayCashin, got %v", err)
		}
		if p.ID == "" {
			t.Fatalf("expected payment id returned alongside gateway error")
		}
		if p.Status != entities.PaymentStatusPending {
			t.Fatalf("expected payment kept PENDING, got %s", p.Status)
		}
	})

	t.Run("repository create failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewPaymentUseCase(repo, gateway)

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Payment{}, errors.New("db"))

		if _, err := uc.Initiate(context.Background(), 500, "0781234567", ""); err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})
}

func TestPaymentUseCase_GetByID(t *testing.T) {
	t.Run("empty id", func(t *testing.T) {
		uc := NewPaymentUseCase(nil, nil)
		if _, err := uc.GetByID(context.Background(), "  "); !errors.Is(err, ErrInvalidPaymentID) {
			t.Fatalf("expected ErrInvalidPaymentID, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		uc := NewPaymentUseCase(repo, nil)

		repo.EXPECT().GetByID(gomock.Any(), "P9").Return(entities.Payment{}, nil)

		if _, err := uc.GetByID(context.Background(), "P9"); !errors.Is(err, ErrPaymentNotFound) {
			t.Fatalf("expected ErrPaymentNotFound, got %v", err)
		}
	})

	t.Run("found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		uc := NewPaymentUseCase(repo, nil)

		repo.EXPECT().GetByID(gomock.Any(), "P1").
			Return(entities.Payment{ID: "P1", Status: entities.PaymentStatusSuccessful}, nil)

		p, err := uc.GetByID(context.Background(), "P1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Status != entities.PaymentStatusSuccessful {
			t.Fatalf("expected SUCCESSFUL, got %s", p.Status)
		}
	})
}
