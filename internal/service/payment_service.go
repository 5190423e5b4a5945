package service

import (
	"errors"
	"time"

	"github.com/pensao-tracker/internal/logger"
	"github.com/pensao-tracker/internal/models"
	"github.com/pensao-tracker/internal/repository"
)

const (
	MsgPaymentChildNotFound = "Filho não encontrado ou não autorizado para este utilizador"
	MsgPaymentInvalidFormat = "Formato de data, valor, mês ou ano inválido"
	MsgPaymentFutureDate    = "A data de pagamento não pode ser no futuro"
	MsgPaymentNotFound      = "Pagamento não encontrado"
	MsgPaymentForbidden     = "Não autorizado: O pagamento não pertence ao seu filho"
	MsgInvalidAmount        = "Formato de valor inválido"
	MsgInvalidMonthRef      = "Formato de mês de referência inválido"
	MsgInvalidYearRef       = "Formato de ano de referência inválido"
	MsgPaymentsListFailed   = "Erro interno do servidor ao buscar pagamentos"
	MsgPaymentCreated       = "Pagamento adicionado com sucesso"
	MsgPaymentUpdated       = "Pagamento atualizado com sucesso"
	MsgPaymentDeleted       = "Pagamento excluído com sucesso"
)

// PaymentService manages payments. Ownership is checked through the parent
// child: on create and list a foreign child is not found, while on update and
// delete a payment that exists but belongs to another user is forbidden.
type PaymentService struct {
	paymentRepo *repository.PaymentRepository
	childRepo   *repository.ChildRepository
	now         func() time.Time
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo *repository.PaymentRepository, childRepo *repository.ChildRepository) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		childRepo:   childRepo,
		now:         time.Now,
	}
}

// SetClock replaces the time source
func (s *PaymentService) SetClock(now func() time.Time) {
	s.now = now
}

// CreatePaymentRequest represents the create payment request
type CreatePaymentRequest struct {
	ChildID        interface{} `json:"child_id"`
	Amount         interface{} `json:"amount"`
	PaymentDate    interface{} `json:"payment_date"`
	MonthReference interface{} `json:"month_reference"`
	YearReference  interface{} `json:"year_reference"`
}

// UpdatePaymentRequest represents the partial update request
type UpdatePaymentRequest struct {
	Amount         interface{} `json:"amount"`
	PaymentDate    interface{} `json:"payment_date"`
	MonthReference interface{} `json:"month_reference"`
	YearReference  interface{} `json:"year_reference"`
}

// Create records a payment against one of the user's children
func (s *PaymentService) Create(userID uint, req *CreatePaymentRequest) (*models.Payment, error) {
	if isMissing(req.ChildID) || isMissing(req.Amount) || isMissing(req.PaymentDate) {
		return nil, validationError(MsgMissingData)
	}

	childID, err := parseID(req.ChildID)
	if err != nil {
		return nil, newError(ErrNotFound, MsgPaymentChildNotFound)
	}
	child, err := s.childRepo.GetByIDAndUserID(childID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrChildNotFound) {
			return nil, newError(ErrNotFound, MsgPaymentChildNotFound)
		}
		return nil, err
	}

	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		return nil, validationError(MsgPaymentInvalidFormat)
	}
	amount, err := parseFloat(req.Amount)
	if err != nil {
		return nil, validationError(MsgPaymentInvalidFormat)
	}
	month, err := optionalInt(req.MonthReference)
	if err != nil {
		return nil, validationError(MsgPaymentInvalidFormat)
	}
	year, err := optionalInt(req.YearReference)
	if err != nil {
		return nil, validationError(MsgPaymentInvalidFormat)
	}

	if paymentDate.After(today(s.now())) {
		return nil, validationError(MsgPaymentFutureDate)
	}

	payment := &models.Payment{
		ChildID:        child.ID,
		ValuePaid:      amount,
		PaymentDate:    paymentDate,
		MonthReference: month,
		YearReference:  year,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// ListByChild returns the payments of one of the user's children, oldest first
func (s *PaymentService) ListByChild(userID, childID uint) ([]models.Payment, error) {
	if _, err := s.childRepo.GetByIDAndUserID(childID, userID); err != nil {
		if errors.Is(err, repository.ErrChildNotFound) {
			return nil, newError(ErrNotFound, MsgChildNotFound)
		}
		return nil, err
	}

	payments, err := s.paymentRepo.GetByChildID(childID)
	if err != nil {
		logger.Error("list payments for child %d: %v", childID, err)
		return nil, &Error{Kind: ErrInternal, Message: MsgPaymentsListFailed, Detail: err.Error(), Cause: err}
	}
	return payments, nil
}

// Update overwrites the provided fields of a payment
func (s *PaymentService) Update(userID, paymentID uint, req *UpdatePaymentRequest) (*models.Payment, error) {
	payment, err := s.getOwned(userID, paymentID)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		amount, err := parseFloat(req.Amount)
		if err != nil {
			return nil, validationError(MsgInvalidAmount)
		}
		payment.ValuePaid = amount
	}
	if !isMissing(req.PaymentDate) {
		paymentDate, err := parseDate(req.PaymentDate)
		if err != nil {
			return nil, validationError(MsgInvalidDate)
		}
		if paymentDate.After(today(s.now())) {
			return nil, validationError(MsgPaymentFutureDate)
		}
		payment.PaymentDate = paymentDate
	}
	if req.MonthReference != nil {
		month, err := parseInt(req.MonthReference)
		if err != nil {
			return nil, validationError(MsgInvalidMonthRef)
		}
		payment.MonthReference = &month
	}
	if req.YearReference != nil {
		year, err := parseInt(req.YearReference)
		if err != nil {
			return nil, validationError(MsgInvalidYearRef)
		}
		payment.YearReference = &year
	}

	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// Delete removes a payment
func (s *PaymentService) Delete(userID, paymentID uint) error {
	payment, err := s.getOwned(userID, paymentID)
	if err != nil {
		return err
	}
	return s.paymentRepo.Delete(payment.ID)
}

func (s *PaymentService) getOwned(userID, paymentID uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, newError(ErrNotFound, MsgPaymentNotFound)
		}
		return nil, err
	}

	if _, err := s.childRepo.GetByIDAndUserID(payment.ChildID, userID); err != nil {
		if errors.Is(err, repository.ErrChildNotFound) {
			return nil, newError(ErrForbidden, MsgPaymentForbidden)
		}
		return nil, err
	}
	return payment, nil
}

func optionalInt(v interface{}) (*int, error) {
	if v == nil {
		return nil, nil
	}
	n, err := parseInt(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
