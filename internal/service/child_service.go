package service

import (
	"errors"
	"time"

	"github.com/pensao-tracker/internal/models"
	"github.com/pensao-tracker/internal/repository"
)

const (
	MsgMissingData        = "Dados em falta"
	MsgChildInvalidFormat = "Formato de data ou valor inválido"
	MsgChildNotFound      = "Filho não encontrado ou não autorizado"
	MsgInvalidDate        = "Formato de data inválido"
	MsgInvalidAlimony     = "Formato de valor de pensão mensal inválido"
	MsgInvalidYears       = "Formato de anos habilitados inválido. Deve ser uma lista."
	MsgChildCreated       = "Filho adicionado com sucesso"
	MsgChildUpdated       = "Filho atualizado com sucesso"
	MsgChildDeleted       = "Filho excluído com sucesso"
)

// ChildService manages the children of the authenticated user. Every lookup
// is scoped to the caller; a child of another user is reported as not found.
type ChildService struct {
	childRepo *repository.ChildRepository
	now       func() time.Time
}

// NewChildService creates a new ChildService
func NewChildService(childRepo *repository.ChildRepository) *ChildService {
	return &ChildService{
		childRepo: childRepo,
		now:       time.Now,
	}
}

// SetClock replaces the time source
func (s *ChildService) SetClock(now func() time.Time) {
	s.now = now
}

// ChildRequest is the create/update body. Amount, date and years are kept
// loosely typed and validated here so malformed values get domain messages.
type ChildRequest struct {
	FullName            *string     `json:"full_name"`
	Gender              *string     `json:"gender"`
	DateOfBirth         interface{} `json:"date_of_birth"`
	MonthlyAlimonyValue interface{} `json:"monthly_alimony_value"`
	EnabledYears        interface{} `json:"enabled_years"`
}

// Create adds a child for the user
func (s *ChildService) Create(userID uint, req *ChildRequest) (*models.Child, error) {
	if req.FullName == nil || isMissing(*req.FullName) ||
		req.Gender == nil || isMissing(*req.Gender) ||
		isMissing(req.DateOfBirth) || isMissing(req.MonthlyAlimonyValue) {
		return nil, validationError(MsgMissingData)
	}

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, validationError(MsgChildInvalidFormat)
	}
	amount, err := parseFloat(req.MonthlyAlimonyValue)
	if err != nil || amount < 0 {
		return nil, validationError(MsgChildInvalidFormat)
	}

	years := []int{s.now().Year()}
	if req.EnabledYears != nil {
		years, err = parseYears(req.EnabledYears)
		if err != nil {
			return nil, validationError(MsgInvalidYears)
		}
	}

	gender := *req.Gender
	child := &models.Child{
		UserID:              userID,
		FullName:            *req.FullName,
		Gender:              &gender,
		DateOfBirth:         dob,
		MonthlyAlimonyValue: amount,
		EnabledYears:        years,
	}
	if err := s.childRepo.Create(child); err != nil {
		return nil, err
	}
	return child, nil
}

// List returns every child of the user
func (s *ChildService) List(userID uint) ([]models.Child, error) {
	return s.childRepo.GetByUserID(userID)
}

// Get returns one child of the user
func (s *ChildService) Get(userID, childID uint) (*models.Child, error) {
	child, err := s.childRepo.GetByIDAndUserID(childID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrChildNotFound) {
			return nil, newError(ErrNotFound, MsgChildNotFound)
		}
		return nil, err
	}
	return child, nil
}

// Update overwrites the provided fields of a child
func (s *ChildService) Update(userID, childID uint, req *ChildRequest) (*models.Child, error) {
	child, err := s.Get(userID, childID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		child.FullName = *req.FullName
	}
	if req.Gender != nil {
		gender := *req.Gender
		child.Gender = &gender
	}
	if !isMissing(req.DateOfBirth) {
		dob, err := parseDate(req.DateOfBirth)
		if err != nil {
			return nil, validationError(MsgInvalidDate)
		}
		child.DateOfBirth = dob
	}
	if req.MonthlyAlimonyValue != nil {
		amount, err := parseFloat(req.MonthlyAlimonyValue)
		if err != nil || amount < 0 {
			return nil, validationError(MsgInvalidAlimony)
		}
		child.MonthlyAlimonyValue = amount
	}
	if req.EnabledYears != nil {
		years, err := parseYears(req.EnabledYears)
		if err != nil {
			return nil, validationError(MsgInvalidYears)
		}
		child.EnabledYears = years
	}

	if err := s.childRepo.Update(child); err != nil {
		return nil, err
	}
	return child, nil
}

// Delete removes a child of the user together with its payments
func (s *ChildService) Delete(userID, childID uint) error {
	child, err := s.Get(userID, childID)
	if err != nil {
		return err
	}
	return s.childRepo.Delete(child.ID)
}
