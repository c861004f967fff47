package patient

import (
	"context"
	"fmt"
)

type Service struct {
	patients  Repository
	allergies AllergyRepository
}

func NewService(patients Repository, allergies AllergyRepository) *Service {
	return &Service{patients: patients, allergies: allergies}
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	if id <= 0 {
		return nil, fmt.Errorf("patient id must be positive")
	}
	return s.patients.GetByID(ctx, id)
}

func (s *Service) AllergiesFor(ctx context.Context, patientID int64) ([]*Allergy, error) {
	if patientID <= 0 {
		return nil, fmt.Errorf("patient id must be positive")
	}
	return s.allergies.ListByPatient(ctx, patientID)
}
