package patient

import "context"

type Repository interface {
	// List returns a page of patients and the total count. A limit of zero
	// or less returns every row; the roster listing depends on that.
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	GetByID(ctx context.Context, id int64) (*Patient, error)
}

type AllergyRepository interface {
	ListByPatient(ctx context.Context, patientID int64) ([]*Allergy, error)
}
