package patient

import "strings"

// Patient maps to the patients table. DateOfBirth is carried as a
// YYYY-MM-DD string; repositories cast the DATE column to text so payloads
// stay JSON-safe end to end.
type Patient struct {
	ID           int64   `db:"id" json:"id"`
	FirstName    string  `db:"first_name" json:"first_name"`
	LastName     string  `db:"last_name" json:"last_name"`
	DateOfBirth  *string `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender       *string `db:"gender" json:"gender,omitempty"`
	Room         *string `db:"room" json:"room,omitempty"`
	DietaryNotes *string `db:"dietary_notes" json:"dietary_notes,omitempty"`
}

// FullName joins first and last name, tolerating either being empty.
func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Allergy maps to the allergies table.
type Allergy struct {
	ID        int64   `db:"id" json:"id"`
	PatientID int64   `db:"patient_id" json:"patient_id"`
	Allergen  string  `db:"allergen" json:"allergen"`
	Severity  *string `db:"severity" json:"severity,omitempty"`
}
