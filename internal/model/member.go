package model

import "time"

// Department is the crew department a member belongs to.
type Department string

// Departments.
const (
	DepartmentGrip       Department = "Grip"
	DepartmentElectric   Department = "Electric"
	DepartmentCamera     Department = "Camera"
	DepartmentProduction Department = "Production"
	DepartmentArt        Department = "Art"
)

// Departments lists every department in display order.
var Departments = []Department{
	DepartmentGrip,
	DepartmentElectric,
	DepartmentCamera,
	DepartmentProduction,
	DepartmentArt,
}

// Valid reports whether d is a known department.
func (d Department) Valid() bool {
	for _, known := range Departments {
		if d == known {
			return true
		}
	}
	return false
}

// CompanyMember is one crew roster entry. Equipment refers to members by
// name and position only, never by id.
type CompanyMember struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Position   string     `json:"position"`
	Department Department `json:"department"`
	Email      string     `json:"email,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	JoinedDate time.Time  `json:"joined_date"`
}
