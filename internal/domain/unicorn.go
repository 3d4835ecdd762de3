package domain

// Gender of a unicorn.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Unicorn is a vehicle in the fleet.
type Unicorn struct {
	Name   string `json:"Name"`
	Color  string `json:"Color"`
	Gender Gender `json:"Gender"`
}
