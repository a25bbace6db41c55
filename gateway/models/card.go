package models

type CreditCard struct {
	Number            string
	Month             int
	Year              int
	VerificationValue string
	FirstName         string
	LastName          string
}
