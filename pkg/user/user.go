package user

import "github.com/shopspring/decimal"

type User struct {
	Id          int
	Uid         string
	Username    string
	DisplayName string
	// RatePerHour is the user's current hourly rate. It is copied onto every new time entry and
	// never read back when costing entries that already exist.
	RatePerHour  decimal.NullDecimal
	DepartmentId *int
	IsAdmin      bool
}

// InDepartment reports whether the user is assigned to any department.
func (u User) InDepartment() bool {
	return u.DepartmentId != nil
}
