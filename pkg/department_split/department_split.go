package department_split

import (
	"errors"

	"github.com/billable/billable/internal/utils"
	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("budget amount must be greater than zero with at most two decimal places")
var ErrDuplicateDepartment = errors.New("department listed more than once")

// DepartmentSplit reserves a flat monthly amount of a project's budget for one department.
type DepartmentSplit struct {
	Id           int
	ProjectId    int
	DepartmentId int
	BudgetAmount decimal.Decimal
}

func (s DepartmentSplit) Validate() error {
	if !utils.IsMoneyAmount(s.BudgetAmount, 12) {
		return ErrInvalidAmount
	}
	return nil
}

// ByDepartment indexes splits by department id.
func ByDepartment(splits []DepartmentSplit) map[int]DepartmentSplit {
	result := make(map[int]DepartmentSplit, len(splits))
	for _, s := range splits {
		result[s.DepartmentId] = s
	}
	return result
}
