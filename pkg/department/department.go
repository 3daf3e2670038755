package department

type Department struct {
	Id    int
	Name  string
	Color string
	// MaxSessionMinutes is the longest single session users of the department may log.
	MaxSessionMinutes int
}
