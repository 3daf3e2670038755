package project

type Project struct {
	Id   int
	Name string
}
