package domain

// WorkType is a category entries can be filed under.
type WorkType struct {
	BizType string
	BizCode string
	BizName string
}
