package domain

// Category описывает категорию товара
type Category struct {
	ID          int64
	WorkspaceID int64
	Name        string
}

func NewCategory(name string) *Category {
	return &Category{
		Name: name,
	}
}
