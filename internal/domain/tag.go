package domain

// Tag описывает метку товара
type Tag struct {
	ID          int64
	WorkspaceID int64
	Name        string
}

// Stock описывает тип складского учета товара
type Stock struct {
	ID          int64
	WorkspaceID int64
	StockType   string
}
