package domain

import "github.com/shopspring/decimal"

// Plastic описывает материал печати и его стоимость за грамм
type Plastic struct {
	ID          int64
	WorkspaceID int64
	Name        string
	CostPerGram decimal.Decimal
}
