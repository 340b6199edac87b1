package domain

import (
	"strings"
	"time"
)

// Image описывает изображение товара. ImageData хранит либо base64-строку,
// либо абсолютный URL; различаются они только префиксом http:// / https://,
// отдельного поля-признака в схеме нет.
type Image struct {
	ID          int64
	WorkspaceID int64
	ProductID   *int64
	ImageData   string
	CreatedAt   time.Time
}

func NewImage(imageData string, productID *int64) *Image {
	return &Image{
		ImageData: imageData,
		ProductID: productID,
	}
}

// IsURL сообщает, хранится ли изображение как внешний URL.
func (i *Image) IsURL() bool {
	return strings.HasPrefix(i.ImageData, "http://") || strings.HasPrefix(i.ImageData, "https://")
}
