package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/hermes-labs/catalog-service/internal/cfg"
	"github.com/hermes-labs/catalog-service/internal/usecase"
	"github.com/hermes-labs/catalog-service/pkg/e"
	"github.com/hermes-labs/catalog-service/pkg/logger"
	"github.com/jimlawless/whereami"
)

type ImageHandler struct {
	imageUsecase usecase.ImageUC
	imageCfg     *cfg.ImageCfg
	logger       logger.Logger
}

func NewImageHandler(imageUsecase usecase.ImageUC, logger logger.Logger) *ImageHandler {
	return &ImageHandler{imageUsecase: imageUsecase, logger: logger}
}

// WithImageCfg задает лимиты загрузки; без конфигурации действует дефолт 2 MiB.
func (i *ImageHandler) WithImageCfg(imageCfg *cfg.ImageCfg) *ImageHandler {
	i.imageCfg = imageCfg
	return i
}

// listImages
//
//	@Summary	Список изображений
//	@Tags		images
//	@Produce	json
//	@Success	200	{array}		ImageDTO
//	@Failure	500	{object}	ErrorResponse
//	@Router		/images [get]
func (i *ImageHandler) listImages(w http.ResponseWriter, r *http.Request) {
	images, err := i.imageUsecase.ListImages(r.Context())
	if err != nil {
		i.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toImageDTOs(images))
}

// getImage
//
//	@Summary	Изображение по идентификатору
//	@Tags		images
//	@Produce	json
//	@Param		id	path		int	true	"ID изображения"
//	@Success	200	{object}	ImageDTO
//	@Failure	404	{object}	ErrorResponse
//	@Router		/images/{id} [get]
func (i *ImageHandler) getImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	image, err := i.imageUsecase.GetImage(r.Context(), id)
	if err != nil {
		i.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toImageDTO(image))
}

// getImageData
//
//	@Summary		Изображение с признаками типа хранения
//	@Description	Возвращает изображение с явными флагами isUrl/isBase64
//	@Tags			images
//	@Produce		json
//	@Param			id	path		int	true	"ID изображения"
//	@Success		200	{object}	ImageDataDTO
//	@Failure		404	{object}	ErrorResponse
//	@Router			/images/{id}/data [get]
func (i *ImageHandler) getImageData(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	data, err := i.imageUsecase.GetImageData(r.Context(), id)
	if err != nil {
		i.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toImageDataDTO(data))
}

// listByProduct
//
//	@Summary	Изображения товара
//	@Tags		images
//	@Produce	json
//	@Param		productId	path		int	true	"ID товара"
//	@Success	200			{array}		ImageDTO
//	@Failure	400			{object}	ErrorResponse
//	@Router		/images/product/{productId} [get]
func (i *ImageHandler) listByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "productId")
	if err != nil {
		WriteError(w, err)
		return
	}

	images, err := i.imageUsecase.ImagesByProduct(r.Context(), productID)
	if err != nil {
		i.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toImageDTOs(images))
}

// createImage
//
//	@Summary		Создание записи изображения
//	@Description	Принимает base64-строку либо абсолютный URL в imageData
//	@Tags			images
//	@Accept			json
//	@Produce		json
//	@Param			image	body		CreateImageReq	true	"Изображение"
//	@Success		201		{object}	ImageDTO
//	@Failure		400		{object}	ErrorResponse
//	@Router			/images [post]
func (i *ImageHandler) createImage(w http.ResponseWriter, r *http.Request) {
	var req CreateImageReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		i.logger.Warnf("%d bad request body: %s", http.StatusBadRequest, err.Error())
		WriteError(w, e.ErrInvalidRequestBody)
		return
	}

	created, err := i.imageUsecase.CreateImage(r.Context(), &usecase.CreateImageReq{
		ProductID: req.ProductID,
		ImageData: req.ImageData,
	})
	if err != nil {
		i.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toImageDTO(created))
}

// uploadImage
//
//	@Summary		Загрузка файла изображения
//	@Description	Принимает multipart/form-data, сохраняет файл в объектное хранилище и создает запись с его URL
//	@Tags			images
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			image		formData	file	true	"Файл изображения"
//	@Param			productId	formData	int		false	"ID товара"
//	@Success		201			{object}	ImageDTO
//	@Failure		400			{object}	ErrorResponse
//	@Failure		415			{object}	ErrorResponse
//	@Router			/images/upload [post]
func (i *ImageHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 8 << 20

	maxBytes := int64(2 << 20)
	if i.imageCfg != nil {
		maxBytes = i.imageCfg.MaxBytes
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+maxMemory)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		WriteError(w, e.ErrExpectedMultipart)
		return
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		i.logger.Warnf("%s", e.Wrap(whereami.WhereAmI(), err).Error())
		WriteError(w, e.ErrExpectedMultipart)
		return
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		WriteError(w, e.ErrNoFile)
		return
	}
	fh := files[0]

	if fh.Size > maxBytes {
		WriteError(w, e.ErrImageTooLarge)
		return
	}

	src, err := fh.Open()
	if err != nil {
		i.logger.Warnf("%s", e.Wrap(whereami.WhereAmI(), err).Error())
		WriteError(w, e.ErrInternalServerError)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxBytes+1))
	if err != nil {
		i.logger.Warnf("%s", e.Wrap(whereami.WhereAmI(), err).Error())
		WriteError(w, e.ErrInternalServerError)
		return
	}
	if int64(len(data)) > maxBytes {
		WriteError(w, e.ErrImageTooLarge)
		return
	}

	var productID *int64
	if raw := r.FormValue("productId"); raw != "" {
		id, err := parseFormID(raw)
		if err != nil {
			WriteError(w, err)
			return
		}
		productID = &id
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data[:min(len(data), 512)])
	}

	created, err := i.imageUsecase.UploadImage(r.Context(), &usecase.UploadImageReq{
		Data:      data,
		MimeType:  mimeType,
		Size:      int64(len(data)),
		Name:      fh.Filename,
		ProductID: productID,
	})
	if err != nil {
		i.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toImageDTO(created))
}

// deleteImage
//
//	@Summary	Удаление изображения
//	@Tags		images
//	@Param		id	path	int	true	"ID изображения"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/images/{id} [delete]
func (i *ImageHandler) deleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := i.imageUsecase.DeleteImage(r.Context(), id); err != nil {
		i.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusNoContent, nil)
}

// assignProduct
//
//	@Summary	Привязка изображения к товару
//	@Tags		images
//	@Param		id			path	int	true	"ID изображения"
//	@Param		productId	path	int	true	"ID товара"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/images/{id}/product/{productId} [put]
func (i *ImageHandler) assignProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	productID, err := parseIDParam(r, "productId")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := i.imageUsecase.AssignImageToProduct(r.Context(), id, productID); err != nil {
		i.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusNoContent, nil)
}
