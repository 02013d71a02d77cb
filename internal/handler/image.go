package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"catalyst/internal/model"
	httpx "catalyst/internal/pkg/http"
	"catalyst/internal/service"
)

// ImageHandler 图片生成处理器
type ImageHandler struct {
	images *service.ImageService
}

// NewImageHandler 创建图片生成处理器
func NewImageHandler(images *service.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// Generate 生成 SVG 图片
// 错误响应为 {code, error}
// @Summary      生成图片
// @Tags         图片
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      model.GenerateImageRequest  true  "提示词"
// @Success      200      {object}  model.GenerateImageResponse
// @Failure      400      {object}  model.ImageErrorResponse
// @Failure      500      {object}  model.ImageErrorResponse
// @Router       /api/generate-image [post]
func (h *ImageHandler) Generate(c *gin.Context) {
	var req model.GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ImageErrorResponse{Code: httpx.CodeInvalidBody, Error: "O campo 'prompt' é obrigatório"})
		return
	}

	image, err := h.images.Generate(c.Request.Context(), req.Prompt, req.Size)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyPrompt):
			c.JSON(http.StatusBadRequest, model.ImageErrorResponse{Code: httpx.CodeValidation, Error: "O campo 'prompt' é obrigatório"})
		case errors.Is(err, service.ErrImageProviderUnavailable):
			c.JSON(http.StatusBadRequest, model.ImageErrorResponse{Code: httpx.CodeValidation, Error: "Nenhum provedor de imagem configurado"})
		default:
			c.JSON(http.StatusInternalServerError, model.ImageErrorResponse{Code: httpx.CodeInternal, Error: "Erro ao gerar imagem. Tente novamente mais tarde."})
		}
		return
	}

	c.JSON(http.StatusOK, model.GenerateImageResponse{
		Image:   image,
		Message: h.images.SuccessMessage(),
	})
}
