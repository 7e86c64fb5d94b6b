package http

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/gepub/gepub-api/internal/application/conversor"
)

// ConversorHandler jobs de conversão de documentos.
type ConversorHandler struct {
	svc *conversor.Service
}

// NewConversorHandler constrói o handler.
func NewConversorHandler(svc *conversor.Service) *ConversorHandler {
	return &ConversorHandler{svc: svc}
}

// Create godoc
// @Summary      Criar job de conversão
// @Description  Enfileira o job; sem fila disponível o processamento ocorre na própria requisição.
// @Tags         conversor
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        tipo                 formData  string  true   "DOCX_TO_PDF, IMG_TO_PDF, PDF_TO_IMAGES, PDF_MERGE ou PDF_SPLIT"
// @Param        pages                formData  string  false  "Páginas para PDF_SPLIT (ex.: 1,3,5-7)"
// @Param        input_file           formData  file    true   "Arquivo principal"
// @Param        arquivos_adicionais  formData  file    false  "Arquivos adicionais (IMG_TO_PDF, PDF_MERGE)"
// @Success      201  {object}  dto.ConversionJobResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/conversor/jobs [post]
func (h *ConversorHandler) Create(c *fiber.Ctx) error {
	in := conversor.CreateInput{
		Tipo:  c.FormValue("tipo"),
		Pages: c.FormValue("pages"),
	}
	form, err := c.MultipartForm()
	if err == nil && form != nil {
		if files := form.File["input_file"]; len(files) > 0 {
			a := arquivo(files[0])
			in.Principal = &a
		}
		for _, key := range []string{"arquivos_adicionais", "arquivos_adicionais[]"} {
			for _, fh := range form.File[key] {
				in.Adicionais = append(in.Adicionais, arquivo(fh))
			}
		}
	}
	out, err := h.svc.Create(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func arquivo(fh *multipart.FileHeader) conversor.Arquivo {
	return conversor.Arquivo{
		Nome:    fh.Filename,
		Tamanho: fh.Size,
		Abrir:   func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// List godoc
// @Summary      Listar jobs de conversão
// @Tags         conversor
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDENTE, PROCESSANDO, CONCLUIDO ou ERRO"
// @Param        tipo    query  string  false  "Tipo de conversão"
// @Success      200     {object}  dto.ListResponse[dto.ConversionJobResponse]
// @Router       /api/conversor/jobs [get]
func (h *ConversorHandler) List(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.List(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Detalhar job
// @Tags         conversor
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do job"
// @Success      200  {object}  dto.ConversionJobResponse
// @Router       /api/conversor/jobs/{id} [get]
func (h *ConversorHandler) Get(c *fiber.Ctx) error {
	out, err := h.svc.Get(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reprocess godoc
// @Summary      Reprocessar job com erro
// @Tags         conversor
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do job"
// @Success      200  {object}  dto.ConversionJobResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/conversor/jobs/{id}/reprocessar [post]
func (h *ConversorHandler) Reprocess(c *fiber.Ctx) error {
	out, err := h.svc.Reprocess(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Download godoc
// @Summary      Baixar resultado
// @Tags         conversor
// @Security     Bearer
// @Produce      octet-stream
// @Param        id   path  string  true  "ID do job"
// @Success      200
// @Failure      409  {object}  dto.ErrorResponse  "Job não concluído"
// @Router       /api/conversor/jobs/{id}/download [get]
func (h *ConversorHandler) Download(c *fiber.Ctx) error {
	rc, nome, err := h.svc.Download(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	c.Set(fiber.HeaderContentDisposition, attachment(nome))
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	// fasthttp fecha o reader ao final do envio
	return c.SendStream(rc)
}

