package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-admin/internal/application"
	"github.com/oksasatya/storefront-admin/internal/domain/entity"
	"github.com/oksasatya/storefront-admin/pkg/response"
)

// AdminHandler exposes the back-office CRUD surface: one set of routes for
// every resource kind, all funneled through the reconciler.
type AdminHandler struct {
	Reconciler *application.Reconciler
	Uploads    *application.UploadService
	UploadDest string
	Logger     *logrus.Logger
}

func NewAdminHandler(rec *application.Reconciler, uploads *application.UploadService, uploadDest string, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Reconciler: rec, Uploads: uploads, UploadDest: uploadDest, Logger: logger}
}

func kindParam(c *gin.Context) (entity.Kind, bool) {
	kind, ok := entity.ParseKind(c.Param("kind"))
	if !ok {
		response.Fail[any](c, http.StatusNotFound, "unknown resource kind", nil)
	}
	return kind, ok
}

// List handles GET /admin/:kind with an optional ?search= substring.
func (h *AdminHandler) List(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	search := c.Query("search")
	docs, err := h.Reconciler.List(c.Request.Context(), kind, search)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, docs, string(kind)+" list", gin.H{"search": search, "count": len(docs)})
}

// Get handles GET /admin/:kind/:id.
func (h *AdminHandler) Get(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	doc, err := h.Reconciler.Get(c.Request.Context(), kind, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, doc, string(kind), nil)
}

// Save handles POST /admin/:kind. The payload is a free-form JSON object;
// a non-empty "id" key selects merge-update, its absence selects create.
func (h *AdminHandler) Save(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Fail[any](c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	id, _ := payload["id"].(string)
	actor := c.GetString("userID")

	doc, label, err := h.Reconciler.Reconcile(c.Request.Context(), kind, id, payload, actor)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	response.Success(c, status, doc, label+" Saved", nil)
}

// Delete handles DELETE /admin/:kind/:id. Deleting an absent record still
// succeeds.
func (h *AdminHandler) Delete(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	if err := h.Reconciler.Remove(c.Request.Context(), kind, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "deleted", nil)
}

// Upload handles POST /admin/uploads: a multipart batch of at most
// MaxUploadBatch files under the "file" field, ingested with per-item
// isolation.
func (h *AdminHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Fail[any](c, http.StatusBadRequest, "invalid multipart form", nil)
		return
	}
	files := form.File["file"]
	if len(files) > application.MaxUploadBatch {
		writeError(c, application.ErrBatchTooLarge)
		return
	}

	items := make([]application.UploadItem, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			response.Fail[any](c, http.StatusBadRequest, "unreadable file: "+fh.Filename, nil)
			return
		}
		defer func() { _ = f.Close() }()
		items = append(items, application.UploadItem{
			OriginalName: fh.Filename,
			StoredName:   uuid.NewString() + filepath.Ext(fh.Filename),
			ContentType:  fh.Header.Get("Content-Type"),
			Destination:  h.UploadDest,
			Size:         fh.Size,
			Body:         f,
		})
	}

	results, err := h.Uploads.Ingest(c.Request.Context(), items)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]gin.H, 0, len(results))
	failed := 0
	for _, r := range results {
		item := gin.H{"originalname": r.OriginalName, "ok": r.Err == nil}
		if r.Err != nil {
			failed++
			item["error"] = r.Err.Error()
		} else if r.Document != nil {
			item["id"] = r.Document.ID
		}
		out = append(out, item)
	}
	status := http.StatusOK
	msg := "files saved"
	if failed > 0 {
		status = http.StatusMultiStatus
		msg = "some files failed"
	}
	response.Success(c, status, out, msg, gin.H{"failed": failed, "total": len(results)})
}
