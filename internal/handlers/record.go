package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/NatiqIskandarli/papercut-backend/internal/platform/apierr"
	"github.com/NatiqIskandarli/papercut-backend/internal/repos"
	"github.com/NatiqIskandarli/papercut-backend/internal/requestdata"
	"github.com/NatiqIskandarli/papercut-backend/internal/services"
)

type RecordHandler struct {
	recordService  services.RecordService
	versionService services.RecordVersionService
	fileService    services.FileService
	pdfExtract     services.PdfExtractService
	recordRepo     repos.RecordRepo
	noteRepo       repos.RecordNoteCommentRepo
	pdfFileRepo    repos.PdfFileRepo
}

func NewRecordHandler(
	recordService services.RecordService,
	versionService services.RecordVersionService,
	fileService services.FileService,
	pdfExtract services.PdfExtractService,
	recordRepo repos.RecordRepo,
	noteRepo repos.RecordNoteCommentRepo,
	pdfFileRepo repos.PdfFileRepo,
) *RecordHandler {
	return &RecordHandler{
		recordService:  recordService,
		versionService: versionService,
		fileService:    fileService,
		pdfExtract:     pdfExtract,
		recordRepo:     recordRepo,
		noteRepo:       noteRepo,
		pdfFileRepo:    pdfFileRepo,
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func isPdfUpload(name, contentType string) bool {
	return contentType == "application/pdf" || strings.HasSuffix(strings.ToLower(name), ".pdf")
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apierr.InvalidInput("invalid %s", name)
	}
	return id, nil
}

type recordEditsRequest struct {
	Title        *string        `json:"title"`
	Description  *string        `json:"description"`
	Status       *string        `json:"status"`
	CustomFields map[string]any `json:"customFields"`
	Tags         *[]string      `json:"tags"`
}

func (r *recordEditsRequest) toEdits() services.RecordEdits {
	if r == nil {
		return services.RecordEdits{}
	}
	return services.RecordEdits{
		Title:        r.Title,
		Description:  r.Description,
		Status:       r.Status,
		CustomFields: r.CustomFields,
		Tags:         r.Tags,
	}
}

func (rh *RecordHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "", errors.New("unauthorized"))
		return
	}
	var req struct {
		Title        string         `json:"title"`
		Description  string         `json:"description"`
		CabinetID    uuid.UUID      `json:"cabinetId"`
		Status       string         `json:"status"`
		CustomFields map[string]any `json:"customFields"`
		Tags         []string       `json:"tags"`
		IsTemplate   bool           `json:"isTemplate"`
	}
	var fileDesc *services.FileDescriptor
	var pdfData []byte
	if c.ContentType() == "multipart/form-data" {
		// Multipart create carries the JSON payload in a "data" field and
		// an optional attachment in "file".
		payload := c.PostForm("data")
		if payload == "" || json.Unmarshal([]byte(payload), &req) != nil {
			RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, errors.New("invalid request body"))
			return
		}
		if fileHeader, err := c.FormFile("file"); err == nil {
			f, err := fileHeader.Open()
			if err != nil {
				RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, err)
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				RespondServiceError(c, err)
				return
			}
			contentType := fileHeader.Header.Get("Content-Type")
			fileDesc, err = rh.fileService.UploadRecordFile(c.Request.Context(), fileHeader.Filename, contentType, data)
			if err != nil {
				RespondServiceError(c, err)
				return
			}
			if isPdfUpload(fileHeader.Filename, contentType) {
				pdfData = data
			}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, errors.New("invalid request body"))
		return
	}
	record, err := rh.recordService.CreateRecord(c.Request.Context(), nil, services.CreateRecordInput{
		Title:        req.Title,
		Description:  req.Description,
		CabinetID:    req.CabinetID,
		CreatorID:    userID,
		Status:       req.Status,
		CustomFields: req.CustomFields,
		Tags:         req.Tags,
		IsTemplate:   req.IsTemplate,
		File:         fileDesc,
		PdfData:      pdfData,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"record": record})
}

func (rh *RecordHandler) Get(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	record, err := rh.recordService.GetRecordByID(c.Request.Context(), nil, id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"record": record})
}

func (rh *RecordHandler) ListByCabinet(c *gin.Context) {
	cabinetID, err := pathUUID(c, "id")
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	records, err := rh.recordRepo.GetByCabinetID(c.Request.Context(), nil, cabinetID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"records": records})
}

func (rh *RecordHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "", errors.New("unauthorized"))
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	var req struct {
		recordEditsRequest
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, errors.New("invalid request body"))
		return
	}
	record, err := rh.recordService.UpdateRecord(c.Request.Context(), nil, id, services.UpdateRecordInput{
		Edits:   req.toEdits(),
		Comment: req.Comment,
	}, userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"record": record})
}

func (rh *RecordHandler) Modify(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "", errors.New("unauthorized"))
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	var req struct {
		Title        string                   `json:"title"`
		Description  string                   `json:"description"`
		CustomFields map[string]any           `json:"customFields"`
		Tags         []string                 `json:"tags"`
		File         *services.FileDescriptor `json:"file"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, errors.New("invalid request body"))
		return
	}
	snapshot, err := rh.recordService.ModifyRecord(c.Request.Context(), nil, services.ModifyRecordInput{
		RecordID:     id,
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		CustomFields: req.CustomFields,
		Tags:         req.Tags,
		File:         req.File,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"version": snapshot})
}

func (rh *RecordHandler) Approve(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "", errors.New("unauthorized"))
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	var req struct {
		Note string              `json:"note"`
		Data *recordEditsRequest `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, errors.New("invalid request body"))
		return
	}
	edits := req.Data.toEdits()
	record, err := rh.recordService.ApproveRecord(c.Request.Context(), nil, id, userID, req.Note, &edits)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"record": record})
}

func (rh *RecordHandler) Reject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "", errors.New("unauthorized"))
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	var req struct {
		Comments string              `json:"comments"`
		Data     *recordEditsRequest `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, errors.New("invalid request body"))
		return
	}
	edits := req.Data.toEdits()
	record, err := rh.recordService.RejectRecord(c.Request.Context(), nil, id, userID, req.Comments, &edits)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"record": record})
}

func (rh *RecordHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "", errors.New("unauthorized"))
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if err := rh.recordService.DeleteRecord(c.Request.Context(), nil, id, userID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

// UploadFile stores a raw file in the bucket and returns the descriptor the
// client can attach to a record or version.
func (rh *RecordHandler) UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, errors.New("file is required"))
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	desc, err := rh.fileService.UploadRecordFile(c.Request.Context(), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"file": desc})
}

func (rh *RecordHandler) CreateVersion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "", errors.New("unauthorized"))
		return
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	var req struct {
		File services.FileDescriptor `json:"file"`
		Note string                  `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, errors.New("invalid request body"))
		return
	}
	version, err := rh.versionService.CreateNewVersion(c.Request.Context(), nil, services.CreateVersionInput{
		RecordID:   id,
		UploadedBy: userID,
		File:       req.File,
		Note:       req.Note,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"version": version})
}

func (rh *RecordHandler) ListVersions(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	versions, err := rh.versionService.GetRecordVersions(c.Request.Context(), nil, id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"versions": versions})
}

func (rh *RecordHandler) DeleteVersion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "", errors.New("unauthorized"))
		return
	}
	versionID, err := pathUUID(c, "versionId")
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if err := rh.versionService.DeleteVersion(c.Request.Context(), nil, versionID, userID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

func (rh *RecordHandler) ListOtherVersions(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	snapshots, err := rh.versionService.GetOtherRecordsByOriginalID(c.Request.Context(), nil, id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"versions": snapshots})
}

func (rh *RecordHandler) ListNotes(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	notes, err := rh.noteRepo.GetByRecordID(c.Request.Context(), nil, id, c.Query("type"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"notes": notes})
}

// ProcessPdf runs extraction synchronously and surfaces failures, unlike the
// opportunistic extraction done during record creation.
func (rh *RecordHandler) ProcessPdf(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, errors.New("file is required"))
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	content, err := rh.pdfExtract.Extract(data)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, apierr.CodeInternal, err)
		return
	}
	RespondOK(c, gin.H{"content": content})
}

func (rh *RecordHandler) GetPdfContent(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	pdfFile, err := rh.pdfFileRepo.GetByRecordID(c.Request.Context(), nil, id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if pdfFile == nil {
		RespondServiceError(c, apierr.NotFound("no extracted content for record %s", id))
		return
	}
	RespondOK(c, gin.H{"pdf": pdfFile})
}
