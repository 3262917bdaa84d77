package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/NatiqIskandarli/papercut-backend/internal/platform/apierr"
	"github.com/NatiqIskandarli/papercut-backend/internal/repos"
	"github.com/NatiqIskandarli/papercut-backend/internal/types"
)

type CabinetHandler struct {
	cabinetRepo repos.CabinetRepo
	memberRepo  repos.CabinetMemberRepo
}

func NewCabinetHandler(cabinetRepo repos.CabinetRepo, memberRepo repos.CabinetMemberRepo) *CabinetHandler {
	return &CabinetHandler{cabinetRepo: cabinetRepo, memberRepo: memberRepo}
}

func (ch *CabinetHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "", errors.New("unauthorized"))
		return
	}
	var req struct {
		Name         string                  `json:"name"`
		Description  string                  `json:"description"`
		CustomFields []types.CustomFieldDef  `json:"customFields"`
		Approvers    []types.CabinetApprover `json:"approvers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, errors.New("invalid request body"))
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		RespondServiceError(c, apierr.InvalidInput("cabinet name is required"))
		return
	}
	seen := map[string]bool{}
	for _, def := range req.CustomFields {
		if def.ID == "" {
			RespondServiceError(c, apierr.InvalidInput("field %q is missing an id", def.Name))
			return
		}
		if seen[def.ID] {
			RespondServiceError(c, apierr.InvalidInput("duplicate field id %q", def.ID))
			return
		}
		seen[def.ID] = true
	}
	cabinet := &types.Cabinet{
		ID:           uuid.New(),
		Name:         name,
		Description:  req.Description,
		CustomFields: datatypes.JSON(types.MarshalJSONB(req.CustomFields)),
		Approvers:    datatypes.JSON(types.MarshalJSONB(req.Approvers)),
		CreatedByID:  userID,
	}
	if _, err := ch.cabinetRepo.Create(c.Request.Context(), nil, cabinet); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"cabinet": cabinet})
}

func (ch *CabinetHandler) Get(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	cabinet, err := ch.cabinetRepo.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		RespondServiceError(c, mapCabinetNotFound(err, id))
		return
	}
	RespondOK(c, gin.H{"cabinet": cabinet})
}

func (ch *CabinetHandler) AddMember(c *gin.Context) {
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
		UserID uuid.UUID `json:"userId"`
		Role   string    `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeInvalidInput, errors.New("invalid request body"))
		return
	}
	cabinet, err := ch.cabinetRepo.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		RespondServiceError(c, mapCabinetNotFound(err, id))
		return
	}
	if cabinet.CreatedByID != userID {
		RespondServiceError(c, apierr.Forbidden("only the cabinet owner may add members"))
		return
	}
	role := req.Role
	if role == "" {
		role = types.CabinetRoleMemberRead
	}
	if role != types.CabinetRoleMemberFull && role != types.CabinetRoleMemberRead {
		RespondServiceError(c, apierr.InvalidInput("unknown member role %q", role))
		return
	}
	member := &types.CabinetMember{
		ID:        uuid.New(),
		CabinetID: cabinet.ID,
		UserID:    req.UserID,
		Role:      role,
	}
	if _, err := ch.memberRepo.Create(c.Request.Context(), nil, member); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"member": member})
}

func (ch *CabinetHandler) ListMembers(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	members, err := ch.memberRepo.GetByCabinetID(c.Request.Context(), nil, id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"members": members})
}

func (ch *CabinetHandler) Delete(c *gin.Context) {
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
	cabinet, err := ch.cabinetRepo.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		RespondServiceError(c, mapCabinetNotFound(err, id))
		return
	}
	if cabinet.CreatedByID != userID {
		RespondServiceError(c, apierr.Forbidden("only the cabinet owner may delete the cabinet"))
		return
	}
	if err := ch.cabinetRepo.SoftDeleteByID(c.Request.Context(), nil, id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

func mapCabinetNotFound(err error, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.NotFound("cabinet %s not found", id)
	}
	return err
}
