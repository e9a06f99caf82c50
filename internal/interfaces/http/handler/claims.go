package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	appclaims "github.com/siniestros/backend/internal/application/claims"
	"github.com/siniestros/backend/internal/domain/claims"
	"github.com/siniestros/backend/internal/domain/shared"
	"github.com/siniestros/backend/internal/interfaces/http/middleware"
)

// ReserveUseCases is the application surface used by the claims handler
type ReserveUseCases interface {
	GetClaim(ctx context.Context, numSiniestro int64) (*appclaims.ClaimDetailResponse, error)
	ListClaims(ctx context.Context, filter claims.ClaimFilter) (*shared.Paginated[claims.Claim], error)
	ListReserves(ctx context.Context, numSiniestro int64) ([]appclaims.ReserveRowResponse, error)
	ExportReserves(ctx context.Context, numSiniestro int64) (*appclaims.ReserveExport, error)
	GetBalance(ctx context.Context, numSiniestro int64, key claims.CoverageKey) (*appclaims.BalanceResponse, error)
	GetInsuredSum(ctx context.Context, numSiniestro int64, key claims.CoverageKey) (*appclaims.InsuredSumResponse, error)
	AddReserveRow(ctx context.Context, numSiniestro int64, key claims.CoverageKey, user string) (*claims.Reserve, error)
	RemoveReserveRow(ctx context.Context, numSiniestro int64, key claims.CoverageKey) error
	ValidateAdjustments(ctx context.Context, numSiniestro int64, lines []appclaims.AdjustmentLineInput) (*appclaims.ValidationResponse, error)
	ApplyAdjustments(ctx context.Context, in appclaims.ApplyAdjustmentsInput) (*appclaims.ApplyResponse, error)
	ListMovements(ctx context.Context, numSiniestro int64) ([]claims.Movement, error)
	ListAccountingEntries(ctx context.Context, numSiniestro int64, numMovimiento int) ([]claims.AccountingEntry, error)
}

var _ ReserveUseCases = (*appclaims.ReserveService)(nil)

// ClaimsHandler serves claim lookups and reserve adjustments
type ClaimsHandler struct {
	BaseHandler
	service ReserveUseCases
}

// NewClaimsHandler creates a new claims handler
func NewClaimsHandler(service ReserveUseCases) *ClaimsHandler {
	return &ClaimsHandler{service: service}
}

// ListClaims godoc
// @ID           listClaims
// @Summary      Search claims
// @Description  Paginated claim search by branch, policy, certificate, status and occurrence date
// @Tags         siniestros
// @Produce      json
// @Param        page            query int    false "Page number" default(1)
// @Param        page_size       query int    false "Page size" default(20)
// @Param        order_by        query string false "Sort field"
// @Param        order_dir       query string false "Sort direction" Enums(asc, desc)
// @Param        cod_ramo        query string false "Branch code"
// @Param        num_poliza      query int    false "Policy number"
// @Param        num_certificado query int    false "Certificate number"
// @Param        estado          query string false "Status" Enums(ACT, CER, ANU, REA)
// @Param        ocurrido_desde  query string false "Occurred from (YYYY-MM-DD)"
// @Param        ocurrido_hasta  query string false "Occurred until (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]claims.Claim]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /siniestros [get]
func (h *ClaimsHandler) ListClaims(c *gin.Context) {
	var req ListClaimsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.service.ListClaims(c.Request.Context(), req.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetClaim godoc
// @ID           getClaim
// @Summary      Get claim
// @Description  Claim header with its policy and certificate
// @Tags         siniestros
// @Produce      json
// @Param        num path int true "Claim number"
// @Success      200 {object} APIResponse[appclaims.ClaimDetailResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /siniestros/{num} [get]
func (h *ClaimsHandler) GetClaim(c *gin.Context) {
	num, ok := h.claimNumber(c)
	if !ok {
		return
	}

	detail, err := h.service.GetClaim(c.Request.Context(), num)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, detail)
}

// ListReserves godoc
// @ID           listReserves
// @Summary      List reserve rows
// @Description  Reserve rows of the claim in adjustment order, with insured sum and available amount
// @Tags         reservas
// @Produce      json
// @Param        num path int true "Claim number"
// @Success      200 {object} APIResponse[[]appclaims.ReserveRowResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /siniestros/{num}/reservas [get]
func (h *ClaimsHandler) ListReserves(c *gin.Context) {
	num, ok := h.claimNumber(c)
	if !ok {
		return
	}

	rows, err := h.service.ListReserves(c.Request.Context(), num)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rows)
}

// ExportReserves godoc
// @ID           exportReserves
// @Summary      Export reserve rows
// @Description  Reserve rows of the claim as an XLSX workbook
// @Tags         reservas
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        num path int true "Claim number"
// @Success      200 {file} file
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /siniestros/{num}/reservas/export [get]
func (h *ClaimsHandler) ExportReserves(c *gin.Context) {
	num, ok := h.claimNumber(c)
	if !ok {
		return
	}

	export, err := h.service.ExportReserves(c.Request.Context(), num)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName))
	c.Data(http.StatusOK, export.ContentType, export.Content)
}

// GetBalance godoc
// @ID           getReserveBalance
// @Summary      Coverage balance
// @Description  Reserved, paid and deductible totals and the current balance of one coverage
// @Tags         reservas
// @Produce      json
// @Param        num          path int    true "Claim number"
// @Param        ramoContable path string true "Accounting branch"
// @Param        cobertura    path string true "Coverage code"
// @Success      200 {object} APIResponse[appclaims.BalanceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /siniestros/{num}/reservas/{ramoContable}/{cobertura}/saldo [get]
func (h *ClaimsHandler) GetBalance(c *gin.Context) {
	num, key, ok := h.coveragePath(c)
	if !ok {
		return
	}

	balance, err := h.service.GetBalance(c.Request.Context(), num, key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balance)
}

// GetInsuredSum godoc
// @ID           getInsuredSum
// @Summary      Coverage insured sum
// @Description  Insured sum, payments and available amount of one coverage, resolved by branch kind
// @Tags         reservas
// @Produce      json
// @Param        num          path int    true "Claim number"
// @Param        ramoContable path string true "Accounting branch"
// @Param        cobertura    path string true "Coverage code"
// @Success      200 {object} APIResponse[appclaims.InsuredSumResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /siniestros/{num}/reservas/{ramoContable}/{cobertura}/suma-asegurada [get]
func (h *ClaimsHandler) GetInsuredSum(c *gin.Context) {
	num, key, ok := h.coveragePath(c)
	if !ok {
		return
	}

	sum, err := h.service.GetInsuredSum(c.Request.Context(), num, key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sum)
}

// AddReserveRow godoc
// @ID           addReserveRow
// @Summary      Add reserve row
// @Description  Adds a zero-balance reserve row for a contracted coverage
// @Tags         reservas
// @Accept       json
// @Produce      json
// @Param        num     path int                  true "Claim number"
// @Param        request body AddReserveRowRequest true "Coverage"
// @Success      201 {object} APIResponse[claims.Reserve]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /siniestros/{num}/reservas [post]
func (h *ClaimsHandler) AddReserveRow(c *gin.Context) {
	num, ok := h.claimNumber(c)
	if !ok {
		return
	}

	var req AddReserveRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	key := claims.CoverageKey{CodRamoContable: req.CodRamoContable, CodCobertura: req.CodCobertura}
	reserve, err := h.service.AddReserveRow(c.Request.Context(), num, key, middleware.GetJWTUsername(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, reserve)
}

// RemoveReserveRow godoc
// @ID           removeReserveRow
// @Summary      Remove reserve row
// @Description  Removes a reserve row that has no movements and a zero balance
// @Tags         reservas
// @Param        num          path int    true "Claim number"
// @Param        ramoContable path string true "Accounting branch"
// @Param        cobertura    path string true "Coverage code"
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /siniestros/{num}/reservas/{ramoContable}/{cobertura} [delete]
func (h *ClaimsHandler) RemoveReserveRow(c *gin.Context) {
	num, key, ok := h.coveragePath(c)
	if !ok {
		return
	}

	if err := h.service.RemoveReserveRow(c.Request.Context(), num, key); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ValidateAdjustments godoc
// @ID           validateAdjustments
// @Summary      Validate adjustment
// @Description  Dry run of an adjustment: every line is checked in priority order, nothing is written
// @Tags         ajustes
// @Accept       json
// @Produce      json
// @Param        num     path int                        true "Claim number"
// @Param        request body ValidateAdjustmentsRequest true "Adjustment lines"
// @Success      200 {object} APIResponse[appclaims.ValidationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /siniestros/{num}/ajustes/validar [post]
func (h *ClaimsHandler) ValidateAdjustments(c *gin.Context) {
	num, ok := h.claimNumber(c)
	if !ok {
		return
	}

	var req ValidateAdjustmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.service.ValidateAdjustments(c.Request.Context(), num, toLineInputs(req.Lineas))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ApplyAdjustments godoc
// @ID           applyAdjustments
// @Summary      Apply adjustment
// @Description  Validates and persists an adjustment as one movement with its accounting entry.
// @Description  Any rejected line rejects the whole request.
// @Tags         ajustes
// @Accept       json
// @Produce      json
// @Param        num             path   int                     true  "Claim number"
// @Param        Idempotency-Key header string                  false "Client key; repeats are rejected"
// @Param        request         body   ApplyAdjustmentsRequest true  "Adjustment lines"
// @Success      201 {object} APIResponse[appclaims.ApplyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /siniestros/{num}/ajustes [post]
func (h *ClaimsHandler) ApplyAdjustments(c *gin.Context) {
	num, ok := h.claimNumber(c)
	if !ok {
		return
	}

	var req ApplyAdjustmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.service.ApplyAdjustments(c.Request.Context(), appclaims.ApplyAdjustmentsInput{
		NumSiniestro:   num,
		Lines:          toLineInputs(req.Lineas),
		Usuario:        middleware.GetJWTUsername(c),
		Observacion:    req.Observacion,
		IdempotencyKey: c.GetHeader(middleware.IdempotencyKeyHeader),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ListMovements godoc
// @ID           listMovements
// @Summary      List movements
// @Description  Reserve movements of the claim, newest first, with their coverage lines
// @Tags         movimientos
// @Produce      json
// @Param        num path int true "Claim number"
// @Success      200 {object} APIResponse[[]claims.Movement]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /siniestros/{num}/movimientos [get]
func (h *ClaimsHandler) ListMovements(c *gin.Context) {
	num, ok := h.claimNumber(c)
	if !ok {
		return
	}

	movements, err := h.service.ListMovements(c.Request.Context(), num)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, movements)
}

// ListAccountingEntries godoc
// @ID           listAccountingEntries
// @Summary      List accounting entries
// @Description  Debit and credit lines generated by one movement
// @Tags         movimientos
// @Produce      json
// @Param        num path int true "Claim number"
// @Param        mov path int true "Movement number"
// @Success      200 {object} APIResponse[[]claims.AccountingEntry]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /siniestros/{num}/movimientos/{mov}/asientos [get]
func (h *ClaimsHandler) ListAccountingEntries(c *gin.Context) {
	num, ok := h.claimNumber(c)
	if !ok {
		return
	}
	mov, err := strconv.Atoi(c.Param("mov"))
	if err != nil || mov <= 0 {
		h.BadRequest(c, "El número de movimiento no es válido")
		return
	}

	entries, err := h.service.ListAccountingEntries(c.Request.Context(), num, mov)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

func (h *ClaimsHandler) coveragePath(c *gin.Context) (int64, claims.CoverageKey, bool) {
	num, ok := h.claimNumber(c)
	if !ok {
		return 0, claims.CoverageKey{}, false
	}
	var uri CoverageURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BindError(c, err)
		return 0, claims.CoverageKey{}, false
	}
	return num, uri.Key(), true
}
