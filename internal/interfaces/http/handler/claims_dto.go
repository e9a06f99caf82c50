package handler

import (
	"time"

	"github.com/shopspring/decimal"
	appclaims "github.com/siniestros/backend/internal/application/claims"
	"github.com/siniestros/backend/internal/domain/claims"
	"github.com/siniestros/backend/internal/domain/shared"
)

// ListClaimsRequest holds the query parameters of the claim search
type ListClaimsRequest struct {
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	CodRamo        string `form:"cod_ramo" binding:"omitempty,max=10"`
	NumPoliza      *int64 `form:"num_poliza" binding:"omitempty,gt=0"`
	NumCertificado *int64 `form:"num_certificado" binding:"omitempty,gt=0"`
	Estado         string `form:"estado" binding:"omitempty,oneof=ACT CER ANU REA"`
	OcurridoDesde  string `form:"ocurrido_desde" binding:"omitempty,datetime=2006-01-02"`
	OcurridoHasta  string `form:"ocurrido_hasta" binding:"omitempty,datetime=2006-01-02"`
}

// toFilter converts the query into a repository filter. Dates were
// already checked by the binding tags.
func (r ListClaimsRequest) toFilter() claims.ClaimFilter {
	f := claims.ClaimFilter{
		Filter: shared.Filter{
			Page:     r.Page,
			PageSize: r.PageSize,
			OrderBy:  r.OrderBy,
			OrderDir: r.OrderDir,
		},
		CodRamo:        r.CodRamo,
		NumPoliza:      r.NumPoliza,
		NumCertificado: r.NumCertificado,
	}
	if r.Estado != "" {
		estado := claims.ClaimStatus(r.Estado)
		f.Estado = &estado
	}
	if t, err := time.Parse(time.DateOnly, r.OcurridoDesde); err == nil {
		f.OcurridoDesde = &t
	}
	if t, err := time.Parse(time.DateOnly, r.OcurridoHasta); err == nil {
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.OcurridoHasta = &end
	}
	return f
}

// CoverageURI identifies a coverage in the path
type CoverageURI struct {
	RamoContable string `uri:"ramoContable" binding:"required,max=10"`
	Cobertura    string `uri:"cobertura" binding:"required,max=10"`
}

// Key returns the coverage key
func (u CoverageURI) Key() claims.CoverageKey {
	return claims.CoverageKey{CodRamoContable: u.RamoContable, CodCobertura: u.Cobertura}
}

// AddReserveRowRequest adds a zero-balance reserve row for a contracted coverage
type AddReserveRowRequest struct {
	CodRamoContable string `json:"cod_ramo_contable" binding:"required,max=10"`
	CodCobertura    string `json:"cod_cobertura" binding:"required,max=10"`
}

// AdjustmentLineRequest is one requested reserve change
type AdjustmentLineRequest struct {
	CodRamoContable string           `json:"cod_ramo_contable" binding:"required,max=10"`
	CodCobertura    string           `json:"cod_cobertura" binding:"required,max=10"`
	NuevoMonto      *decimal.Decimal `json:"nuevo_monto" binding:"required,monto" swaggertype:"string" example:"1500.00"`
}

// ValidateAdjustmentsRequest is the body of a dry-run validation
type ValidateAdjustmentsRequest struct {
	Lineas []AdjustmentLineRequest `json:"lineas" binding:"required,min=1,dive"`
}

// ApplyAdjustmentsRequest is the body of an adjustment to persist
type ApplyAdjustmentsRequest struct {
	Lineas      []AdjustmentLineRequest `json:"lineas" binding:"required,min=1,dive"`
	Observacion string                  `json:"observacion" binding:"max=500"`
}

func toLineInputs(lines []AdjustmentLineRequest) []appclaims.AdjustmentLineInput {
	out := make([]appclaims.AdjustmentLineInput, len(lines))
	for i, l := range lines {
		out[i] = appclaims.AdjustmentLineInput{
			CodRamoContable: l.CodRamoContable,
			CodCobertura:    l.CodCobertura,
			NuevoMonto:      *l.NuevoMonto,
		}
	}
	return out
}
