package claims

import (
	"context"
	"fmt"
	"strings"

	"github.com/siniestros/backend/internal/infrastructure/telemetry"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const reserveSheet = "Reservas"

var reserveExportHeaders = []any{
	"Ramo contable", "Cobertura", "Descripción", "LUC", "Prioridad",
	"Suma asegurada", "Origen", "Reservado", "Pagos", "Deducibles",
	"Saldo actual", "Disponible", "Último ajuste", "Usuario",
}

// ReserveExport is a generated spreadsheet
type ReserveExport struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ExportReserves builds an XLSX workbook with the reserve rows of a claim
func (s *ReserveService) ExportReserves(ctx context.Context, numSiniestro int64) (*ReserveExport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reserve", "export_reserves")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrClaimNumber, numSiniestro)

	var export *ReserveExport
	var opErr error
	telemetry.WithProfilingLabels(ctx, telemetry.ClaimsOperationLabels(telemetry.OperationExportReserves, ""), func(c context.Context) {
		rows, err := s.ListReserves(c, numSiniestro)
		if err != nil {
			opErr = err
			return
		}
		content, err := buildReserveWorkbook(numSiniestro, rows)
		if err != nil {
			opErr = fmt.Errorf("failed to build reserve workbook: %w", err)
			return
		}
		export = &ReserveExport{
			FileName:    fmt.Sprintf("reservas_siniestro_%d.xlsx", numSiniestro),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Content:     content,
		}
	})
	if opErr != nil {
		telemetry.RecordError(span, opErr)
		return nil, opErr
	}

	s.metrics.RecordExport(ctx)
	telemetry.SetOK(span)
	return export, nil
}

func buildReserveWorkbook(numSiniestro int64, rows []ReserveRowResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", reserveSheet); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(reserveSheet, "A1", fmt.Sprintf("Reservas del siniestro %d", numSiniestro)); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(reserveSheet, "A3", &reserveExportHeaders); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(reserveExportHeaders))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(reserveSheet, "A3", lastCol+"3", headerStyle); err != nil {
		return nil, err
	}

	caser := cases.Title(language.Spanish)
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return nil, err
		}
		lastAdjust := ""
		if r.FecUltAjuste != nil {
			lastAdjust = r.FecUltAjuste.Format("2006-01-02 15:04")
		}
		values := []any{
			r.CodRamoContable,
			r.CodCobertura,
			caser.String(strings.ToLower(r.Descripcion)),
			r.CodLuc,
			r.Prioridad,
			r.SumaAsegurada.InexactFloat64(),
			string(r.OrigenSuma),
			r.Reservado.InexactFloat64(),
			r.Pagos.InexactFloat64(),
			r.Deducibles.InexactFloat64(),
			r.SaldoActual.InexactFloat64(),
			r.Disponible.InexactFloat64(),
			lastAdjust,
			r.Usuario,
		}
		if err := f.SetSheetRow(reserveSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	if len(rows) > 0 {
		amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
		if err != nil {
			return nil, err
		}
		last := len(rows) + 3
		if err := f.SetCellStyle(reserveSheet, "F4", fmt.Sprintf("F%d", last), amountStyle); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(reserveSheet, "H4", fmt.Sprintf("L%d", last), amountStyle); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(reserveSheet, "C", "C", 40); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
