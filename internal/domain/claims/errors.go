package claims

import "github.com/siniestros/backend/internal/domain/shared"

// Business rule errors raised by the reserve adjustment engine.
var (
	ErrClaimNotFound           = shared.NewDomainError("SINIESTRO_NO_ENCONTRADO", "El siniestro no existe")
	ErrPolicyNotFound          = shared.NewDomainError("POLIZA_NO_ENCONTRADA", "La póliza del siniestro no existe")
	ErrCertificateNotFound     = shared.NewDomainError("CERTIFICADO_NO_ENCONTRADO", "El certificado del siniestro no existe")
	ErrReserveNotFound         = shared.NewDomainError("RESERVA_NO_ENCONTRADA", "La cobertura no tiene reserva en el siniestro")
	ErrCoverageNotFound        = shared.NewDomainError("COBERTURA_NO_ENCONTRADA", "La cobertura no está contratada en el certificado")
	ErrMovementNotFound        = shared.NewDomainError("MOVIMIENTO_NO_ENCONTRADO", "El movimiento no existe para el siniestro")
	ErrDeclarationNotFound     = shared.NewDomainError("DECLARACION_NO_ENCONTRADA", "La declaración de transporte del siniestro no existe")
	ErrClaimNotOpen            = shared.NewDomainError("SINIESTRO_NO_ABIERTO", "El siniestro no se encuentra activo, no admite ajustes de reserva")
	ErrNegativeAdjustment      = shared.NewDomainError("AJUSTE_NEGATIVO", "El monto de la reserva no puede ser negativo")
	ErrUnchangedAdjustment     = shared.NewDomainError("AJUSTE_SIN_CAMBIO", "El nuevo monto de reserva debe ser distinto al saldo actual")
	ErrAdjustmentExceedsSum    = shared.NewDomainError("AJUSTE_EXCEDE_SUMA", "El nuevo monto de reserva excede la suma asegurada menos los pagos realizados")
	ErrLucExceeded             = shared.NewDomainError("LUC_EXCEDIDO", "El nuevo monto de reserva excede el disponible del límite único combinado")
	ErrEmptyAdjustment         = shared.NewDomainError("AJUSTE_VACIO", "Debe indicar al menos una cobertura a ajustar")
	ErrDuplicateLine           = shared.NewDomainError("AJUSTE_DUPLICADO", "La cobertura se repite en el ajuste")
	ErrAdjustmentRejected      = shared.NewDomainError("AJUSTE_RECHAZADO", "El ajuste de reserva no cumple las validaciones")
	ErrDuplicateReserve        = shared.NewDomainError("RESERVA_DUPLICADA", "La cobertura ya tiene reserva en el siniestro")
	ErrReserveHasMovements     = shared.NewDomainError("RESERVA_CON_MOVIMIENTOS", "La reserva tiene movimientos o saldo, no puede eliminarse")
	ErrInconsistentDeclaration = shared.NewDomainError("DECLARACION_INCONSISTENTE", "El medio de la declaración no corresponde al ramo del siniestro")
	ErrUnbalancedEntry         = shared.NewDomainError("ASIENTO_DESCUADRADO", "El asiento contable no cuadra entre debe y haber")
	ErrMissingAccounts         = shared.NewDomainError("CUENTAS_NO_DEFINIDAS", "No existen cuentas contables de reserva para el ramo contable")
	ErrClaimBusy               = shared.NewDomainError("SINIESTRO_EN_PROCESO", "Otro usuario está ajustando las reservas del siniestro, intente nuevamente")
)
