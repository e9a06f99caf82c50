package dberror

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/siniestros/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTranslate_PassThrough(t *testing.T) {
	assert.NoError(t, Translate(nil))

	de := shared.NewDomainError("AJUSTE_NEGATIVO", "negativo")
	assert.Same(t, de, Translate(de))

	plain := errors.New("boom")
	assert.Same(t, plain, Translate(plain))
}

func TestTranslate_Gorm(t *testing.T) {
	assert.ErrorIs(t, Translate(gorm.ErrRecordNotFound), shared.ErrNotFound)
	assert.ErrorIs(t, Translate(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)), ErrDuplicate)
	assert.ErrorIs(t, Translate(gorm.ErrForeignKeyViolated), ErrMissingParent)
	assert.ErrorIs(t, Translate(context.DeadlineExceeded), ErrCancelled)
}

func TestTranslate_PgConn(t *testing.T) {
	tests := []struct {
		name   string
		err    *pgconn.PgError
		expect *shared.DomainError
	}{
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "reservas_pkey"}, ErrDuplicate},
		{"fk insert", &pgconn.PgError{Code: "23503", Detail: `Key (num_siniestro)=(1) is not present in table "siniestros".`}, ErrMissingParent},
		{"fk delete", &pgconn.PgError{Code: "23503", Detail: `Key (num_siniestro)=(1) is still referenced from table "movimientos_cobertura".`}, ErrHasDependents},
		{"lock", &pgconn.PgError{Code: "55P03"}, ErrRowLocked},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, ErrDeadlock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(fmt.Errorf("query failed: %w", tt.err))
			assert.ErrorIs(t, got, tt.expect)
			de, ok := shared.AsDomainError(got)
			require.True(t, ok)
			assert.Equal(t, tt.err.Code, de.Details["codigo"])
		})
	}

	t.Run("raise exception carries message", func(t *testing.T) {
		got := Translate(&pgconn.PgError{Code: "P0001", Message: "Siniestro cerrado"})
		de, ok := shared.AsDomainError(got)
		require.True(t, ok)
		assert.Equal(t, ErrApplication.Code, de.Code)
		assert.Equal(t, "Siniestro cerrado", de.Details["mensaje"])
	})

	t.Run("unknown code", func(t *testing.T) {
		de, ok := shared.AsDomainError(Translate(&pgconn.PgError{Code: "XX000"}))
		require.True(t, ok)
		assert.Equal(t, "BD_ERROR", de.Code)
		assert.Contains(t, de.Message, "XX000")
	})
}

func TestTranslate_LibPQ(t *testing.T) {
	got := Translate(&pq.Error{Code: "23505", Constraint: "usuarios_pkey"})
	assert.ErrorIs(t, got, ErrDuplicate)
	de, _ := shared.AsDomainError(got)
	assert.Equal(t, "usuarios_pkey", de.Details["restriccion"])
}

func TestTranslate_Oracle(t *testing.T) {
	tests := []struct {
		msg    string
		expect *shared.DomainError
	}{
		{"ORA-00001: unique constraint (SIN.PK_RESERVA) violated", ErrDuplicate},
		{"ORA-02292: integrity constraint (SIN.FK_MOV) violated - child record found", ErrHasDependents},
		{"ORA-02291: integrity constraint (SIN.FK_SIN) violated - parent key not found", ErrMissingParent},
		{"ORA-00054: resource busy and acquire with NOWAIT specified", ErrRowLocked},
		{"ORA-01400: cannot insert NULL into (\"SIN\".\"X\".\"Y\")", ErrRequiredValue},
	}
	for _, tt := range tests {
		t.Run(tt.msg[:9], func(t *testing.T) {
			assert.ErrorIs(t, Translate(errors.New(tt.msg)), tt.expect)
		})
	}

	t.Run("application error keeps its message", func(t *testing.T) {
		got := Translate(errors.New("ORA-20015: La cobertura no admite reserva\nORA-06512: at line 12"))
		de, ok := shared.AsDomainError(got)
		require.True(t, ok)
		assert.Equal(t, ErrApplication.Code, de.Code)
		assert.Equal(t, "La cobertura no admite reserva", de.Details["mensaje"])
		assert.Equal(t, "ORA-20015", de.Details["codigo"])
	})
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(Translate(&pgconn.PgError{Code: "40P01"})))
	assert.True(t, IsRetryable(Translate(errors.New("ORA-00054: resource busy"))))
	assert.False(t, IsRetryable(ErrDuplicate))
}
