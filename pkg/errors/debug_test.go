package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestDumpUnwrapsPgxConstraint(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "uq_vendors_vendor_code",
		TableName:      "vendors",
		ColumnName:     "vendor_code",
		Message:        "duplicate key value violates unique constraint",
	}
	err := Wrap(CodeDependency, pgErr, "create vendor")

	d := Dump(err)
	if d.Code != CodeDependency {
		t.Fatalf("code = %q, want %q", d.Code, CodeDependency)
	}
	if d.PGCode != "23505" || d.PGConstraint != "uq_vendors_vendor_code" {
		t.Fatalf("pg fields = %q/%q", d.PGCode, d.PGConstraint)
	}
	if d.ConstraintHint != "vendor code already registered" {
		t.Fatalf("hint = %q", d.ConstraintHint)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("chain = %v, want wrapped entries", d.Chain)
	}
}

func TestDumpUnwrapsPqConstraint(t *testing.T) {
	pqErr := &pq.Error{
		Code:       "23514",
		Constraint: "ck_purchase_orders_quality_rating",
		Table:      "purchase_orders",
	}

	d := Dump(fmt.Errorf("update order: %w", pqErr))
	if d.PGConstraint != "ck_purchase_orders_quality_rating" {
		t.Fatalf("constraint = %q", d.PGConstraint)
	}
	if d.ConstraintHint != "quality rating must be between 0 and 5" {
		t.Fatalf("hint = %q", d.ConstraintHint)
	}
}

func TestDumpUnknownConstraintHasNoHint(t *testing.T) {
	d := Dump(&pgconn.PgError{Code: "23503", ConstraintName: "some_other_fkey"})
	if d.ConstraintHint != "" {
		t.Fatalf("hint = %q, want empty", d.ConstraintHint)
	}
}

func TestDumpNilError(t *testing.T) {
	if d := Dump(nil); d.TopMessage != "" || len(d.Chain) != 0 {
		t.Fatalf("dump of nil = %+v", d)
	}
}
