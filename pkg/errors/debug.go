package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGColumn     string `json:"pg_column,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`

	// ConstraintHint names the business rule behind a known constraint so
	// violation logs can be read without the schema open.
	ConstraintHint string `json:"constraint_hint,omitempty"`
}

// constraintHints covers every named constraint in the migrations.
var constraintHints = map[string]string{
	"uq_vendors_vendor_code":                 "vendor code already registered",
	"uq_vendors_contact_details":             "contact details already registered",
	"ck_vendors_vendor_code":                 "vendor code must be six uppercase letters or digits",
	"uq_purchase_orders_po_number":           "PO number already registered",
	"ck_purchase_orders_quantity":            "quantity must be at least 1",
	"ck_purchase_orders_quality_rating":      "quality rating must be between 0 and 5",
	"purchase_orders_vendor_id_fkey":         "purchase order references a missing vendor",
	"historical_performances_vendor_id_fkey": "snapshot references a missing vendor",
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		d.PGCode = pgxErr.Code
		d.PGConstraint = pgxErr.ConstraintName
		d.PGTable = pgxErr.TableName
		d.PGColumn = pgxErr.ColumnName
		d.PGDetail = pgxErr.Detail
		d.PGMessage = pgxErr.Message
		d.ConstraintHint = constraintHints[d.PGConstraint]
		return d
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		d.PGCode = string(pqErr.Code)
		d.PGConstraint = pqErr.Constraint
		d.PGTable = pqErr.Table
		d.PGColumn = pqErr.Column
		d.PGDetail = pqErr.Detail
		d.PGMessage = pqErr.Message
		d.ConstraintHint = constraintHints[d.PGConstraint]
		return d
	}

	return d
}
