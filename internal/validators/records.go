// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/MKhiriev/go-finance-keeper/models"
)

// Field names accepted by [RecordValidator.Validate] for field-level scoping.
// They are the Go field names of the validated structs.
const (
	FieldID       = "ID"
	FieldDate     = "Date"
	FieldAmount   = "Amount"
	FieldCategory = "Category"
	FieldEmail    = "Email"
	FieldPassword = "Password"
)

// RecordValidator validates records and auth requests using the struct tags
// declared in package models.
//
// Supported types (value or pointer):
//   - models.Expense, models.Income, models.Budget, models.SavingsGoal
//   - models.Credentials, models.RegisterRequest
//
// [FieldID] additionally requires a non-empty record id, which the struct
// tags leave optional for records that are about to be created.
type RecordValidator struct {
	validate *validator.Validate
}

// NewRecordValidator constructs a [RecordValidator] and returns it as the
// Validator interface.
func NewRecordValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Monetary amounts are compared as floats by the numeric rules.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	return &RecordValidator{validate: v}
}

// Validate checks obj. When fields are given only the named fields are
// checked.
func (v *RecordValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Expense:
		return v.validateRecord(ctx, &value, fields...)
	case *models.Expense:
		return v.validateRecord(ctx, value, fields...)

	case models.Income:
		return v.validateRecord(ctx, &value, fields...)
	case *models.Income:
		return v.validateRecord(ctx, value, fields...)

	case models.Budget:
		return v.validateRecord(ctx, &value, fields...)
	case *models.Budget:
		return v.validateRecord(ctx, value, fields...)

	case models.SavingsGoal:
		return v.validateRecord(ctx, &value, fields...)
	case *models.SavingsGoal:
		return v.validateRecord(ctx, value, fields...)

	case models.Credentials:
		return v.validateStruct(ctx, &value, fields...)
	case *models.Credentials:
		return v.validateStruct(ctx, value, fields...)

	case models.RegisterRequest:
		return v.validateStruct(ctx, &value, fields...)
	case *models.RegisterRequest:
		return v.validateStruct(ctx, value, fields...)

	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}
}

func (v *RecordValidator) validateRecord(ctx context.Context, rec models.Record, fields ...string) error {
	if reflect.ValueOf(rec).IsNil() {
		return fmt.Errorf("%w: nil %T", ErrUnsupportedType, rec)
	}

	structFields := make([]string, 0, len(fields))
	for _, field := range fields {
		if field == FieldID {
			if rec.RecordID() == "" {
				return ErrMissingID
			}
			continue
		}
		structFields = append(structFields, field)
	}

	if len(fields) > 0 && len(structFields) == 0 {
		return nil
	}
	return v.validateStruct(ctx, rec, structFields...)
}

func (v *RecordValidator) validateStruct(ctx context.Context, obj any, fields ...string) error {
	if reflect.ValueOf(obj).IsNil() {
		return fmt.Errorf("%w: nil %T", ErrUnsupportedType, obj)
	}

	var err error
	if len(fields) > 0 {
		for _, field := range fields {
			if _, ok := reflect.TypeOf(obj).Elem().FieldByName(field); !ok {
				return fmt.Errorf("%w: %s", ErrUnknownField, field)
			}
		}
		err = v.validate.StructPartialCtx(ctx, obj, fields...)
	} else {
		err = v.validate.StructCtx(ctx, obj)
	}

	return fieldErrors(err)
}

func fieldErrors(err error) error {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	result := make(FieldErrors, len(validationErrors))
	for _, fe := range validationErrors {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		result[fe.Field()] = rule
	}
	return result
}
