package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jusunglee/ptv-mcp-go/internal/apperr"
)

const (
	DefaultMaxResults = 5
	MaxMaxResults     = 100
)

// Disruption status values accepted by upstream
const (
	DisruptionStatusCurrent = "current"
	DisruptionStatusPlanned = "planned"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("routetype", func(fl validator.FieldLevel) bool {
		return RouteType(fl.Field().Int()).Valid()
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// DeparturesQuery selects departures from one stop
type DeparturesQuery struct {
	StopID     int        `validate:"gt=0"`
	RouteType  RouteType  `validate:"routetype"`
	MaxResults int        `validate:"gte=1,lte=100"`
	DateUTC    *time.Time `validate:"-"`
	RouteID    int        `validate:"gte=0"`
}

// StopQuery is a free-text stop search
type StopQuery struct {
	Name       string      `validate:"notblank,max=200"`
	RouteTypes []RouteType `validate:"dive,routetype"`
}

// RouteFilter narrows the route listing
type RouteFilter struct {
	RouteTypes []RouteType `validate:"dive,routetype"`
	RouteID    int         `validate:"gte=0"`
	RouteName  string      `validate:"max=200"`
}

// DisruptionFilter narrows the disruption listing
type DisruptionFilter struct {
	RouteTypes []RouteType `validate:"dive,routetype"`
	RouteID    int         `validate:"gte=0"`
	Status     string      `validate:"omitempty,oneof=current planned"`
}

func (q DeparturesQuery) Validate() error  { return validateStruct(q) }
func (q StopQuery) Validate() error        { return validateStruct(q) }
func (f RouteFilter) Validate() error      { return validateStruct(f) }
func (f DisruptionFilter) Validate() error { return validateStruct(f) }

// validateStruct runs the tag rules and reports the first failing field as a validation error
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperr.Validation("", "%v", err)
	}

	fe := fieldErrs[0]
	return apperr.Validation("", "%s", describe(fe))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "routetype":
		return fmt.Sprintf("invalid route type %d: must be 0-4 (0=Train, 1=Tram, 2=Bus, 3=V/Line, 4=Night Bus)", fe.Value())
	case "notblank":
		return fmt.Sprintf("%s must not be empty", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s, got %v", field, fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", field, fe.Param(), fe.Value())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", field, fe.Param(), fe.Value())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
