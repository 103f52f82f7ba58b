package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation
// registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// order dates arrive as strings; check the format up front so handlers
	// can parse without re-validating.
	v.RegisterStructValidation(createOrderStructValidation, CreateOrderRequest{})
	v.RegisterStructValidation(editOrderStructValidation, EditOrderRequest{})

	return v
}

func createOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CreateOrderRequest)
	if req.OrderDate == "" {
		return // required tag reports the empty case
	}
	if _, err := ParseOrderDate(req.OrderDate); err != nil {
		sl.ReportError(req.OrderDate, "order_date", "OrderDate", "order_date_format", OrderDateLayout)
	}
}

func editOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(EditOrderRequest)
	if req.OrderDate == "" {
		return
	}
	if _, err := ParseOrderDate(req.OrderDate); err != nil {
		sl.ReportError(req.OrderDate, "order_date", "OrderDate", "order_date_format", OrderDateLayout)
	}
}
