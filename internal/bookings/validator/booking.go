package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"boatsafari/pkg/logger"
	"boatsafari/pkg/model"
)

var (
	contactRegex     = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)
	cardExpiryRegex  = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cardCVVRegex     = regexp.MustCompile(`^\d{3}$`)
	bankAccountRegex = regexp.MustCompile(`^[0-9]{10,20}$`)
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("contact_number", validateContactNumber); err != nil {
		log.Fatal("Failed to register 'contact_number' validator",
			"error", err,
		)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func validateContactNumber(fl validator.FieldLevel) bool {
	return contactRegex.MatchString(fl.Field().String())
}

// ValidateReservation checks the client input for creating a booking.
// Contact numbers must already be normalized to E.164 by the sanitizer.
func (v *BookingValidator) ValidateReservation(req *model.ReservationRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// ValidatePayment checks the struct-level constraints plus the
// method-specific detail fields. Detail checks run before any gateway
// call so malformed instruments fail fast.
func (v *BookingValidator) ValidatePayment(req *model.PaymentRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	switch req.Method {
	case model.MethodCard:
		return v.validateCardDetails(req)
	case model.MethodBankTransfer:
		return v.validateBankDetails(req)
	}
	return nil
}

func (v *BookingValidator) validateCardDetails(req *model.PaymentRequest) error {
	var errs ValidationErrors

	if strings.TrimSpace(req.CardHolderName) == "" {
		errs = append(errs, ValidationError{
			Field:   "CardHolderName",
			Message: "card holder name is required for card payments",
		})
	}

	digits := strings.ReplaceAll(req.CardNumber, " ", "")
	if len(digits) != 16 || !isAllDigits(digits) {
		errs = append(errs, ValidationError{
			Field:   "CardNumber",
			Message: "card number must be 16 digits",
		})
	}

	if !cardExpiryRegex.MatchString(req.CardExpiry) {
		errs = append(errs, ValidationError{
			Field:   "CardExpiry",
			Message: "card expiry must be in MM/YY format",
		})
	}

	if !cardCVVRegex.MatchString(req.CardCVV) {
		errs = append(errs, ValidationError{
			Field:   "CardCVV",
			Message: "CVV must be 3 digits",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *BookingValidator) validateBankDetails(req *model.PaymentRequest) error {
	if !bankAccountRegex.MatchString(req.AccountNumber) {
		return ValidationErrors{
			ValidationError{
				Field:   "AccountNumber",
				Message: "account number must be 10 to 20 digits",
			},
		}
	}
	return nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "contact_number":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +94771234567)", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
