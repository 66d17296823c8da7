package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"roombooking/pkg/logger"

	"github.com/go-playground/validator/v10"
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

// Details is the shape attached to INVALID_INPUT responses.
func (v ValidationErrors) Details() map[string]any {
	fields := make(map[string]any, len(v))
	for _, err := range v {
		fields[err.Field] = err.Message
	}
	return map[string]any{"fields": fields}
}

// HasIntervalError reports whether end_time failed the ordering rule.
func (v ValidationErrors) HasIntervalError() bool {
	for _, err := range v {
		if err.Field == "end_time" && err.Message == intervalMessage {
			return true
		}
	}
	return false
}

const intervalMessage = "end_time must be after start_time"

type BookRoomRequest struct {
	RoomID    string    `json:"room_id" validate:"required,max=128,printascii"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

// AvailabilityQuery only requires both bounds; ordering is not checked.
type AvailabilityQuery struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

type CancelBookingRequest struct {
	BookingID string `json:"booking_id" validate:"required,max=128,printascii"`
}

type RoomValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewRoomValidator(log *logger.Logger) *RoomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	log.Info("Room validator initialized successfully")

	return &RoomValidator{
		validate: v,
		logger:   log,
	}
}

func (v *RoomValidator) ValidateBookRoom(req *BookRoomRequest) error {
	return v.validateStruct(req)
}

func (v *RoomValidator) ValidateAvailability(query *AvailabilityQuery) error {
	return v.validateStruct(query)
}

func (v *RoomValidator) ValidateCancel(req *CancelBookingRequest) error {
	return v.validateStruct(req)
}

func (v *RoomValidator) validateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *RoomValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "printascii":
			message = fmt.Sprintf("%s must contain printable ASCII characters only", err.Field())
		case "gtfield":
			message = intervalMessage
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
