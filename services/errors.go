package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrOrderNotCancellable  = errors.New("only pending orders can be cancelled")
	ErrOrderNumberExhausted = errors.New("could not allocate a unique order number")

	ErrReviewNotFound   = errors.New("review not found")
	ErrReviewNotAllowed = errors.New("product can only be reviewed from your own delivered order")
	ErrReviewExists     = errors.New("you have already reviewed this product for this order")

	ErrNotificationNotFound    = errors.New("notification not found")
	ErrInvalidNotificationType = errors.New("invalid notification type")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrCustomerNotFound   = errors.New("customer not found")
)

// NotFoundError membawa sentinel sekaligus nama entity yang tidak ditemukan
type NotFoundError struct {
	Err    error
	Entity string
}

func (e *NotFoundError) Error() string {
	if e.Entity == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Entity)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// ValidationError menandakan input ditolak sebelum akses database
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, field := range sortedKeys(e.Fields) {
		parts = append(parts, fmt.Sprintf("%s %s", field, e.Fields[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// IsNotFound true untuk semua error "tidak ditemukan" dari service
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrReviewNotFound) ||
		errors.Is(err, ErrNotificationNotFound) ||
		errors.Is(err, ErrCustomerNotFound)
}

// IsValidation true untuk error input
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrInvalidNotificationType)
}

// IsRejected true untuk pelanggaran aturan bisnis yang dikembalikan sebagai 400
func IsRejected(err error) bool {
	return errors.Is(err, ErrOrderNotCancellable) ||
		errors.Is(err, ErrReviewNotAllowed) ||
		errors.Is(err, ErrReviewExists) ||
		errors.Is(err, ErrEmailTaken)
}

// validate memakai tag "binding" yang sama dengan gin supaya DTO cukup satu set tag
var validate = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}()

func validateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return NewValidationError(err)
	}
	return nil
}

// NewValidationError mengubah error validator (termasuk dari binding gin) menjadi *ValidationError
func NewValidationError(err error) *ValidationError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Fields: map[string]string{"request": err.Error()}}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = describeTag(fe)
	}
	return &ValidationError{Fields: fields}
}

// fieldPath membuang nama struct root, "CreateOrderInput.Items[0].Quantity" -> "Items[0].Quantity"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of [" + fe.Param() + "]"
	case "email":
		return "must be a valid email"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
