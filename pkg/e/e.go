package e

import "fmt"

var (
	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
	ErrKafkaBrokersRequired = fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")

	// 400 Bad Request
	ErrValidation          = fmt.Errorf("validation failed")
	ErrStatusBadRequest    = fmt.Errorf("bad request")
	ErrProductNameRequired = fmt.Errorf("product name is required")
	ErrMissingFields       = fmt.Errorf("all fields are required")
	ErrInvalidNumber       = fmt.Errorf("value must be a non-negative number")
	ErrInvalidQuantity     = fmt.Errorf("quantity must be a positive integer")
	ErrUnknownProductType  = fmt.Errorf("unknown product type")
	ErrInvalidPrice        = fmt.Errorf("price is out of range")
	ErrPricePrecision      = fmt.Errorf("price must have at most 2 decimal places")
	ErrStockOutOfRange     = fmt.Errorf("stock value is out of range")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")

	// 422 Unprocessable Entity
	ErrInvalidSale       = fmt.Errorf("invalid sale")
	ErrInsufficientStock = fmt.Errorf("quantity exceeds available stock")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")

	// Ошибки outbox
	ErrOutboxFull    = fmt.Errorf("outbox is full")
	ErrOutboxStopped = fmt.Errorf("outbox is stopped")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// Join оборачивает ошибку двумя причинами, обе доступны через errors.Is.
func Join(kind error, cause error) error {
	return fmt.Errorf("%w: %w", kind, cause)
}
