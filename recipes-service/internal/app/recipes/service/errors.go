package service

import "errors"

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrRatingNotFound  = errors.New("rating not found")
	ErrDuplicateRating = errors.New("user has already rated this recipe")
	ErrCommentNotFound = errors.New("comment not found")
	ErrUnauthorized    = errors.New("unauthorized access to resource")
)

// ValidationError - ошибка валидации входных данных с текстом для клиента
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}
