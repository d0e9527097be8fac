package validation

import (
	"fmt"
	"regexp"
)

// ClientNamePattern допустимый формат имени клиента, на которое выпускается access token.
// Латинские буквы, цифры, '_' и '-', длина 3-32 символа.
var ClientNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,32}$`)

const (
	// MinClientNameLen минимальная длина имени клиента
	MinClientNameLen = 3
	// MaxClientNameLen максимальная длина имени клиента
	MaxClientNameLen = 32
)

// ValidateClientName проверяет имя клиента для выпуска токена
func ValidateClientName(name string) error {
	if name == "" {
		return fmt.Errorf("client name cannot be empty")
	}

	if len(name) < MinClientNameLen {
		return fmt.Errorf("client name must be at least %d characters long", MinClientNameLen)
	}

	if len(name) > MaxClientNameLen {
		return fmt.Errorf("client name must not exceed %d characters", MaxClientNameLen)
	}

	if !ClientNamePattern.MatchString(name) {
		return fmt.Errorf("client name can only contain letters, numbers, '_' and '-'")
	}

	return nil
}
