package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Константы валидации
const (
	MinUsernameLength        = 3
	MaxUsernameLength        = 30
	MinItemNameLength        = 3
	MaxItemNameLength        = 200
	MinItemDescriptionLength = 10
	MaxItemDescriptionLength = 5000
	MaxCategoryLength        = 100
	MaxConditionLength       = 100
	MinClaimMessageLength    = 10
	MaxClaimMessageLength    = 2000
	MaxReviewMessageLength   = 1000
	MinAuctionTitleLength    = 3
	MaxAuctionTitleLength    = 200
	MinPrice                 = 0.0
	MaxPrice                 = 99999999.99 // предел NUMERIC(10, 2)
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	// Базовая проверка формата
	if !strings.Contains(email, "@") {
		return fmt.Errorf("email должен содержать символ @")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}

	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	if !strings.Contains(domainPart, ".") {
		return fmt.Errorf("доменная часть email должна содержать точку")
	}

	// Проверка на валидные символы в локальной части
	emailRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !emailRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	// Проверка на валидные символы в доменной части
	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidatePassword проверяет пароль на соответствие требованиям безопасности.
// Требования:
// - Минимум 8 символов
// - Должен содержать заглавные буквы
// - Должен содержать строчные буквы
// - Должен содержать цифры
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("пароль должен быть не менее 8 символов")
	}

	var (
		hasUpper  = false
		hasLower  = false
		hasNumber = false
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("пароль должен содержать хотя бы одну заглавную букву")
	}
	if !hasLower {
		return fmt.Errorf("пароль должен содержать хотя бы одну строчную букву")
	}
	if !hasNumber {
		return fmt.Errorf("пароль должен содержать хотя бы одну цифру")
	}

	return nil
}

// ValidateUsername проверяет имя пользователя.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("имя пользователя обязательно")
	}

	username = strings.TrimSpace(username)

	// Проверка длины
	if err := ValidateLength("имя пользователя", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}

	// Проверка на допустимые символы (только буквы, цифры и подчеркивание)
	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("имя пользователя может содержать только буквы, цифры и подчеркивание")
	}

	// Проверка, что не начинается с цифры
	if len(username) > 0 && unicode.IsDigit(rune(username[0])) {
		return fmt.Errorf("имя пользователя не может начинаться с цифры")
	}

	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateItemName проверяет название лота.
func ValidateItemName(name string) error {
	if name == "" {
		return fmt.Errorf("название лота обязательно")
	}

	name = strings.TrimSpace(name)

	if err := ValidateLength("название лота", name, MinItemNameLength, MaxItemNameLength); err != nil {
		return err
	}

	return nil
}

// ValidateItemDescription проверяет описание лота.
func ValidateItemDescription(description string) error {
	if description == "" {
		return fmt.Errorf("описание лота обязательно")
	}

	description = strings.TrimSpace(description)

	if err := ValidateLength("описание лота", description, MinItemDescriptionLength, MaxItemDescriptionLength); err != nil {
		return err
	}

	return nil
}

// ValidateClaimMessage проверяет сообщение заявки аукциониста.
func ValidateClaimMessage(message string) error {
	if message == "" {
		return fmt.Errorf("сообщение заявки обязательно")
	}

	message = strings.TrimSpace(message)

	if err := ValidateLength("сообщение заявки", message, MinClaimMessageLength, MaxClaimMessageLength); err != nil {
		return err
	}

	return nil
}

// ValidateReviewMessage проверяет комментарий продавца при рассмотрении заявки.
func ValidateReviewMessage(message string) error {
	if message == "" {
		return nil
	}
	return ValidateLength("комментарий", strings.TrimSpace(message), 0, MaxReviewMessageLength)
}

// ValidatePrices проверяет ценовые параметры лота.
// Стартовая цена и шаг ставки обязательны. Резервная цена необязательна:
// ноль означает, что резерва нет, иначе она не может быть ниже стартовой.
func ValidatePrices(startingPrice, reservePrice, bidIncrement float64) error {
	if startingPrice <= MinPrice {
		return fmt.Errorf("стартовая цена должна быть положительной")
	}
	if startingPrice > MaxPrice {
		return fmt.Errorf("стартовая цена не может превышать %.2f", MaxPrice)
	}
	if reservePrice < 0 {
		return fmt.Errorf("резервная цена не может быть отрицательной")
	}
	if reservePrice != 0 && reservePrice < startingPrice {
		return fmt.Errorf("резервная цена не может быть ниже стартовой")
	}
	if reservePrice > MaxPrice {
		return fmt.Errorf("резервная цена не может превышать %.2f", MaxPrice)
	}
	if bidIncrement <= 0 {
		return fmt.Errorf("шаг ставки должен быть положительным")
	}
	return nil
}

// ValidateAuctionTitle проверяет название аукциона.
func ValidateAuctionTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("название аукциона обязательно")
	}
	return ValidateLength("название аукциона", strings.TrimSpace(title), MinAuctionTitleLength, MaxAuctionTitleLength)
}
