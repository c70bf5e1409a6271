package services

import "errors"

// Ошибки жизненного цикла. Хендлеры отображают их в HTTP-статусы:
// ErrValidation -> 400, ErrNotFound -> 404, ErrConflict -> 409, ErrStorage -> 500.
var (
	// ErrValidation — некорректные или неполные входные данные
	ErrValidation = errors.New("некорректные данные")
	// ErrNotFound — сущность не существует или не принадлежит актору.
	// Намеренно не различаем "нет" и "не ваша", чтобы не раскрывать владение.
	ErrNotFound = errors.New("не найдено")
	// ErrConflict — запрос корректен, но текущее состояние запрещает переход
	ErrConflict = errors.New("конфликт состояния")
	// ErrStorage — сбой хранилища, транзакция откатилась целиком
	ErrStorage = errors.New("ошибка хранилища")
)
