package domain

import "errors"

var (
	ErrNotFound        = errors.New("не найдено")
	ErrForbidden       = errors.New("доступ запрещен")
	ErrValidation      = errors.New("ошибка валидации")
	ErrSlotUnavailable = errors.New("выбранное время недоступно")
	ErrUnauthorized    = errors.New("требуется авторизация")
)
