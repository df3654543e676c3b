// Package common — errors.go определяет ошибки, общие для всех модулей бота.
// Обработчики различают их через errors.Is и показывают пользователю
// понятное сообщение вместо текста ошибки.
package common

import "errors"

// Ошибки источников данных
var (
	// ErrFetch — API или страница недоступны (сеть, таймаут, HTTP-статус)
	ErrFetch = errors.New("не удалось получить данные из источника")
	// ErrPayload — ответ пришёл, но его формат не распознан
	ErrPayload = errors.New("неизвестный формат ответа источника")
	// ErrNotEnoughDraws — после отбраковки тиражей слишком мало для анализа
	ErrNotEnoughDraws = errors.New("недостаточно тиражей для анализа")
	// ErrLiveNotFound — на live-странице нет блока с результатами
	ErrLiveNotFound = errors.New("блок результатов не найден на странице")
)

// Ошибки команд
var (
	// ErrBadArgs — аргументы команды не разобраны
	ErrBadArgs = errors.New("некорректные аргументы команды")
	// ErrDrawIndex — запрошен тираж за пределами загруженной истории
	ErrDrawIndex = errors.New("такого тиража нет в загруженной истории")
)

// Ошибки подписок
var (
	// ErrAlreadySubscribed — чат уже подписан на отчёты
	ErrAlreadySubscribed = errors.New("чат уже подписан")
	// ErrNotSubscribed — чат не был подписан
	ErrNotSubscribed = errors.New("чат не подписан")
)

// Ошибки админки
var (
	// ErrNotAdmin — пользователь не является администратором
	ErrNotAdmin = errors.New("у вас нет прав администратора")
	// ErrWrongPassword — неверный пароль
	ErrWrongPassword = errors.New("неверный пароль")
	// ErrTooManyAttempts — слишком много неудачных попыток входа
	ErrTooManyAttempts = errors.New("слишком много попыток, подождите 1 час")
	// ErrSessionExpired — сессии нет или она истекла
	ErrSessionExpired = errors.New("сессия истекла, авторизуйтесь заново")
)
