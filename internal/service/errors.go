package service

import "errors"

// Ровно два вида ошибок уходят наружу: NotFound и Validation.
// Ошибки авторизации намеренно неотличимы от отсутствия записи, чтобы не
// подтверждать существование чужих данных.

type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }

func NotFound(msg string) error { return &NotFoundError{msg: msg} }

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func Validation(msg string) error { return &ValidationError{msg: msg} }

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
