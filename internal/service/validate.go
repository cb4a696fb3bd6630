package service

import (
	"regexp"
	"time"
	"unicode/utf8"

	"go-account-service/internal/model"
)

const (
	minPasswordLen = 6
	minNameLen     = 2
	maxNameLen     = 50
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func isValidEmail(email string) bool {
	return email != "" && len(email) <= 254 && emailPattern.MatchString(email)
}

func isValidName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= minNameLen && n <= maxNameLen
}

func isValidRole(role string) bool {
	return role == model.RoleUser || role == model.RoleAdmin
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
