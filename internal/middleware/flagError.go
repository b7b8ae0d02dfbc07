package middleware

import (
	"errors"

	"github.com/MrSnakeDoc/sitemapgen/internal/errs"
	"github.com/MrSnakeDoc/sitemapgen/internal/logger"
)

var ErrLogged = errors.New("already logged")

// FlagComboError prints the message for code and returns ErrLogged so the
// caller does not print it again.
func FlagComboError(code errs.Code, a ...any) error {
	msg := errs.Msg(code, a...)
	logger.LogError("%s", msg)
	return ErrLogged
}
