package middleware

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	CtxKeyConfig     contextKey = "config"
	CtxKeyConfigPath contextKey = "config_path"
)

type CommandFactory func() *cobra.Command

type MiddlewareFunc func(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error

type MiddlewareChain func(factory CommandFactory) CommandFactory

type contextKey string

// UseMiddlewareChain wraps a CommandFactory so the middlewares run, in order,
// as the command's PreRunE. An existing PreRunE runs last.
func UseMiddlewareChain(middlewares ...MiddlewareFunc) MiddlewareChain {
	mws := make([]MiddlewareFunc, len(middlewares))
	copy(mws, middlewares)

	return func(factory CommandFactory) CommandFactory {
		return func() *cobra.Command {
			cmd := factory()
			orig := cmd.PreRunE

			cmd.PreRunE = func(c *cobra.Command, a []string) error {
				var chain func(i int, c *cobra.Command, a []string) error
				chain = func(i int, c *cobra.Command, a []string) error {
					if i >= len(mws) {
						if orig != nil {
							return orig(c, a)
						}
						return nil
					}
					return mws[i](c, a, func(nc *cobra.Command, na []string) error {
						return chain(i+1, nc, na)
					})
				}
				return chain(0, c, a)
			}
			return cmd
		}
	}
}

func Get[T any](cmd *cobra.Command, key contextKey) (T, error) {
	var zero T

	ctx := cmd.Context()
	if ctx == nil {
		return zero, fmt.Errorf("command context is nil")
	}

	val := ctx.Value(key)
	if val == nil {
		return zero, fmt.Errorf("context value %q is nil", key)
	}

	casted, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("context value %q has wrong type: %T", key, val)
	}

	return casted, nil
}
