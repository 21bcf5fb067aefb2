// Package config binds connection and logging properties to
// command line flags, environment variables and configuration
// files through viper. Applications embedding the library can
// compose their own binders next to the provided ones.
package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Binder declares flags on a command and later reads the resolved
// values back. Bind runs once before parsing; Configure runs once
// after, with file and environment values already merged
type Binder interface {
	Bind(*viper.Viper, *cobra.Command) error
	Configure(*viper.Viper) error
}
