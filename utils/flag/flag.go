/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic.
	Every cobra command registers them through AddFlags on its persistent flag
	set. Values keep their defaults when the caller never parses flags, which is
	the case in unit tests.
*/

package flag

import (
	"github.com/spf13/pflag"
)

const (
	APIServer  = "api_server"
	CacheAdmin = "cache_admin"
	Migrator   = "migrator"
)

var (
	IsDevelopment bool
	ServiceName   string
	SettingPath   string
)

func init() {
	IsDevelopment = true
	ServiceName = APIServer
}

// AddFlags binds the shared flags to fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
	fs.StringVar(&ServiceName, "service", ServiceName, "'api_server', 'cache_admin' or 'migrator'")
	fs.StringVar(&SettingPath, "setting", "", "path to the yatube app setting yaml, defaults are used when empty")
}
