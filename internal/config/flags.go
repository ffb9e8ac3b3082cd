package config

import (
	"flag"
	"os"
)

// parses CLI flags for the server
func ParseFlags() Flags {
	return parseFlags(os.Args[1:])
}

func parseFlags(args []string) Flags {
	fs := flag.NewFlagSet("errorstack", flag.ExitOnError)
	configPath := fs.String("config", os.Getenv("CONFIG_FILE"), "path to optional YAML config file")
	port := fs.String("port", "", "port to listen on (overrides PORT)")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return Flags{ConfigPath: *configPath, Port: *port}
}
