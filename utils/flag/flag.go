package flag

import "flag"

var (
	// ServiceName is used to tag log entries so multiple services sharing the
	// same log sink can be told apart.
	ServiceName = flag.String("service", "api_server", "name of the running service")
)

func ParseFlags() {
	flag.Parse()
}
