package flag

import "flag"

var (
	ServiceName = flag.String("service", "debatify_client", "name of the running binary, used in logs")
	NoColor     = flag.Bool("no_color", false, "disable colored terminal output")
)

func ParseFlags() {
	flag.Parse()
}
