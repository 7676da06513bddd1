package source

// contract panics on a broken contract when built with the debug tag, it is a no-op otherwise
func contract(condition bool, message string) {
	if debugAssertions && !condition {
		panic(message)
	}
}
