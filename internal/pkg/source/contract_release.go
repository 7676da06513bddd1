//go:build !debug

package source

const debugAssertions = false
