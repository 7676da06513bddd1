//go:build debug

package source

const debugAssertions = true
