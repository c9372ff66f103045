//go:build !debug

package logging

const variant = "REL"
