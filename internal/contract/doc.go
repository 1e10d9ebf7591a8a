// Package contract holds tests that pin the on-disk schema and the JSON wire
// formats shared with the agent platform. It has no runtime code.
package contract
