// Package async provides small fan-out helpers for running independent
// side effects concurrently and joining on their errors.
//
// The revocation flows use it to blocklist several tokens in parallel:
// each Exec call returns a future, and ExecAll surfaces the first failure
// once every future has settled.
package async
