// Package stubservice provides local stand-ins for the address proxy and the n8n validation
// webhook, so the contract tests can be exercised without either of them running.
package stubservice
