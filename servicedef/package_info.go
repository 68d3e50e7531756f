// Package servicedef defines the JSON exchanged with the address validation webhook.
package servicedef
