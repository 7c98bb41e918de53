// Package model holds the Model type and its YAML definition format.
package model
