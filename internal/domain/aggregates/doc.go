// Package aggregates declares the write boundaries of the intake domain: the contracts
// and error codes that the storage layer implements and the services branch on.
package aggregates
