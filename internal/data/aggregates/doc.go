// Package aggregates implements the intake write boundaries over GORM. Each aggregate
// runs its whole write in one transaction it opens itself and reports failures as
// domain aggregate error codes.
package aggregates
