// Package mocks provides hand-rolled test doubles for the store and
// auth interfaces. Each mock carries optional function fields that
// override behavior per test, with an in-memory default implementation
// behind them.
package mocks
