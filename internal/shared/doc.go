// Package shared holds code used by several packages that belongs to none of
// them. Today that is only testutil, the fixtures and log capture used by
// package tests.
package shared
