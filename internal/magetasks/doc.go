// Package magetasks implements the mage targets of the lta repository:
// building the lta binary with version metadata, running the test suite
// (plain, race and coverage), linting and a smoke run of `lta analyze`
// against a scratch result directory.
package magetasks
